package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"git.home.luguber.info/inful/blockref/internal/blockref"
	"git.home.luguber.info/inful/blockref/internal/config"
	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/outline"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linkPattern = regexp.MustCompile(`^\[\[a#\^([0-9a-z]{6})\]\]$`)

type testVault struct {
	root string
}

func newTestVault(t *testing.T) *testVault {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"a.md":       "# Title\n\nFirst paragraph.\n\n- one\n- two\n",
		"notes/b.md": "Start: \n",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return &testVault{root: root}
}

func (v *testVault) path(name string) string {
	return filepath.Join(v.root, filepath.FromSlash(name))
}

func (v *testVault) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(v.path(name))
	require.NoError(t, err)
	return string(data)
}

// run parses args like main does and runs the selected command.
func (v *testVault) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("blockref"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)

	kctx, err := parser.Parse(append([]string{"--vault", v.root}, args...))
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	err = kctx.Run(&Global{Context: t.Context(), Out: &out, In: strings.NewReader(stdin)}, cli)
	return out.String(), err
}

func TestCopy_WritesIDAndPrintsLink(t *testing.T) {
	v := newTestVault(t)

	out, err := v.run(t, "", "copy", v.path("a.md"), "--line", "2")
	require.NoError(t, err)

	m := linkPattern.FindStringSubmatch(strings.TrimSpace(out))
	require.NotNil(t, m, "unexpected output %q", out)
	assert.Contains(t, v.read(t, "a.md"), "First paragraph. ^"+m[1]+"\n")
}

func TestCopy_NoTarget(t *testing.T) {
	v := newTestVault(t)
	_, err := v.run(t, "", "copy", v.path("a.md"), "--line", "1")
	require.ErrorIs(t, err, blockref.ErrNoTarget)
	assert.Equal(t, 3, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestCopyThenPasteAcrossInvocations(t *testing.T) {
	v := newTestVault(t)

	_, err := v.run(t, "", "copy", v.path("a.md"), "--line", "0")
	require.NoError(t, err)

	out, err := v.run(t, "", "paste", v.path("notes/b.md"))
	require.NoError(t, err)
	assert.Equal(t, "[[a#Title]]\n", out)
	assert.Equal(t, "Start: \n", v.read(t, "notes/b.md"))

	out, err = v.run(t, "", "paste", v.path("notes/b.md"), "--insert", "--line", "0", "--col", "7", "--embed")
	require.NoError(t, err)
	assert.Equal(t, "![[a#Title]]\n", out)
	assert.Equal(t, "Start: ![[a#Title]]\n", v.read(t, "notes/b.md"))
}

func TestPaste_NothingCopied(t *testing.T) {
	v := newTestVault(t)
	_, err := v.run(t, "", "paste", v.path("notes/b.md"))
	require.ErrorIs(t, err, blockref.ErrNoReference)
}

func TestCopy_MarkdownStyleFromEnv(t *testing.T) {
	v := newTestVault(t)
	t.Setenv(config.EnvLinkStyle, "markdown")

	_, err := v.run(t, "", "copy", v.path("a.md"), "--line", "0")
	require.NoError(t, err)
	out, err := v.run(t, "", "paste", v.path("notes/b.md"))
	require.NoError(t, err)
	assert.Equal(t, "[](../a.md#Title)\n", out)
}

func TestCopy_RejectsFileOutsideVault(t *testing.T) {
	v := newTestVault(t)
	outside := filepath.Join(t.TempDir(), "x.md")
	require.NoError(t, os.WriteFile(outside, []byte("text\n"), 0o600))

	_, err := v.run(t, "", "copy", outside, "--line", "0")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestOutline_JSON(t *testing.T) {
	v := newTestVault(t)
	out, err := v.run(t, "", "outline", v.path("a.md"), "--format", "json")
	require.NoError(t, err)

	var ol outline.Outline
	require.NoError(t, json.Unmarshal([]byte(out), &ol))
	require.Len(t, ol.Headings, 1)
	assert.Equal(t, "Title", ol.Headings[0].Text)
	assert.Len(t, ol.Sections, 3)
	assert.Len(t, ol.ListItems, 2)
}

func TestOutline_Text(t *testing.T) {
	v := newTestVault(t)
	out, err := v.run(t, "", "outline", v.path("a.md"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "heading")
	assert.Contains(t, lines[0], "# Title")
	assert.Contains(t, lines[1], "paragraph")
	assert.Contains(t, lines[3], "item")
}

func TestOutline_TextShowsFrontmatter(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, os.WriteFile(v.path("fm.md"), []byte("---\ntitle: x\ntags: [a]\n---\nBody.\n"), 0o600))

	out, err := v.run(t, "", "outline", v.path("fm.md"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "frontmatter        0:0-3:3  2 properties", lines[0])
	assert.Contains(t, lines[1], "paragraph")
	assert.Contains(t, lines[1], "4:0-4:5")
}

func TestActions(t *testing.T) {
	v := newTestVault(t)
	out, err := v.run(t, "", "actions", v.path("a.md"), "--line", "4")
	require.NoError(t, err)
	assert.Equal(t, "copy-link-to-block\tCopy link to block\ncopy-embed-to-block\tCopy block embed\n", out)

	_, err = v.run(t, "", "copy", v.path("a.md"), "--line", "0")
	require.NoError(t, err)

	out, err = v.run(t, "", "actions", v.path("a.md"), "--line", "1")
	require.NoError(t, err)
	assert.Equal(t, "paste-link-to-block\tPaste link to heading\npaste-embed-to-block\tPaste heading embed\n", out)
}

func TestHistory(t *testing.T) {
	v := newTestVault(t)
	_, err := v.run(t, "", "copy", v.path("a.md"), "--line", "0")
	require.NoError(t, err)
	_, err = v.run(t, "", "paste", v.path("notes/b.md"), "--insert", "--col", "7")
	require.NoError(t, err)

	out, err := v.run(t, "", "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "paste")
	assert.Contains(t, lines[0], "a.md#Title -> notes/b.md")
	assert.Contains(t, lines[1], "copy")

	out, err = v.run(t, "", "history", "--limit", "1", "--format", "json")
	require.NoError(t, err)
	var events []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	assert.Len(t, events, 1)
}

func TestHistory_JournalDisabled(t *testing.T) {
	v := newTestVault(t)
	t.Setenv(config.EnvJournalDisabled, "true")

	_, err := v.run(t, "", "history")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestMetricsTextfile(t *testing.T) {
	v := newTestVault(t)
	textfile := filepath.Join(t.TempDir(), "blockref.prom")
	t.Setenv(config.EnvMetricsTextfile, textfile)

	_, err := v.run(t, "", "copy", v.path("a.md"), "--line", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "blockref_ids_minted_total 1")
	assert.Contains(t, string(data), `blockref_copies_total{flavor="link",target="block"} 1`)
}

func TestSession(t *testing.T) {
	v := newTestVault(t)
	script := strings.Join([]string{
		"state",
		"paste " + v.path("notes/b.md") + " 0 7",
		"copy " + v.path("a.md") + " 0",
		"state",
		"paste " + v.path("notes/b.md") + " 0 7",
		"actions " + v.path("a.md") + " 5",
		"bogus",
		"quit",
		"copy " + v.path("a.md") + " 2",
	}, "\n")

	out, err := v.run(t, script, "session")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 8)
	assert.Equal(t, "(nothing copied)", lines[0])
	assert.Equal(t, "nothing has been copied yet", lines[1])
	assert.Equal(t, "[[a#Title]]", lines[2])
	assert.Equal(t, "a.md#Title", lines[3])
	assert.Equal(t, "[[a#Title]]", lines[4])
	assert.Equal(t, "paste-link-to-block\tPaste link to heading", lines[5])
	assert.Equal(t, "copy-link-to-block\tCopy link to block", lines[7])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "Error:"))

	assert.Equal(t, "Start: [[a#Title]]\n", v.read(t, "notes/b.md"))
	assert.NotContains(t, v.read(t, "a.md"), "^", "commands after quit must not run")
}
