package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/reference"
	"git.home.luguber.info/inful/blockref/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Vault)
	assert.Equal(t, reference.StyleWikilink, cfg.Link.Style)
	assert.True(t, cfg.IDs.AvoidCollisions)
	assert.Equal(t, filepath.Join(".", ".blockref", "journal.db"), cfg.JournalPath())
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, retry.DefaultPolicy(), cfg.RetryPolicy())
}

func TestLoad_JournalRetry(t *testing.T) {
	p := writeConfig(t, `
journal:
  retry:
    mode: Linear
    initial: 10ms
    max: 1s
    retries: 2
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, retry.Policy{
		Mode:       retry.ModeLinear,
		Initial:    10 * time.Millisecond,
		Max:        time.Second,
		MaxRetries: 2,
	}, cfg.RetryPolicy())
}

func TestLoad_File(t *testing.T) {
	p := writeConfig(t, `
vault: /notes
link:
  style: Markdown
ids:
  avoid_collisions: false
journal:
  path: state/j.db
logging:
  level: WARNING
  format: json
metrics:
  textfile: /tmp/blockref.prom
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "/notes", cfg.Vault)
	assert.Equal(t, reference.StyleMarkdown, cfg.Link.Style)
	assert.False(t, cfg.IDs.AvoidCollisions)
	assert.Equal(t, filepath.Join("/notes", "state", "j.db"), cfg.JournalPath())
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, slog.LevelWarn, cfg.Logging.Level.SlogLevel())
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, "/tmp/blockref.prom", cfg.Metrics.Textfile)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	p := writeConfig(t, "link:\n  style: wiki\n")
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, reference.StyleWikilink, cfg.Link.Style)
	assert.True(t, cfg.IDs.AvoidCollisions)
	assert.Equal(t, defaultJournalPath, cfg.Journal.Path)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeConfig(t, "link:\n  style: wikilink\n")
	t.Setenv(EnvLinkStyle, "markdown")
	t.Setenv(EnvAvoidCollisions, "false")
	t.Setenv(EnvJournalPath, "/var/j.db")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, reference.StyleMarkdown, cfg.Link.Style)
	assert.False(t, cfg.IDs.AvoidCollisions)
	assert.Equal(t, "/var/j.db", cfg.JournalPath())
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
}

func TestLoad_ExpandsEnvInFile(t *testing.T) {
	t.Setenv("NOTES_ROOT", "/srv/notes")
	p := writeConfig(t, "vault: ${NOTES_ROOT}\n")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/srv/notes", cfg.Vault)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"bad link style", "link:\n  style: html\n", nil},
		{"bad log level", "logging:\n  level: loud\n", nil},
		{"bad log format", "logging:\n  format: xml\n", nil},
		{"bad yaml", "vault: [unterminated\n", nil},
		{"empty journal path", "journal:\n  path: \"\"\n", nil},
		{"bad retry mode", "journal:\n  retry:\n    mode: random\n", nil},
		{"negative retries", "journal:\n  retry:\n    retries: -1\n", nil},
		{"zero retry delay", "journal:\n  retry:\n    initial: 0s\n", nil},
		{"bad env bool", "", map[string]string{EnvAvoidCollisions: "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)
		})
	}
}

func TestLoad_MissingFileIsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_DisabledJournalNeedsNoPath(t *testing.T) {
	cfg, err := Load(writeConfig(t, "journal:\n  path: \"\"\n  disabled: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Journal.Disabled)
	assert.Empty(t, cfg.JournalPath())
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Discover(dir))

	p := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(p, []byte("{}\n"), 0o600))
	assert.Equal(t, p, Discover(dir))
}
