package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/blockref/internal/docmodel"
	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/logfields"
	"git.home.luguber.info/inful/blockref/internal/observability"
	"github.com/alecthomas/kong"
	"github.com/google/uuid"
)

// SessionCmd implements the 'session' command: a line-oriented loop that
// keeps the copied reference in memory for as long as it runs.
type SessionCmd struct{}

// session is the state shared by the commands of one session.
type session struct {
	ctx     context.Context
	env     *env
	out     io.Writer
	adapter *errors.CLIErrorAdapter
}

// Run reads commands from stdin until EOF or "quit".
func (c *SessionCmd) Run(g *Global, root *CLI) error {
	e, err := root.open(g.Context, openOptions{journal: true})
	if err != nil {
		return err
	}
	defer e.close()

	sessionID := uuid.NewString()
	if e.journal != nil {
		sessionID = e.journal.SessionID()
	}
	ctx := observability.WithSessionID(g.Context, sessionID)
	slog.InfoContext(ctx, "Session started", logfields.Path(e.cfg.Vault))

	w, err := e.outlines.Watch(ctx)
	if err != nil {
		slog.Warn("Outline cache will not follow file changes", logfields.Error(err))
	} else {
		defer func() { _ = w.Close() }()
	}

	s := &session{
		ctx:     ctx,
		env:     e,
		out:     g.Out,
		adapter: errors.NewCLIErrorAdapter(root.Verbose, slog.Default()),
	}

	scanner := bufio.NewScanner(g.In)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := s.exec(line); err != nil {
			fmt.Fprintln(s.out, s.adapter.FormatError(err))
		}
	}
	return scanner.Err()
}

// exec parses one line with its own kong parser so flags never leak between lines.
func (s *session) exec(line string) error {
	var grammar sessionGrammar
	parser, err := kong.New(&grammar,
		kong.Name("blockref>"),
		kong.Writers(s.out, s.out),
		kong.Exit(func(int) {}),
		kong.NoDefaultHelp(),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to build session parser").Build()
	}
	kctx, err := parser.Parse(strings.Fields(line))
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, err.Error()).Build()
	}
	return kctx.Run(s)
}

type sessionGrammar struct {
	Copy    sessionCopyCmd    `cmd:"" help:"copy FILE LINE [COL] [--embed]"`
	Paste   sessionPasteCmd   `cmd:"" help:"paste FILE LINE COL [--embed]"`
	Actions sessionActionsCmd `cmd:"" help:"actions FILE LINE"`
	State   sessionStateCmd   `cmd:"" help:"show the copied reference"`
	Help    sessionHelpCmd    `cmd:"" help:"show this help"`
}

type sessionCopyCmd struct {
	File  string `arg:""`
	Line  int    `arg:""`
	Col   int    `arg:"" optional:""`
	Embed bool   `short:"e"`
}

func (c *sessionCopyCmd) Run(s *session) error {
	id, path, err := s.env.document(c.File)
	if err != nil {
		return err
	}
	out, err := s.env.service.Copy(s.ctx, id, docmodel.NewFileEditor(path, docmodel.Position{Line: c.Line, Col: c.Col}), c.Embed)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, out)
	return err
}

type sessionPasteCmd struct {
	File  string `arg:""`
	Line  int    `arg:""`
	Col   int    `arg:""`
	Embed bool   `short:"e"`
}

func (c *sessionPasteCmd) Run(s *session) error {
	id, path, err := s.env.document(c.File)
	if err != nil {
		return err
	}
	out, err := s.env.service.Paste(s.ctx, id, docmodel.NewFileEditor(path, docmodel.Position{Line: c.Line, Col: c.Col}), c.Embed)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, out)
	return err
}

type sessionActionsCmd struct {
	File string `arg:""`
	Line int    `arg:""`
}

func (c *sessionActionsCmd) Run(s *session) error {
	id, _, err := s.env.document(c.File)
	if err != nil {
		return err
	}
	actions, err := s.env.service.Actions(id, docmodel.Position{Line: c.Line})
	if err != nil {
		return err
	}
	for _, a := range actions {
		fmt.Fprintf(s.out, "%s\t%s\n", a.Command, a.Title)
	}
	return nil
}

type sessionStateCmd struct{}

func (sessionStateCmd) Run(s *session) error {
	t, ok := s.env.service.State().Current()
	if !ok {
		_, err := fmt.Fprintln(s.out, "(nothing copied)")
		return err
	}
	_, err := fmt.Fprintf(s.out, "%s%s\n", t.Document, t.AnchorPath)
	return err
}

type sessionHelpCmd struct{}

func (sessionHelpCmd) Run(kctx *kong.Context) error {
	return kctx.PrintUsage(false)
}
