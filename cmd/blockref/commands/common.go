// Package commands implements the blockref command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/blockref/internal/config"
	"git.home.luguber.info/inful/blockref/internal/observability"
	"github.com/alecthomas/kong"
)

// Global carries process-wide handles into every command.
type Global struct {
	Context context.Context
	Out     io.Writer
	In      io.Reader
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: <vault>/.blockref.yaml when present)"`
	Vault   string           `help:"Vault root directory (overrides configuration)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Copy    CopyCmd    `cmd:"" help:"Copy a link to the block or heading at a position"`
	Paste   PasteCmd   `cmd:"" help:"Print or insert the last copied reference"`
	Outline OutlineCmd `cmd:"" help:"Show the block outline of a document"`
	Actions ActionsCmd `cmd:"" help:"List the editor actions available at a position"`
	History HistoryCmd `cmd:"" help:"Show recent copy and paste events"`
	Session SessionCmd `cmd:"" help:"Run an interactive copy/paste session on stdin"`
}

// AfterApply runs after flag parsing; setup logging once. Configuration may
// refine it later.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(config.LoggingConfig{Level: config.LogLevelInfo, Format: config.LogFormatText}, c.Verbose)
	return nil
}

func setupLogging(cfg config.LoggingConfig, verbose bool) {
	level := cfg.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(observability.NewHandler(handler)))
}
