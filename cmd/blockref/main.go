package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/blockref/cmd/blockref/commands"
	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/version"
	"github.com/alecthomas/kong"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("blockref"),
		kong.Description("Copy and paste stable links to Markdown blocks and headings."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Context: ctx, Out: os.Stdout, In: os.Stdin}, cli)
	stop()

	if err != nil {
		os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err))
	}
}
