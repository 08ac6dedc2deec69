package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/journal"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit  int    `short:"n" default:"20" help:"Maximum number of events (0 for all)"`
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

// Run prints journal events, newest first.
func (c *HistoryCmd) Run(g *Global, root *CLI) error {
	e, err := root.open(g.Context, openOptions{journal: true})
	if err != nil {
		return err
	}
	defer e.close()

	if e.journal == nil {
		return errors.ConfigError("journal is disabled").Build()
	}
	events, err := e.journal.History(g.Context, c.Limit)
	if err != nil {
		return err
	}

	if c.Format == "json" {
		if events == nil {
			events = []journal.Event{}
		}
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}
	for _, ev := range events {
		flavor := "link"
		if ev.Embed {
			flavor = "embed"
		}
		line := fmt.Sprintf("%s  %-5s %-5s %s%s", ev.Timestamp.Format(time.RFC3339), ev.Kind, flavor, ev.Document, ev.Anchor)
		if ev.Destination != "" {
			line += " -> " + ev.Destination
		}
		if _, err := fmt.Fprintln(g.Out, line); err != nil {
			return err
		}
	}
	return nil
}
