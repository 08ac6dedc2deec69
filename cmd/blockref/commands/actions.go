package commands

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/blockref/internal/docmodel"
)

// ActionsCmd implements the 'actions' command.
type ActionsCmd struct {
	File   string `arg:"" type:"existingfile" help:"Markdown file"`
	Line   int    `short:"l" required:"" help:"Cursor line (0-based)"`
	Col    int    `help:"Cursor column in bytes (0-based)"`
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

// Run lists the copy/paste menu entries for the position.
func (c *ActionsCmd) Run(g *Global, root *CLI) error {
	e, err := root.open(g.Context, openOptions{journal: true, hydrate: true})
	if err != nil {
		return err
	}
	defer e.close()

	id, _, err := e.document(c.File)
	if err != nil {
		return err
	}
	actions, err := e.service.Actions(id, docmodel.Position{Line: c.Line, Col: c.Col})
	if err != nil {
		return err
	}

	if c.Format == "json" {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(actions)
	}
	for _, a := range actions {
		if _, err := fmt.Fprintf(g.Out, "%s\t%s\n", a.Command, a.Title); err != nil {
			return err
		}
	}
	return nil
}
