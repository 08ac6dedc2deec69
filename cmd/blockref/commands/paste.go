package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blockref/internal/docmodel"
)

// PasteCmd implements the 'paste' command.
type PasteCmd struct {
	File   string `arg:"" type:"existingfile" help:"Destination Markdown file"`
	Line   int    `short:"l" help:"Insertion line (0-based)"`
	Col    int    `help:"Insertion column in bytes (0-based)"`
	Embed  bool   `short:"e" help:"Paste an embed instead of a link"`
	Insert bool   `short:"i" help:"Insert the reference into the file at --line/--col"`
}

// Run prints the last copied reference formatted for the destination file.
func (c *PasteCmd) Run(g *Global, root *CLI) error {
	e, err := root.open(g.Context, openOptions{journal: true, hydrate: true})
	if err != nil {
		return err
	}
	defer e.close()

	id, path, err := e.document(c.File)
	if err != nil {
		return err
	}

	var out string
	if c.Insert {
		editor := docmodel.NewFileEditor(path, docmodel.Position{Line: c.Line, Col: c.Col})
		out, err = e.service.Paste(g.Context, id, editor, c.Embed)
	} else {
		out, err = e.service.Preview(id, c.Embed)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(g.Out, out)
	return err
}
