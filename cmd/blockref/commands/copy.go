package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blockref/internal/docmodel"
)

// CopyCmd implements the 'copy' command.
type CopyCmd struct {
	File  string `arg:"" type:"existingfile" help:"Markdown file containing the block"`
	Line  int    `short:"l" required:"" help:"Cursor line (0-based)"`
	Col   int    `help:"Cursor column in bytes (0-based)"`
	Embed bool   `short:"e" help:"Copy an embed instead of a link"`
}

// Run writes a block id into the file when needed and prints the reference.
func (c *CopyCmd) Run(g *Global, root *CLI) error {
	e, err := root.open(g.Context, openOptions{journal: true})
	if err != nil {
		return err
	}
	defer e.close()

	id, path, err := e.document(c.File)
	if err != nil {
		return err
	}
	editor := docmodel.NewFileEditor(path, docmodel.Position{Line: c.Line, Col: c.Col})
	out, err := e.service.Copy(g.Context, id, editor, c.Embed)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(g.Out, out)
	return err
}
