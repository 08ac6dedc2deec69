package blockref

import (
	"git.home.luguber.info/inful/blockref/internal/docmodel"
	"git.home.luguber.info/inful/blockref/internal/locate"
)

// Operation is what an Action runs.
type Operation string

const (
	OperationCopy  Operation = "copy"
	OperationPaste Operation = "paste"
)

// Action is one editor menu entry.
type Action struct {
	Command   string    `json:"command"`
	Title     string    `json:"title"`
	Operation Operation `json:"operation"`
	Embed     bool      `json:"embed"`
}

// Command ids of the four editor commands.
const (
	CommandPasteLink  = "paste-link-to-block"
	CommandPasteEmbed = "paste-embed-to-block"
	CommandCopyLink   = "copy-link-to-block"
	CommandCopyEmbed  = "copy-embed-to-block"
)

// Actions lists the menu entries available at cursor in document. Paste
// entries come first and exist only once something was copied; their titles
// follow whether the recorded target is a heading. Copy entries exist only
// when a block is under the cursor.
func (s *Service) Actions(document string, cursor docmodel.Position) ([]Action, error) {
	var actions []Action

	if target, ok := s.state.Current(); ok {
		link, embed := "Paste link to block", "Paste block embed"
		if target.Heading {
			link, embed = "Paste link to heading", "Paste heading embed"
		}
		actions = append(actions,
			Action{Command: CommandPasteLink, Title: link, Operation: OperationPaste},
			Action{Command: CommandPasteEmbed, Title: embed, Operation: OperationPaste, Embed: true},
		)
	}

	blk, ol, err := s.locate(document, cursor)
	if err != nil {
		return nil, err
	}
	if ol == nil {
		return actions, nil
	}

	link, embed := "Copy link to block", "Copy block embed"
	if blk.Kind == locate.KindHeading {
		link, embed = "Copy link to heading", "Copy heading embed"
	}
	return append(actions,
		Action{Command: CommandCopyLink, Title: link, Operation: OperationCopy},
		Action{Command: CommandCopyEmbed, Title: embed, Operation: OperationCopy, Embed: true},
	), nil
}
