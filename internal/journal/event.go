package journal

import (
	"time"

	"git.home.luguber.info/inful/blockref/internal/reference"
)

// Kind is the action an event records.
type Kind string

const (
	KindCopy  Kind = "copy"
	KindPaste Kind = "paste"
)

// Event is one copy or paste. Destination is only set for pastes.
type Event struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	Kind        Kind      `json:"kind"`
	Document    string    `json:"document"`
	Anchor      string    `json:"anchor"`
	Embed       bool      `json:"embed"`
	Heading     bool      `json:"heading"`
	Destination string    `json:"destination,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Target returns the reference target the event refers to.
func (e Event) Target() reference.Target {
	return reference.Target{
		Document:   e.Document,
		AnchorPath: e.Anchor,
		Embed:      e.Embed,
		Heading:    e.Heading,
	}
}

// CopyEvent builds the event for recording t.
func CopyEvent(t reference.Target) Event {
	return Event{
		Kind:     KindCopy,
		Document: t.Document,
		Anchor:   t.AnchorPath,
		Embed:    t.Embed,
		Heading:  t.Heading,
	}
}

// PasteEvent builds the event for pasting t into destination.
func PasteEvent(t reference.Target, destination string, embed bool) Event {
	return Event{
		Kind:        KindPaste,
		Document:    t.Document,
		Anchor:      t.AnchorPath,
		Embed:       embed,
		Heading:     t.Heading,
		Destination: destination,
	}
}
