// Package blockref implements copy and paste of block and heading references.
//
// Copy locates the block under the cursor, resolves (and if needed writes) its
// anchor, records it as the current reference and returns the link text. Paste
// formats the recorded reference relative to the destination document and
// inserts it at the cursor.
package blockref

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/blockref/internal/anchor"
	"git.home.luguber.info/inful/blockref/internal/docmodel"
	"git.home.luguber.info/inful/blockref/internal/journal"
	"git.home.luguber.info/inful/blockref/internal/locate"
	"git.home.luguber.info/inful/blockref/internal/logfields"
	"git.home.luguber.info/inful/blockref/internal/metrics"
	"git.home.luguber.info/inful/blockref/internal/observability"
	"git.home.luguber.info/inful/blockref/internal/outline"
	"git.home.luguber.info/inful/blockref/internal/reference"
	"git.home.luguber.info/inful/blockref/internal/util/sets"
)

// Editor applies insertions to the document being edited.
type Editor interface {
	// Cursor is the caret, or the end of the selection when there is one.
	Cursor() docmodel.Position
	// Insert inserts text at pos as one undoable edit.
	Insert(pos docmodel.Position, text string) error
	// ReplaceSelection replaces the selection (or inserts at the caret).
	ReplaceSelection(text string) error
}

// OutlineProvider returns the current outline of a document.
type OutlineProvider interface {
	Outline(document string) (*outline.Outline, error)
}

// Journal records copy and paste events.
type Journal interface {
	Append(ctx context.Context, e journal.Event) error
}

// Service runs copy and paste against one reference State.
type Service struct {
	outlines        OutlineProvider
	state           *reference.State
	resolver        *anchor.Resolver
	formatter       reference.LinkFormatter
	avoidCollisions bool
	recorder        metrics.Recorder
	journal         Journal
	logger          *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithState shares an existing reference state.
func WithState(st *reference.State) Option { return func(s *Service) { s.state = st } }

// WithResolver replaces the anchor resolver.
func WithResolver(r *anchor.Resolver) Option { return func(s *Service) { s.resolver = r } }

// WithFormatter selects the link dialect.
func WithFormatter(f reference.LinkFormatter) Option { return func(s *Service) { s.formatter = f } }

// WithCollisionAvoidance makes minted ids avoid ids already in the document.
func WithCollisionAvoidance(on bool) Option { return func(s *Service) { s.avoidCollisions = on } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(s *Service) { s.recorder = r } }

// WithJournal records events in j.
func WithJournal(j Journal) Option { return func(s *Service) { s.journal = j } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// NewService returns a service reading outlines from outlines. By default it
// starts with an empty state, writes wikilinks and records no metrics.
func NewService(outlines OutlineProvider, opts ...Option) *Service {
	s := &Service{
		outlines:  outlines,
		state:     reference.NewState(),
		resolver:  anchor.NewResolver(nil),
		formatter: reference.WikiLinkFormatter{},
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the reference state the service records into.
func (s *Service) State() *reference.State {
	return s.state
}

// Copy records a reference to the block under the editor's cursor in
// document and returns its link (or embed) text. A missing anchor id is
// written into the document first; if that write fails the state is left as
// it was. ErrNoTarget is returned when the cursor is not inside a block.
func (s *Service) Copy(ctx context.Context, document string, ed Editor, embed bool) (string, error) {
	start := time.Now()
	ctx = observability.WithDocument(observability.WithOperation(ctx, "copy"), document)
	cursor := ed.Cursor()

	blk, ol, err := s.locate(document, cursor)
	if err != nil {
		return "", err
	}
	if ol == nil {
		s.recorder.IncNotApplicable("copy")
		s.logger.InfoContext(ctx, "Nothing to copy at cursor",
			logfields.Line(cursor.Line), logfields.Column(cursor.Col))
		return "", ErrNoTarget
	}

	var known sets.Set[string]
	if s.avoidCollisions {
		known = ol.IDs()
	}
	res := s.resolver.Resolve(blk, known)

	if res.Splice != nil {
		if err := ed.Insert(res.Splice.At, res.Splice.Text); err != nil {
			s.logger.WarnContext(ctx, "Failed to write block id",
				logfields.Anchor(res.Path), logfields.Error(err))
			return "", err
		}
		s.recorder.IncMintedID()
	}

	target := reference.Target{
		Document:   document,
		AnchorPath: res.Path,
		Embed:      embed,
		Heading:    res.Heading,
	}
	s.state.Record(target)
	s.appendEvent(ctx, journal.CopyEvent(target))

	out := reference.Format(target, "", embed, s.formatter)
	s.recorder.IncCopy(targetLabel(res.Heading), metrics.FlavorOf(embed))
	s.recorder.ObserveOperationDuration("copy", time.Since(start))
	s.logger.DebugContext(ctx, "Copied reference",
		logfields.Anchor(res.Path),
		logfields.BlockKind(blk.Kind.String()),
		logfields.Flavor(string(metrics.FlavorOf(embed))),
		slog.Bool("minted", res.MintedID != ""))
	return out, nil
}

// Paste inserts the recorded reference at the editor's selection in
// destination and returns the inserted text. ErrNoReference is returned,
// with nothing inserted, when nothing has been copied.
func (s *Service) Paste(ctx context.Context, destination string, ed Editor, embed bool) (string, error) {
	start := time.Now()
	ctx = observability.WithDocument(observability.WithOperation(ctx, "paste"), destination)
	target, ok := s.state.Current()
	if !ok {
		s.recorder.IncNotApplicable("paste")
		s.logger.InfoContext(ctx, "Nothing to paste")
		return "", ErrNoReference
	}

	out := reference.Format(target, destination, embed, s.formatter)
	if err := ed.ReplaceSelection(out); err != nil {
		return "", err
	}
	s.appendEvent(ctx, journal.PasteEvent(target, destination, embed))

	s.recorder.IncPaste(metrics.FlavorOf(embed))
	s.recorder.ObserveOperationDuration("paste", time.Since(start))
	s.logger.DebugContext(ctx, "Pasted reference",
		logfields.Anchor(target.AnchorPath),
		logfields.Flavor(string(metrics.FlavorOf(embed))))
	return out, nil
}

// Preview returns the text Paste would insert into destination without
// touching any document.
func (s *Service) Preview(destination string, embed bool) (string, error) {
	target, ok := s.state.Current()
	if !ok {
		return "", ErrNoReference
	}
	return reference.Format(target, destination, embed, s.formatter), nil
}

// CanCopy reports whether Copy would find a target at cursor.
func (s *Service) CanCopy(document string, cursor docmodel.Position) bool {
	_, ol, err := s.locate(document, cursor)
	return err == nil && ol != nil
}

// CanPaste reports whether a reference has been recorded.
func (s *Service) CanPaste() bool {
	_, ok := s.state.Current()
	return ok
}

// locate returns the block at cursor and the outline it came from. A nil
// outline with a nil error means there is no block at cursor.
func (s *Service) locate(document string, cursor docmodel.Position) (locate.Block, *outline.Outline, error) {
	ol, err := s.outlines.Outline(document)
	if err != nil {
		return locate.Block{}, nil, err
	}
	if ol.InFrontmatter(cursor.Line) {
		return locate.Block{}, nil, nil
	}
	blk, ok := locate.Locate(ol, cursor.Line)
	if !ok {
		return locate.Block{}, nil, nil
	}
	return blk, ol, nil
}

func (s *Service) appendEvent(ctx context.Context, e journal.Event) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "Failed to journal reference event",
			slog.String("kind", string(e.Kind)), logfields.Error(err))
	}
}

func targetLabel(heading bool) string {
	if heading {
		return "heading"
	}
	return "block"
}
