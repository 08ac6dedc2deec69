package journal

import (
	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
)

var (
	// ErrOpenFailed indicates the journal database could not be opened.
	ErrOpenFailed = errors.JournalError("could not open reference journal").Build()

	// ErrInitializeSchemaFailed indicates the journal schema could not be created.
	ErrInitializeSchemaFailed = errors.JournalError("failed to initialize journal schema").Build()

	// ErrAppendFailed indicates an event could not be written.
	ErrAppendFailed = errors.JournalError("failed to append journal event").Build()

	// ErrQueryFailed indicates reading events failed.
	ErrQueryFailed = errors.JournalError("failed to query journal events").Build()
)
