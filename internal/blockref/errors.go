package blockref

import "git.home.luguber.info/inful/blockref/internal/foundation/errors"

var (
	// ErrNoTarget means the cursor is not inside any block or heading.
	ErrNoTarget = errors.NotApplicable("no block or heading at cursor").Build()

	// ErrNoReference means a paste was requested before anything was copied.
	ErrNoReference = errors.NotApplicable("nothing has been copied yet").Build()
)
