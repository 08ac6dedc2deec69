package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDocument  = "document"
	KeyAnchor    = "anchor"
	KeyBlockKind = "block_kind"
	KeyLine      = "line"
	KeyColumn    = "column"
	KeyFlavor    = "flavor"
	KeySessionID = "session_id"
	KeyPath      = "path"
	KeyError     = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Document(id string) slog.Attr   { return slog.String(KeyDocument, id) }
func Anchor(path string) slog.Attr   { return slog.String(KeyAnchor, path) }
func BlockKind(k string) slog.Attr   { return slog.String(KeyBlockKind, k) }
func Line(n int) slog.Attr           { return slog.Int(KeyLine, n) }
func Column(n int) slog.Attr         { return slog.Int(KeyColumn, n) }
func Flavor(f string) slog.Attr      { return slog.String(KeyFlavor, f) }
func SessionID(id string) slog.Attr  { return slog.String(KeySessionID, id) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
