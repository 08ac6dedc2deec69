package docmodel

import (
	"os"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
)

// FileEditor applies single insertions to a Markdown file on disk.
//
// Each insertion re-reads the file, so positions are interpreted against the
// current content. The file is replaced atomically: either the whole edit
// lands or the file is left untouched.
type FileEditor struct {
	path   string
	cursor Position
}

// NewFileEditor returns an editor for path with the caret at cursor.
func NewFileEditor(path string, cursor Position) *FileEditor {
	return &FileEditor{path: path, cursor: cursor}
}

// Path returns the file being edited.
func (e *FileEditor) Path() string {
	return e.path
}

// Cursor returns the caret position (the end of the selection, if any).
func (e *FileEditor) Cursor() Position {
	return e.cursor
}

// Insert inserts text at pos as one write.
func (e *FileEditor) Insert(pos Position, text string) error {
	doc, err := ParseFile(e.path, Options{Lenient: true})
	if err != nil {
		return err
	}

	out, err := doc.InsertAt(pos, text)
	if err != nil {
		return err
	}

	return writeFileAtomic(e.path, out)
}

// ReplaceSelection inserts text at the caret. The CLI has no selection range,
// so nothing is replaced.
func (e *FileEditor) ReplaceSelection(text string) error {
	return e.Insert(e.cursor, text)
}

func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tempPath := path + ".blockref.tmp"
	if err := os.WriteFile(tempPath, data, mode); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write temporary file").
			WithContext("path", tempPath).
			Build()
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to replace document").
			WithContext("path", path).
			Build()
	}
	return nil
}
