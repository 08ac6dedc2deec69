// Package vault maps note files to vault-relative document ids and serves
// their outlines.
package vault

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
)

// Vault is a directory tree of notes. Document ids are slash-separated paths
// relative to its root.
type Vault struct {
	root string
}

// Open returns the vault rooted at root, which must be an existing directory.
func Open(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve vault root").
			WithContext("path", root).
			Build()
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewError(errors.CategoryNotFound, "vault root does not exist").
				WithContext("path", abs).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat vault root").
			WithContext("path", abs).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ValidationError("vault root is not a directory").
			WithContext("path", abs).
			Build()
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault root.
func (v *Vault) Root() string {
	return v.root
}

// DocumentID converts a filesystem path (absolute or relative to the working
// directory) into a document id. Paths outside the vault are rejected.
func (v *Vault) DocumentID(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve document path").
			WithContext("path", file).
			Build()
	}
	rel, err := filepath.Rel(v.root, abs)
	if err != nil || escapes(filepath.ToSlash(rel)) {
		return "", errors.ValidationError("document is outside the vault").
			WithContext("path", file).
			WithContext("vault", v.root).
			Build()
	}
	return filepath.ToSlash(rel), nil
}

// Path converts a document id into an absolute filesystem path.
func (v *Vault) Path(id string) (string, error) {
	clean := path.Clean(id)
	if id == "" || path.IsAbs(clean) || escapes(clean) {
		return "", errors.ValidationError("invalid document id").
			WithContext("document", id).
			Build()
	}
	return filepath.Join(v.root, filepath.FromSlash(clean)), nil
}

func escapes(rel string) bool {
	return rel == "." || rel == ".." || strings.HasPrefix(rel, "../")
}

// IsNote reports whether name looks like a Markdown note.
func IsNote(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}
