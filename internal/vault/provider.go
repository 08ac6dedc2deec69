package vault

import (
	"os"
	"sync"
	"time"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/outline"
)

// Provider builds and caches outlines for vault documents. A cached outline
// is reused while the file's modification time and size are unchanged.
type Provider struct {
	vault *Vault
	opts  outline.Options

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	outline *outline.Outline
}

// NewProvider returns an empty outline cache over v.
func NewProvider(v *Vault, opts outline.Options) *Provider {
	return &Provider{vault: v, opts: opts, cache: make(map[string]cacheEntry)}
}

// Vault returns the vault the provider reads from.
func (p *Provider) Vault() *Vault {
	return p.vault
}

// Outline returns the current outline of document id.
func (p *Provider) Outline(id string) (*outline.Outline, error) {
	file, err := p.vault.Path(id)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewError(errors.CategoryNotFound, "document not found").
				WithContext("document", id).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat document").
			WithContext("document", id).
			Build()
	}

	p.mu.Lock()
	entry, ok := p.cache[id]
	p.mu.Unlock()
	if ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.outline, nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("document", id).
			Build()
	}
	ol, err := outline.Build(content, p.opts)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[id] = cacheEntry{modTime: info.ModTime(), size: info.Size(), outline: ol}
	p.mu.Unlock()
	return ol, nil
}

// Invalidate drops the cached outline of id.
func (p *Provider) Invalidate(id string) {
	p.mu.Lock()
	delete(p.cache, id)
	p.mu.Unlock()
}

// Cached reports whether an outline for id is currently cached.
func (p *Provider) Cached(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.cache[id]
	return ok
}
