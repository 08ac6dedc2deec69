package vault

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/logfields"
	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates a Provider's cache as notes change on disk.
type Watcher struct {
	provider *Provider
	watcher  *fsnotify.Watcher
	wg       sync.WaitGroup
	once     sync.Once
}

// Watch starts watching every non-hidden directory of the vault. The watcher
// runs until ctx is done or Close is called.
func (p *Provider) Watch(ctx context.Context) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}

	w := &Watcher{provider: p, watcher: fw}
	if err := w.addTree(p.vault.root); err != nil {
		_ = fw.Close()
		return nil, err
	}

	slog.Debug("Watching vault", logfields.Path(p.vault.root))
	w.wg.Add(1)
	go w.loop(ctx)
	return w, nil
}

// Close stops the watcher and waits for its loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", p).
				Build()
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			_ = w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Vault watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) && !strings.HasPrefix(filepath.Base(event.Name), ".") {
		_ = w.addTree(event.Name) // no-op for files
	}
	if !IsNote(event.Name) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	id, err := w.provider.vault.DocumentID(event.Name)
	if err != nil {
		return
	}
	w.provider.Invalidate(id)
	slog.Debug("Invalidated outline", logfields.Document(id), slog.String("op", event.Op.String()))
}
