package commands

import (
	"context"
	stderrors "errors"
	"log/slog"

	"git.home.luguber.info/inful/blockref/internal/blockref"
	"git.home.luguber.info/inful/blockref/internal/config"
	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/journal"
	"git.home.luguber.info/inful/blockref/internal/logfields"
	"git.home.luguber.info/inful/blockref/internal/metrics"
	"git.home.luguber.info/inful/blockref/internal/outline"
	"git.home.luguber.info/inful/blockref/internal/reference"
	"git.home.luguber.info/inful/blockref/internal/vault"
)

// env is everything a command needs, built from configuration.
type env struct {
	cfg      *config.Config
	vault    *vault.Vault
	outlines *vault.Provider
	journal  *journal.Store
	recorder *metrics.PrometheusRecorder
	service  *blockref.Service
}

type openOptions struct {
	// journal opens the reference journal unless it is disabled.
	journal bool
	// hydrate seeds the reference state from the journal's latest copy.
	hydrate bool
}

func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.Config
	if path == "" {
		root := c.Vault
		if root == "" {
			root = "."
		}
		path = config.Discover(root)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if c.Vault != "" {
		cfg.Vault = c.Vault
	}
	setupLogging(cfg.Logging, c.Verbose)
	return cfg, nil
}

func (c *CLI) open(ctx context.Context, o openOptions) (*env, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	v, err := vault.Open(cfg.Vault)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:      cfg,
		vault:    v,
		outlines: vault.NewProvider(v, outline.Options{}),
	}
	state := reference.NewState()
	opts := []blockref.Option{
		blockref.WithState(state),
		blockref.WithFormatter(reference.FormatterFor(cfg.Link.Style)),
		blockref.WithCollisionAvoidance(cfg.IDs.AvoidCollisions),
	}

	if cfg.Metrics.Textfile != "" {
		e.recorder = metrics.NewPrometheusRecorder(nil)
		opts = append(opts, blockref.WithRecorder(e.recorder))
	}

	if o.journal && !cfg.Journal.Disabled {
		j, err := journal.Open(cfg.JournalPath(), journal.WithRetryPolicy(cfg.RetryPolicy()))
		if err != nil {
			return nil, err
		}
		e.journal = j
		opts = append(opts, blockref.WithJournal(j))

		if o.hydrate {
			target, ok, err := j.Latest(ctx)
			if err != nil {
				_ = j.Close()
				return nil, err
			}
			if ok {
				state.Record(target)
			}
		}
		slog.Debug("Opened reference journal", logfields.Path(cfg.JournalPath()), logfields.SessionID(j.SessionID()))
	}

	e.service = blockref.NewService(e.outlines, opts...)
	return e, nil
}

// document maps a file argument to its document id and absolute path.
func (e *env) document(file string) (string, string, error) {
	id, err := e.vault.DocumentID(file)
	if err != nil {
		return "", "", err
	}
	path, err := e.vault.Path(id)
	if err != nil {
		return "", "", err
	}
	return id, path, nil
}

// close flushes metrics and closes the journal.
func (e *env) close() {
	var errs []error
	if e.recorder != nil {
		if err := e.recorder.WriteTextfile(e.cfg.Metrics.Textfile); err != nil {
			errs = append(errs, errors.WrapError(err, errors.CategoryFileSystem, "failed to write metrics textfile").
				WithContext("path", e.cfg.Metrics.Textfile).
				Build())
		}
	}
	if e.journal != nil {
		errs = append(errs, e.journal.Close())
	}
	if err := stderrors.Join(errs...); err != nil {
		slog.Warn("Failed to close resources", logfields.Error(err))
	}
}
