package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tech-hub161/samity/internal/audit"
	"github.com/tech-hub161/samity/internal/config"
	"github.com/tech-hub161/samity/internal/gitops"
	"github.com/tech-hub161/samity/internal/ledger"
	"github.com/tech-hub161/samity/internal/logging"
	"github.com/tech-hub161/samity/internal/report"
	"github.com/tech-hub161/samity/internal/store"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	dir     string
	verbose bool
}

// App wires the config, store and engines for one command invocation.
type App struct {
	Dir     string
	Config  *config.Config
	Log     zerolog.Logger
	Store   *store.Store
	Ledger  *ledger.Service
	Reports *report.Engine

	closer io.Closer
}

// openApp loads the data directory's config (defaults when absent) and opens
// the configured backend.
func openApp(opts *rootOptions) (*App, error) {
	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving data dir: %w", err)
	}

	log := logging.New(opts.verbose)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default("")
		cfg.ApplyEnv()
	}

	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}

	path := cfg.Storage.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	var kv store.KV
	var closer io.Closer
	switch cfg.Storage.Backend {
	case "", "file":
		kv, err = store.OpenFile(path, log)
		if err != nil {
			return nil, err
		}
	case "sqlite":
		skv, err := store.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		kv, closer = skv, skv
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	st := store.New(kv, cfg.Ledger.Namespace, log)
	return &App{
		Dir:     dir,
		Config:  cfg,
		Log:     log,
		Store:   st,
		Ledger:  ledger.NewService(st, rules, log),
		Reports: report.NewEngine(st, log),
		closer:  closer,
	}, nil
}

// Close releases the backend, if it holds resources.
func (a *App) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// recordMutation commits the data dir (when auto-commit is on) and appends
// an audit row. Neither failure blocks the ledger operation that already
// succeeded; both are logged instead.
func (a *App) recordMutation(action, date, details string) {
	hash := ""
	if a.Config.Git.AutoCommit && gitops.IsRepo(a.Dir) {
		msg := action
		if date != "" {
			msg = action + " " + date
		}
		h, err := gitops.CommitAll(a.Dir, msg, a.Config.Git.AuthorName, a.Config.Git.AuthorEmail)
		if err != nil {
			a.Log.Warn().Err(err).Msg("auto-commit failed")
		} else {
			hash = h
		}
	}

	entry := audit.Entry{
		Timestamp:  time.Now(),
		Action:     action,
		Date:       date,
		Details:    details,
		CommitHash: hash,
	}
	if err := audit.Append(a.Dir, []audit.Entry{entry}); err != nil {
		a.Log.Warn().Err(err).Msg("writing audit log failed")
	}
}
