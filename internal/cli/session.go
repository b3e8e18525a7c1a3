package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/idilsaglam/todoapp/internal/app"
	"github.com/idilsaglam/todoapp/internal/config"
	"github.com/idilsaglam/todoapp/internal/log"
	"github.com/idilsaglam/todoapp/internal/model"
	"github.com/idilsaglam/todoapp/internal/notify"
	"github.com/idilsaglam/todoapp/internal/remote"
	"github.com/idilsaglam/todoapp/internal/store/seedfile"
	"github.com/idilsaglam/todoapp/internal/ui"
)

const notifyDefault = notify.DefaultDuration

// Session is one running client: the simulated backend plus the
// controller talking to it.
type Session struct {
	Store      *remote.MemStore
	Controller *app.Controller
	Logger     log.Logger
}

// StoreOptions translates configuration into MemStore options.
func StoreOptions(cfg config.StoreConfig, logger log.Logger) ([]remote.Option, error) {
	seed := cfg.FaultSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	opts := []remote.Option{
		remote.WithLogger(logger),
		remote.WithFaults(remote.RandomFaults(cfg.FailureRate, seed)),
	}

	switch cfg.Latency {
	case "none":
		opts = append(opts, remote.WithLatency(remote.NoLatency))
	case "random":
		opts = append(opts, remote.WithLatency(remote.RandomLatency(remote.DefaultSpans, cfg.LatencyScale, seed)))
	default:
		return nil, fmt.Errorf("unknown latency strategy %q", cfg.Latency)
	}

	switch cfg.IDs {
	case "ulid":
		opts = append(opts, remote.WithIDs(remote.ULIDs{}))
	case "sequential", "":
		opts = append(opts, remote.WithIDs(&remote.SequentialIDs{}))
	default:
		return nil, fmt.Errorf("unknown id scheme %q", cfg.IDs)
	}

	if cfg.SeedFile != "" {
		items, err := seedfile.Load(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("load seed: %w", err)
		}
		opts = append(opts, remote.WithItems(items))
	}
	return opts, nil
}

// NewSession wires a store and controller from configuration.
func NewSession(cfg *config.Config, notifier app.Notifier, logger log.Logger) (*Session, error) {
	opts, err := StoreOptions(cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	store := remote.NewMemStore(opts...)
	return &Session{
		Store:      store,
		Controller: app.New(store, notifier, logger),
		Logger:     logger,
	}, nil
}

// printNotifier shows notifications right away on the terminal.
type printNotifier struct{ next notify.ID }

func (p *printNotifier) Show(kind model.NotificationKind, msg string) notify.ID {
	ui.Notice(kind, msg)
	p.next++
	return p.next
}

// session builds a CLI session and loads the collection.
func (a *App) session(ctx context.Context) (*Session, error) {
	logger, err := a.Logger()
	if err != nil {
		return nil, failedErr(err)
	}
	s, err := NewSession(a.cfg, &printNotifier{}, logger)
	if err != nil {
		return nil, usageErr("%w", err)
	}
	if err := s.Controller.Refresh(ctx); err != nil {
		return nil, failedErr(err)
	}
	return s, nil
}

// opErr converts a controller failure into an exit error. The controller
// already printed the notification.
func opErr(err error) error {
	if err == nil {
		return nil
	}
	code := ExitFailed
	if errors.Is(err, app.ErrInvalidRequest) {
		code = ExitUsage
	}
	return &exitError{code: code, err: err, shown: true}
}
