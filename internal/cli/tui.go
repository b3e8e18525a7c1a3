package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/oklog/run"

	"github.com/idilsaglam/todoapp/internal/log"
	"github.com/idilsaglam/todoapp/internal/notify"
	"github.com/idilsaglam/todoapp/internal/tui"
)

// runTUI starts the interactive screen next to an OS signal watcher.
func runTUI(a *App) error {
	logger, err := a.Logger()
	if err != nil {
		return failedErr(err)
	}

	notes := notify.NewChannel(notify.WithDuration(a.cfg.Notify.Duration))
	defer func() {
		logger.Debugf("closing notifications, %d dismissals pending", notes.Pending())
		notes.Close()
	}()

	s, err := NewSession(a.cfg, notes, logger)
	if err != nil {
		return usageErr("%w", err)
	}

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// TUI.
	{
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ctx = logger.SetValuesOnCtx(ctx, log.Kv{"mode": "tui"})

		g.Add(
			func() error {
				logger.Infof("starting tui")
				if err := tui.Run(ctx, s.Controller, notes); err != nil {
					return fmt.Errorf("tui failed: %w", err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	if err := g.Run(); err != nil {
		return failedErr(err)
	}
	return nil
}
