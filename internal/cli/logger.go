package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todoapp/internal/config"
	"github.com/idilsaglam/todoapp/internal/log"
	loglogrus "github.com/idilsaglam/todoapp/internal/log/logrus"
)

// Version is set at build time.
var Version = "dev"

// tuiMode sends logs away from the terminal the TUI is drawing on.
func (a *App) tuiMode() { a.tui = true }

// Logger returns the invocation logger, creating it on first use.
func (a *App) Logger() (log.Logger, error) {
	if a.logger != nil {
		return a.logger, nil
	}
	l, closer, err := newLogger(a.cfg.Log, a.Stderr, a.tui, a.cfg.UI.NoColor)
	if err != nil {
		return nil, err
	}
	a.logger, a.closer = l, closer
	return l, nil
}

func newLogger(cfg config.LogConfig, stderr io.Writer, tui, noColor bool) (log.Logger, io.Closer, error) {
	var out io.Writer = stderr
	var closer io.Closer
	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
		noColor = true
	case tui:
		return log.Noop, nil, nil
	}

	logrusLog := logrus.New()
	logrusLog.Out = out
	logrusLogEntry := logrus.NewEntry(logrusLog)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	logrusLogEntry.Logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: noColor,
		})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})
	logger.Debugf("Debug level is enabled")
	return logger, closer, nil
}
