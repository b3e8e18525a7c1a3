package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoapp/internal/app"
	"github.com/idilsaglam/todoapp/internal/notify"
	"github.com/idilsaglam/todoapp/internal/remote"
)

// runKeys runs the full program with keys typed one at a time and returns
// once it exits, failing the test if it does not quit on its own.
func runKeys(t *testing.T, ctrl *app.Controller, notes *notify.Channel, keys ...string) {
	t.Helper()
	in, typed := io.Pipe()
	t.Cleanup(func() { _ = typed.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, ctrl, notes, tea.WithInput(in), tea.WithOutput(io.Discard))
	}()

	for _, k := range keys {
		time.Sleep(100 * time.Millisecond)
		_, err := typed.Write([]byte(k))
		require.NoError(t, err)
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatalf("program did not quit after %q", keys)
	}
	assert.NoError(t, ctx.Err())
}

func TestRunQuits(t *testing.T) {
	notes := notify.NewChannel(notify.WithDuration(0))
	t.Cleanup(notes.Close)
	ctrl := app.New(remote.NewMemStore(), notes, nil)

	runKeys(t, ctrl, notes, "q")
}

func TestRunDismissesErrorBannerAndQuits(t *testing.T) {
	notes := notify.NewChannel(notify.WithDuration(0))
	t.Cleanup(notes.Close)
	faults := remote.NewScriptedFaults().Push(remote.OpList, true)
	ctrl := app.New(remote.NewMemStore(remote.WithFaults(faults)), notes, nil)

	runKeys(t, ctrl, notes, "x", "q")

	assert.False(t, ctrl.Snapshot().HasError())
}

func TestRunDismissesNotificationAndQuits(t *testing.T) {
	notes := notify.NewChannel(notify.WithDuration(0))
	t.Cleanup(notes.Close)
	notes.Info("hello")
	ctrl := app.New(remote.NewMemStore(), notes, nil)

	runKeys(t, ctrl, notes, "x", "q")

	assert.Empty(t, notes.Visible())
}

func TestRunStopsWithContext(t *testing.T) {
	notes := notify.NewChannel(notify.WithDuration(0))
	t.Cleanup(notes.Close)
	ctrl := app.New(remote.NewMemStore(), notes, nil)
	in, typed := io.Pipe()
	t.Cleanup(func() { _ = typed.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := Run(ctx, ctrl, notes, tea.WithInput(in), tea.WithOutput(io.Discard))
	assert.NoError(t, err)
}
