package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoapp/internal/app"
	"github.com/idilsaglam/todoapp/internal/notify"
)

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, ctrl *app.Controller, notes *notify.Channel, opts ...tea.ProgramOption) error {
	m := New(ctx, ctrl, notes)

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)

	// Observers also fire from Update itself (dismiss, clear error), where a
	// blocking Send would wait on the event loop it is running on.
	ctrl.OnChange(func() { go p.Send(stateChangedMsg{}) })
	if notes != nil {
		notes.OnChange(func() { go p.Send(notificationsChangedMsg{}) })
	}
	defer func() {
		ctrl.OnChange(nil)
		if notes != nil {
			notes.OnChange(nil)
		}
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
