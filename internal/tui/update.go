package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoapp/internal/model"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case stateChangedMsg:
		m.sync()
		return m, nil

	case notificationsChangedMsg:
		m.syncNotices()
		return m, nil

	case opDoneMsg:
		// Failures already reached the user through the notification
		// channel and the error banner; only resync here.
		if msg.action != "" {
			m.pending.End(msg.id, msg.action)
		}
		m.sync()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.list.SetDelegate(itemDelegate{frame: m.spinner.View()})
		return m, cmd

	case tea.KeyMsg:
		if m.mode != modeNone {
			return m.updateInput(msg)
		}
		if m.list.FilterState() != list.Filtering {
			if next, cmd, handled := m.updateKeys(msg); handled {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateKeys handles the action keys of the list screen. handled is false
// for keys that belong to the list (navigation, filtering).
func (m Model) updateKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case msg.String() == "esc" && m.list.FilterState() == list.FilterApplied:
		return m, nil, false

	case matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case matches(msg, m.keys.Refresh):
		if m.state.IsLoading {
			return m, nil, true
		}
		m.state.IsLoading = true
		m.state.Error = ""
		return m, m.refreshCmd(), true

	case matches(msg, m.keys.Dismiss):
		if m.notes != nil && m.notes.DismissLatest() {
			m.syncNotices()
			return m, nil, true
		}
		if m.state.HasError() {
			m.ctrl.ClearError()
			m.sync()
		}
		return m, nil, true

	case matches(msg, m.keys.Add):
		if m.state.IsCreating {
			return m, nil, true
		}
		m.startInput(modeAddTitle, "", "New item title...")
		return m, nil, true
	}

	it, ok := m.selected()
	if !ok {
		return m, nil, false
	}
	id := it.item.ID

	switch {
	case matches(msg, m.keys.Edit):
		if m.blocked(id) {
			return m, nil, true
		}
		m.editID = id
		m.startInput(modeEditTitle, it.item.Title, "Edit item title...")
		return m, nil, true

	case matches(msg, m.keys.Toggle):
		if m.blocked(id) {
			return m, nil, true
		}
		m.markBusy(id, model.ActionComplete)
		return m, m.toggleCmd(id), true

	case matches(msg, m.keys.Delete):
		if m.blocked(id) {
			return m, nil, true
		}
		m.markBusy(id, model.ActionDelete)
		return m, m.removeCmd(id), true
	}
	return m, nil, false
}

// updateInput drives the add/edit input bar.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopInput()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.ti.Value())
		switch m.mode {
		case modeAddTitle:
			if value == "" {
				m.inputErr = "Title cannot be empty"
				return m, nil
			}
			m.draftTitle = value
			m.startInput(modeAddDescription, "", "Description (optional)...")
			return m, nil

		case modeAddDescription:
			p := model.CreatePayload{Title: m.draftTitle, Description: value}
			m.stopInput()
			m.state.IsCreating = true
			return m, m.createCmd(p)

		case modeEditTitle:
			if value == "" {
				m.inputErr = "Title cannot be empty"
				return m, nil
			}
			m.draftTitle = value
			m.startInput(modeEditDescription, m.descriptionOf(m.editID), "Description (optional)...")
			return m, nil

		case modeEditDescription:
			id := m.editID
			p := model.UpdatePayload{Title: model.Ptr(m.draftTitle), Description: model.Ptr(value)}
			m.stopInput()
			if m.blocked(id) {
				return m, nil
			}
			m.markBusy(id, model.ActionUpdate)
			return m, m.updateCmd(id, model.ActionUpdate, p)
		}
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) startInput(mode inputMode, value, placeholder string) {
	m.mode = mode
	m.inputErr = ""
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.ti.Focus()
	m.resize()
}

func (m *Model) stopInput() {
	m.mode = modeNone
	m.inputErr = ""
	m.draftTitle = ""
	m.editID = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

// markBusy blocks id until the opDoneMsg of this request arrives, whatever
// snapshots show in between.
func (m *Model) markBusy(id string, action model.Action) {
	m.pending.Begin(id, action)
	m.syncList()
}

func (m Model) descriptionOf(id string) string {
	if i := model.IndexOf(m.state.Items, id); i >= 0 {
		return m.state.Items[i].Description
	}
	return ""
}

// resize gives the list whatever the panel, input bar and notices leave.
func (m *Model) resize() {
	h := m.height - 4
	if m.mode != modeNone {
		h -= 3
	}
	if m.state.HasError() {
		h -= 2
	}
	h -= len(m.notices)
	if h < 3 {
		h = 3
	}
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.list.SetSize(w, h)
}
