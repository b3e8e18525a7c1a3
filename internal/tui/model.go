package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoapp/internal/app"
	"github.com/idilsaglam/todoapp/internal/inflight"
	"github.com/idilsaglam/todoapp/internal/model"
	"github.com/idilsaglam/todoapp/internal/notify"
)

// stateChangedMsg is sent by the controller observer.
type stateChangedMsg struct{}

// notificationsChangedMsg is sent by the notification channel observer.
type notificationsChangedMsg struct{}

// opDoneMsg is returned by every command that calls the controller.
// id and action are set for per-item requests.
type opDoneMsg struct {
	op     string
	id     string
	action model.Action
	err    error
}

type inputMode int

const (
	modeNone inputMode = iota
	modeAddTitle
	modeAddDescription
	modeEditTitle
	modeEditDescription
)

// Model is the Bubble Tea model of the todo screen. All controller calls
// run inside tea.Cmds, so Update never blocks on the store.
type Model struct {
	ctx   context.Context
	ctrl  *app.Controller
	notes *notify.Channel
	keys  keyMap

	list    list.Model
	spinner spinner.Model
	ti      textinput.Model // shared text input (add & edit)

	mode       inputMode
	draftTitle string // title typed in the first add/edit step
	editID     string
	inputErr   string // last validation error of the input bar

	// pending holds the requests this model started and has not yet seen
	// finish, so a stale snapshot cannot unblock an item early.
	pending *inflight.Tracker

	state   app.State
	notices []notify.Notification

	width, height int
}

func New(ctx context.Context, ctrl *app.Controller, notes *notify.Channel) Model {
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = titleStyle.Render("Todos")
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.full

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = busyStyle

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		notes:   notes,
		keys:    keys,
		list:    l,
		spinner: sp,
		ti:      ti,
		pending: inflight.New(),
		width:   80,
		height:  24,
	}
	// The first fetch is about to start.
	m.state.IsLoading = true
	m.resize()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd())
}

// ---------------------------------------------------
// Commands (each runs on its own goroutine)
// ---------------------------------------------------

func (m Model) refreshCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{op: "refresh", err: ctrl.Refresh(ctx)}
	}
}

func (m Model) createCmd(p model.CreatePayload) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{op: "create", err: ctrl.Create(ctx, p)}
	}
}

func (m Model) updateCmd(id string, action model.Action, p model.UpdatePayload) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{op: "update", id: id, action: action, err: ctrl.ApplyUpdate(ctx, id, action, p)}
	}
}

func (m Model) toggleCmd(id string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{op: "toggle", id: id, action: model.ActionComplete, err: ctrl.ToggleComplete(ctx, id)}
	}
}

func (m Model) removeCmd(id string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{op: "delete", id: id, action: model.ActionDelete, err: ctrl.Remove(ctx, id)}
	}
}

// ---------------------------------------------------
// State sync
// ---------------------------------------------------

// sync pulls a fresh snapshot from the controller and rebuilds the list,
// keeping the selection on the same item when it still exists.
func (m *Model) sync() {
	m.state = m.ctrl.Snapshot()
	m.syncList()
	m.resize()
}

func (m *Model) syncList() {
	selected := m.selectedID()
	blocked := m.state.Blocked()
	for _, r := range m.pending.Records() {
		blocked[r.ItemID] = true
	}

	items := make([]list.Item, 0, len(m.state.Items))
	cursor := -1
	for i, it := range m.state.Items {
		items = append(items, listItem{item: it, busy: blocked[it.ID]})
		if it.ID == selected {
			cursor = i
		}
	}
	m.list.SetItems(items)
	if cursor >= 0 {
		m.list.Select(cursor)
	}

	done, pending := model.Stats(m.state.Items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(m.state.Items),
	)
}

func (m *Model) syncNotices() {
	if m.notes == nil {
		return
	}
	m.notices = m.notes.Visible()
	m.resize()
}

func (m Model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m Model) selectedID() string {
	if it, ok := m.selected(); ok {
		return it.item.ID
	}
	return ""
}

// blocked reports whether id has a request in flight and must ignore input.
func (m Model) blocked(id string) bool {
	return m.pending.IsBlocked(id) || m.state.Blocked()[id]
}

// matches is a small shim so Update reads like a key switch.
func matches(msg tea.KeyMsg, b key.Binding) bool { return key.Matches(msg, b) }
