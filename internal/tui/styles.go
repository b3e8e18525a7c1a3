package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todoapp/internal/model"
)

// ------- styling (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	busyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	noticeBase = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder(), false, false, false, true)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

func noticeStyle(kind model.NotificationKind) (lipgloss.Style, string) {
	switch kind {
	case model.NotifySuccess:
		return noticeBase.BorderForeground(lipgloss.Color("42")).Foreground(lipgloss.Color("42")), "✔"
	case model.NotifyError:
		return noticeBase.BorderForeground(lipgloss.Color("9")).Foreground(lipgloss.Color("9")), "✖"
	default:
		return noticeBase.BorderForeground(lipgloss.Color("12")).Foreground(lipgloss.Color("12")), "ℹ"
	}
}
