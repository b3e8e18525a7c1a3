package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var inputBarStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)

func (m Model) View() string {
	var sections []string

	if m.state.IsLoading && len(m.state.Items) == 0 {
		sections = append(sections, m.spinner.View()+" "+mutedStyle.Render("Loading todos..."))
	} else {
		sections = append(sections, m.list.View())
	}

	if m.state.HasError() {
		sections = append(sections, m.errorView())
	}
	if m.mode != modeNone {
		sections = append(sections, m.inputView())
	}
	if len(m.notices) > 0 {
		sections = append(sections, m.noticesView())
	}
	return panelStyle.Render(strings.Join(sections, "\n"))
}

func (m Model) errorView() string {
	hint := helpStyle.Render("r to retry · x to dismiss")
	return errorStyle.Render("✖ "+m.state.Error) + "  " + hint
}

func (m Model) inputView() string {
	var title string
	switch m.mode {
	case modeAddTitle:
		title = "Add new item"
	case modeAddDescription:
		title = "Add new item: " + accentStyle.Render(m.draftTitle)
	case modeEditTitle:
		title = "Edit item"
	case modeEditDescription:
		title = "Edit item: " + accentStyle.Render(m.draftTitle)
	}
	if m.inputErr != "" {
		title += " · " + errorStyle.Render(m.inputErr)
	}
	return inputBarStyle.Render(title + "\n" + m.ti.View())
}

func (m Model) noticesView() string {
	lines := make([]string, 0, len(m.notices))
	for _, n := range m.notices {
		style, sym := noticeStyle(n.Kind)
		lines = append(lines, style.Render(sym+" "+n.Message))
	}
	return strings.Join(lines, "\n")
}
