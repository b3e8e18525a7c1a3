package ui

import (
	"sort"
	"strings"
)

// Theme bundles palette, symbols and box borders. Plain themes never emit
// escape codes, whatever the terminal supports.
type Theme struct {
	Plain bool

	Title, Muted, Accent, Success, Error, Pending string

	BoxUnchecked, BoxChecked               string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string

	SymDone, SymUnchecked string
	// Notification symbols.
	SymOK, SymFail, SymInfo string
}

var themes = map[string]Theme{
	"classic": {
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		BoxUnchecked: "☐", BoxChecked: "☑",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymDone: "✔", SymUnchecked: "•",
		SymOK: "✔", SymFail: "✖", SymInfo: "ℹ",
	},
	"neon": {
		Title: "\033[95m", Muted: fgGray, Accent: "\033[96m",
		Success: fgGreen, Error: fgRed, Pending: "\033[93m",
		BoxUnchecked: "◻", BoxChecked: "◼",
		CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
		H: "─", V: "│",
		SymDone: "✔", SymUnchecked: "•",
		SymOK: "✔", SymFail: "✖", SymInfo: "ℹ",
	},
	"mono": {
		Plain:        true,
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
		H: "-", V: "|",
		SymDone: "x", SymUnchecked: "-",
		SymOK: "ok", SymFail: "error", SymInfo: "info",
	},
}

var current = themes["classic"]

// SetTheme switches the active theme. Unknown names select classic and
// report false.
func SetTheme(name string) bool {
	t, ok := themes[strings.ToLower(name)]
	if !ok {
		t = themes["classic"]
	}
	current = t
	return ok
}

// ThemeNames lists the themes SetTheme accepts.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func Current() Theme { return current }
