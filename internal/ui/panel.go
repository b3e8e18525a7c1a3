package ui

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// visibleWidth counts the runes a terminal shows for s.
func visibleWidth(s string) int { return utf8.RuneCountInString(stripANSI(s)) }

// ProgressBar renders done/total as a bar of width cells plus a percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if done < 0 {
		done = 0
	}
	if width < 5 {
		width = 5
	}
	filled := min(done*width/total, width)
	pct := min(done*100/total, 100)
	return fmt.Sprintf("%s%s %3d%%", strings.Repeat("█", filled), strings.Repeat("░", width-filled), pct)
}

// Box frames lines with the borders of the current theme.
func Box(lines []string) string {
	t := current
	inner := 0
	for _, ln := range lines {
		inner = max(inner, visibleWidth(ln))
	}

	var b strings.Builder
	edge := strings.Repeat(t.H, inner+2)
	b.WriteString(t.CornerTL + edge + t.CornerTR + "\n")
	for _, ln := range lines {
		fill := strings.Repeat(" ", inner-visibleWidth(ln))
		b.WriteString(t.V + " " + ln + fill + " " + t.V + "\n")
	}
	b.WriteString(t.CornerBL + edge + t.CornerBR + "\n")
	return b.String()
}

// Panel prints Box(lines) to the configured output.
func Panel(lines []string) { fmt.Fprint(stdout, Box(lines)) }
