package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/idilsaglam/todoapp/internal/model"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"
)

var (
	forceColor   bool
	disableColor bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// SetOutput redirects everything the package prints. Nil keeps the current writer.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

func isTTY() bool {
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func C(color, s string) string {
	if disableColor || current.Plain || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

func OK(msg string)   { fmt.Fprintln(stdout, C(current.Success, current.SymOK+" "+msg)) }
func Info(msg string) { fmt.Fprintln(stdout, C(current.Accent, current.SymInfo+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(stderr, C(current.Error, current.SymFail+" "+msg)) }

// Notice prints a notification with the helper matching its kind.
func Notice(kind model.NotificationKind, msg string) {
	switch kind {
	case model.NotifySuccess:
		OK(msg)
	case model.NotifyError:
		Fail(msg)
	default:
		Info(msg)
	}
}

// Dim renders s faint, used for secondary columns like indexes and ids.
func Dim(s string) string { return C(dim, s) }
