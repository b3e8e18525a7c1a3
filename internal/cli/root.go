package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idilsaglam/todoapp/internal/config"
	"github.com/idilsaglam/todoapp/internal/log"
	"github.com/idilsaglam/todoapp/internal/ui"
)

// Exit codes: 0 ok, 1 an operation failed, 2 usage.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// App is shared by every command of a single invocation.
type App struct {
	ConfigFile string
	Stdout     io.Writer
	Stderr     io.Writer

	v      *viper.Viper
	cfg    *config.Config
	logger log.Logger
	closer io.Closer
	tui    bool

	// runTUI is swapped in tests.
	runTUI func(*App) error
}

type exitError struct {
	code int
	err  error
	// shown is set when the failure already reached the user as a notification.
	shown bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErr(format string, args ...any) error {
	return &exitError{code: ExitUsage, err: fmt.Errorf(format, args...)}
}

func failedErr(err error) error {
	return &exitError{code: ExitFailed, err: err}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Anything cobra rejected (unknown command, bad flags) is a usage error.
	return ExitUsage
}

func NewRootCmd(stdout, stderr io.Writer) (*cobra.Command, *App) {
	app := &App{Stdout: stdout, Stderr: stderr, v: viper.New(), runTUI: runTUI}

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "todo - a small todo client over a flaky simulated backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Scriptable commands (each runs against a fresh in-memory session)
  todo ls --group
  todo add "Buy milk" -d "2 litres"
  todo done 2
  todo rm 3

  # Deterministic runs
  todo ls --failure-rate 0 --latency none
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.tuiMode()
			return app.runTUI(app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.v, app.ConfigFile)
		if err != nil {
			return usageErr("%w", err)
		}
		app.cfg = cfg
		ui.SetOutput(app.Stdout, app.Stderr)
		ui.SetTheme(cfg.UI.Theme)
		if cfg.UI.NoColor {
			ui.SetColorForcing(false, true)
		}
		return nil
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.ConfigFile, "config", "", "config file (yaml, json or toml)")
	flags.String("seed-file", "", "JSON or YAML file with the items the store starts with")
	flags.Float64("failure-rate", 0.1, "probability of a simulated failure per request (0..1)")
	flags.Uint64("fault-seed", 0, "seed for failures and latency (0 picks one from the clock)")
	flags.String("latency", "random", "latency strategy: none|random")
	flags.Float64("latency-scale", 1, "multiplier applied to simulated latency")
	flags.String("ids", "sequential", "id scheme for new items: sequential|ulid")
	flags.Duration("notify-duration", notifyDefault, "how long notifications stay visible (0 = until dismissed)")
	flags.String("log-level", "info", "log level: debug|info|warn|error")
	flags.String("log-format", "text", "log format: text|json")
	flags.String("log-file", "", "write logs to this file")
	flags.String("theme", "classic", "output theme: classic|neon|mono")
	flags.Bool("no-color", false, "disable colored output")

	bind := map[string]string{
		"store.seed_file":     "seed-file",
		"store.failure_rate":  "failure-rate",
		"store.fault_seed":    "fault-seed",
		"store.latency":       "latency",
		"store.latency_scale": "latency-scale",
		"store.ids":           "ids",
		"notify.duration":     "notify-duration",
		"log.level":           "log-level",
		"log.format":          "log-format",
		"log.file":            "log-file",
		"ui.theme":            "theme",
		"ui.no_color":         "no-color",
	}
	if err := bindFlags(app.v, flags, bind); err != nil {
		panic(err)
	}

	cmd.AddCommand(
		newListCmd(app),
		newShowCmd(app),
		newAddCmd(app),
		newEditCmd(app),
		newDoneCmd(app, true),
		newDoneCmd(app, false),
		newRemoveCmd(app),
	)
	return cmd, app
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd, app := NewRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if cerr := app.close(); err == nil && cerr != nil {
		err = failedErr(cerr)
	}
	var ee *exitError
	if err != nil && !(errors.As(err, &ee) && ee.shown) {
		ui.SetOutput(stdout, stderr)
		ui.Fail(err.Error())
		if ExitCode(err) == ExitUsage {
			fmt.Fprintln(stderr, ui.Dim("Run `todo --help` for usage."))
		}
	}
	return ExitCode(err)
}

func (a *App) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// bindFlags ties config keys to flags so an explicitly set flag overrides
// the config file and the environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("bind %s: no flag --%s", key, name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}
