package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoapp/internal/model"
	"github.com/idilsaglam/todoapp/internal/ui"
)

// -------------- subcommands ----------------

func newListCmd(a *App) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			printList(s.Controller.Items(), group)
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func newShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Fetch a single item from the store",
		Args:  exactArgs(1, "usage: todo show <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.Logger()
			if err != nil {
				return failedErr(err)
			}
			s, err := NewSession(a.cfg, &printNotifier{}, logger)
			if err != nil {
				return usageErr("%w", err)
			}
			it, err := s.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return failedErr(err)
			}
			printItem(it)
			return nil
		},
	}
}

func newAddCmd(a *App) *cobra.Command {
	var desc string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  minArgs(1, "usage: todo add <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usageErr("add: empty title")
			}
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.Controller.Create(cmd.Context(), model.CreatePayload{Title: title, Description: desc}); err != nil {
				return opErr(err)
			}
			printList(s.Controller.Items(), false)
			return nil
		},
	}
	cmd.Flags().StringVarP(&desc, "description", "d", "", "item description")
	return cmd
}

func newEditCmd(a *App) *cobra.Command {
	var title, desc string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title and/or description of an item",
		Args:  exactArgs(1, "usage: todo edit <id> [--title T] [--description D]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p model.UpdatePayload
			if cmd.Flags().Changed("title") {
				p.Title = model.Ptr(strings.TrimSpace(title))
			}
			if cmd.Flags().Changed("description") {
				p.Description = model.Ptr(desc)
			}
			if p.IsEmpty() {
				return usageErr("edit: nothing to change, pass --title and/or --description")
			}
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.Controller.ApplyUpdate(cmd.Context(), args[0], model.ActionUpdate, p); err != nil {
				return opErr(err)
			}
			printList(s.Controller.Items(), false)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&desc, "description", "d", "", "new description")
	return cmd
}

// newDoneCmd builds "done" (completed=true) and "undone" (completed=false).
func newDoneCmd(a *App, completed bool) *cobra.Command {
	use := "done"
	short := "Mark an item as completed"
	if !completed {
		use = "undone"
		short = "Mark an item as pending again"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  exactArgs(1, "usage: todo "+use+" <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			p := model.UpdatePayload{Completed: model.Ptr(completed)}
			if err := s.Controller.ApplyUpdate(cmd.Context(), args[0], model.ActionComplete, p); err != nil {
				return opErr(err)
			}
			printList(s.Controller.Items(), false)
			return nil
		},
	}
}

func newRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove an item",
		Args:    exactArgs(1, "usage: todo rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.Controller.Remove(cmd.Context(), args[0]); err != nil {
				return opErr(err)
			}
			printList(s.Controller.Items(), false)
			return nil
		},
	}
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErr("%s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageErr("%s", usage)
		}
		return nil
	}
}

// -------------- rendering helpers --------------

func printList(items []model.Item, group bool) {
	t := ui.Current()
	d, p := model.Stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymUnchecked), p,
		ui.C(t.Accent, "Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(lines)
}

func printItem(it model.Item) {
	t := ui.Current()
	box, color := t.BoxUnchecked, t.Muted
	if it.Completed {
		box, color = t.BoxChecked, t.Success
	}
	lines := []string{
		fmt.Sprintf("%s %s %s", ui.Dim("#"+it.ID), ui.C(color, box), ui.C(t.Title, it.Title)),
	}
	if it.Description != "" {
		lines = append(lines, it.Description)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "created "+it.CreatedAt.Local().Format("2006-01-02 15:04")))
	lines = append(lines, ui.C(t.Muted, "updated "+it.UpdatedAt.Local().Format("2006-01-02 15:04")))
	ui.Panel(lines)
}

func flatLines(items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{ui.C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		idx := fmt.Sprintf("%3s.", it.ID)
		box := t.BoxUnchecked
		color := t.Muted
		if it.Completed {
			box, color = t.BoxChecked, t.Success
		}
		title := it.Title
		if len([]rune(title)) > 80 {
			title = string([]rune(title)[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s", ui.Dim(idx), ui.C(color, box), title))
	}
	return out
}

func groupLines(items []model.Item) []string {
	t := ui.Current()
	var pend, done []model.Item
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, ui.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
