package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/shoplist/internal/ui"
	"github.com/Makepad-fr/shoplist/internal/view"
)

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <label...>",
		Short: "Add an item (the label can be multiple words)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("shoplist add <label...>")
			}
			s, err := app.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.close()

			label := strings.Join(args, " ")
			if err := s.ctl.Submit(label); err != nil {
				return err
			}
			ui.OK(app.out, "added "+label)
			return nil
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.close()

			if filter != "" {
				s.ctl.Filter(filter)
			}
			ui.Panel(app.out, listLines(s.ctl.Items(), filter))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only show items containing this text (case-insensitive)")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove the item at a 1-based index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("shoplist rm <index>")
			}
			s, err := app.openSession(cmd, yes)
			if err != nil {
				return err
			}
			defer s.close()

			n, err := nodeAt(s.view, args[0])
			if err != nil {
				return err
			}
			done, err := s.ctl.RequestRemove(n)
			if err != nil {
				return err
			}
			if !done {
				ui.Warn(app.out, "kept "+n.Text)
				return nil
			}
			ui.OK(app.out, "removed "+n.Text)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index> <label...>",
		Short: "Replace the item at a 1-based index",
		Long:  "Replace the item at a 1-based index. The new label moves to the end of the list.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return usagef("shoplist edit <index> <label...>")
			}
			s, err := app.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.close()

			n, err := nodeAt(s.view, args[0])
			if err != nil {
				return err
			}
			old := n.Text
			if err := s.ctl.RequestEditItem(n); err != nil {
				return err
			}
			label := strings.Join(args[1:], " ")
			if err := s.ctl.Submit(label); err != nil {
				return err
			}
			ui.OK(app.out, fmt.Sprintf("updated %s -> %s", old, label))
			return nil
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd, yes)
			if err != nil {
				return err
			}
			defer s.close()

			done, err := s.ctl.ClearAll()
			if err != nil {
				return err
			}
			if !done {
				ui.Warn(app.out, "nothing cleared")
				return nil
			}
			ui.OK(app.out, "cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the stored list as a JSON array",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.close()

			labels, err := s.ctl.Persisted()
			if err != nil {
				return err
			}
			b, err := json.Marshal(labels)
			if err != nil {
				return fmt.Errorf("json marshal: %w", err)
			}
			fmt.Fprintln(app.out, string(b))
			return nil
		},
	}
}

// nodeAt resolves a 1-based index against the full (unfiltered) list.
func nodeAt(v *view.List, arg string) (*view.Node, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return nil, usagef("not a number: %s", arg)
	}
	n, err := v.At(i - 1)
	if err != nil {
		return nil, usagef("index out of range: have %d, got %d", v.Len(), i)
	}
	return n, nil
}
