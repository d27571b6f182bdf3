package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/board"
	"taskboard/internal/models"
	"taskboard/internal/persist"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect and edit the board from the terminal",
		Long: `Inspect and edit the board from the terminal.

Each command loads the whole board, applies one change and writes the whole
board back. A running "taskboard serve" keeps its own copy in memory and
overwrites the store on its next change, so stop the server before using
add, move or delete against the same storage.`,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newMoveCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newExportCmd())
	return cmd
}

// withApp opens the board for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func newListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks column by column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var only models.Status
			if status != "" {
				s, err := models.ParseStatus(status)
				if err != nil {
					return err
				}
				only = s
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				c := board.NewController(a.tasks)
				now := time.Now()

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tSTATUS\tCREATED\tTITLE")
				for _, col := range c.Board() {
					if only != "" && col.ID != only {
						continue
					}
					for _, t := range col.Tasks {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Status, t.CreatedLabel(now), t.Title)
					}
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "only list tasks in this column")
	return cmd
}

func newAddCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task to the backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				task, err := a.tasks.AddTask(ctx, args[0], description)
				if err != nil {
					return err
				}
				if task == nil {
					return models.ErrTitleRequired
				}
				fmt.Fprintln(cmd.OutOrStdout(), task.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	return cmd
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move ID STATUS",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := models.ParseStatus(args[1])
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, ok := a.tasks.Task(args[0]); !ok {
					return fmt.Errorf("task %s not found", args[0])
				}
				return a.tasks.MoveTask(ctx, args[0], status)
			})
		},
	}
}

// promptConfirmer asks on out and reads a y/N answer from in.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	answer, err := p.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, ok := a.tasks.Task(args[0]); !ok {
					return fmt.Errorf("task %s not found", args[0])
				}

				var confirmer board.Confirmer = promptConfirmer{
					in:  bufio.NewReader(cmd.InOrStdin()),
					out: cmd.OutOrStdout(),
				}
				if yes {
					confirmer = board.ConfirmFunc(func(context.Context, string) bool { return true })
				}

				deleted, err := board.NewController(a.tasks).Delete(ctx, args[0], confirmer)
				if err != nil {
					return err
				}
				if !deleted {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != persist.FormatJSON && format != persist.FormatYAML {
				return fmt.Errorf("format must be '%s' or '%s'", persist.FormatJSON, persist.FormatYAML)
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				return persist.Export(cmd.OutOrStdout(), a.tasks.CurrentTasks(), format)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", persist.FormatJSON, "output format (json or yaml)")
	return cmd
}
