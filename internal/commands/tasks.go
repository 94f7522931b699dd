package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/ui/dashboard"
)

// TasksOptions are the flags of the tasks command.
type TasksOptions struct {
	All bool
}

func addTasks(topLevel *cobra.Command, o *RootOptions) {
	to := &TasksOptions{}

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Refresh once and print the dashboard counters and urgent tasks.",
		Example: `
whatsboard tasks
whatsboard tasks --all
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOrBackground(cmd.Context())
			rt, done, err := o.openRuntime(ctx)
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			if err := refresh(ctx, rt, out); err != nil {
				return err
			}

			tasks := rt.Store.Tasks()
			printStats(out, dashboard.ComputeStats(tasks, rt.Store.MessageCount()))

			title, list := "Priority Tasks", rt.Store.UrgentTasks()
			if to.All {
				title, list = "All Tasks", tasks
			}
			_, _ = fmt.Fprintln(out, bold(underline(title)))
			if len(list) == 0 {
				_, _ = fmt.Fprintln(out, dimmed("No tasks."))
				return nil
			}
			_, _ = fmt.Fprintln(out, taskTable(list))
			return nil
		},
	}
	cmd.Flags().BoolVar(&to.All, "all", false, "List every task, not only urgent ones.")

	topLevel.AddCommand(cmd)
}

func printStats(w io.Writer, s dashboard.Stats) {
	_, _ = fmt.Fprintf(w, "%s %d   %s %d/%d   %s %d\n\n",
		bold("Messages analyzed:"), s.Messages,
		bold("Completed:"), s.Completed, s.Tasks,
		bold("Urgent:"), s.Urgent)
}

// taskByID finds a task in tasks.
func taskByID(tasks []model.Task, id string) (model.Task, error) {
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("no task with id %q", id)
}
