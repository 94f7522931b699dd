package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/whatsboard/internal/ui/markdown"
)

func addSummary(topLevel *cobra.Command, o *RootOptions) {
	cmd := &cobra.Command{
		Use:   "summary <task-id>",
		Short: "Print the AI brief for a task.",
		Example: `
whatsboard summary 3f6c1d2e
`,
		Args: cobra.ExactArgs(1),
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
			t, err := taskByID(rt.Store.Tasks(), args[0])
			if err != nil {
				return err
			}

			text := rt.Summarizer.Summarize(ctx, t)
			md := markdown.New(rt.Config.Display.Theme)
			_, _ = fmt.Fprintln(out, bold(t.Title))
			_, _ = fmt.Fprintln(out, strings.TrimRight(md.Render(text, 80), "\n"))
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
