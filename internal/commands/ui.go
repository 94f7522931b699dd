package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/whatsboard/internal/app"
)

func addUI(topLevel *cobra.Command, o *RootOptions) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the dashboard (the default).",
		Example: `
whatsboard ui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), o)
		},
	}

	topLevel.AddCommand(cmd)
}

func runUI(ctx context.Context, o *RootOptions) error {
	ctx = contextOrBackground(ctx)

	rt, done, err := o.openRuntime(ctx)
	if err != nil {
		return err
	}
	defer done()

	rt.LoadCached(ctx)

	p := tea.NewProgram(app.New(rt), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
