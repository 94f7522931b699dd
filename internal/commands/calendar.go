package commands

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/whatsboard/internal/calendar"
	"github.com/nhle/whatsboard/internal/theme"
)

// CalendarOptions are the flags of the calendar command.
type CalendarOptions struct {
	Month string
}

func addCalendar(topLevel *cobra.Command, o *RootOptions) {
	co := &CalendarOptions{}

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month grid with the tasks due on each day.",
		Example: `
whatsboard calendar
whatsboard calendar --month 2024-03
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			ref := now
			if co.Month != "" {
				m, err := time.ParseInLocation("2006-01", co.Month, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --month %q, want YYYY-MM", co.Month)
				}
				ref = m
			}

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

			p := calendar.NewProjector(ref)
			tasks := rt.Store.Tasks()
			index := p.Index(tasks)

			var days []calendar.Day
			for _, d := range p.Days() {
				days = append(days, calendar.Day{
					Day:     d.Day(),
					Tasks:   index[d.Day()],
					IsToday: sameDate(d, now),
				})
			}

			grid := calendar.Render(p.Month(), days, calendar.Options{
				HeaderStyle: theme.DimmedStyle,
				EmptyStyle:  lipgloss.NewStyle(),
				EntryStyle:  lipgloss.NewStyle(),
				TodayStyle:  theme.TodayStyle,
				DotStyle:    theme.PriorityStyle,
				ShowHeader:  true,
			})
			_, _ = fmt.Fprintln(out, bold(p.Label()))
			_, _ = fmt.Fprintln(out, grid)
			_, _ = fmt.Fprintln(out)

			for _, d := range p.Days() {
				due := calendar.TasksForDate(tasks, d)
				if len(due) == 0 {
					continue
				}
				_, _ = fmt.Fprintln(out, bold(d.Format("Mon Jan 2")))
				for _, t := range due {
					_, _ = fmt.Fprintf(out, "  %s %s\n", priorityColor(t.Priority)("●"), t.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&co.Month, "month", "", "Month to show, as YYYY-MM. Defaults to the current month.")

	topLevel.AddCommand(cmd)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
