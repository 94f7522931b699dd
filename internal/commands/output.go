package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/nhle/whatsboard/internal/app"
	"github.com/nhle/whatsboard/internal/model"
)

var (
	bold      = color.New(color.Bold).SprintFunc()
	underline = color.New(color.Underline).SprintFunc()
	dimmed    = color.New(color.Faint).SprintFunc()
)

// priorityColor mirrors the dashboard's priority palette.
func priorityColor(p model.Priority) func(a ...interface{}) string {
	switch {
	case p.Is(model.PriorityUrgent):
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case p.Is(model.PriorityHigh):
		return color.New(color.FgHiYellow).SprintFunc()
	case p.Is(model.PriorityMedium):
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgBlue).SprintFunc()
	}
}

// refresh fetches a fresh snapshot into the runtime's Store. When the
// fetch fails the cached snapshot is used instead, with a warning on w.
func refresh(ctx context.Context, rt *app.Runtime, w io.Writer) error {
	res := rt.Poller.Refresh(ctx)
	if res.Error == nil {
		return nil
	}
	if rt.LoadCached(ctx) {
		_, _ = fmt.Fprintf(w, "%s refresh failed (%v); showing data from %s\n\n",
			color.YellowString("warning:"), res.Error,
			rt.Store.FetchedAt().Local().Format("Jan 2 15:04"))
		return nil
	}
	return res.Error
}

// taskTable lays tasks out one per row.
func taskTable(tasks []model.Task) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold("ID"), bold("Priority"), bold("Task"), bold("From"), bold("Due"))
	for _, t := range tasks {
		due := "-"
		if t.HasDeadline() {
			due = t.Deadline.Format("Mon Jan 2")
			if t.Time != "" {
				due += " " + t.Time
			}
		}
		title := t.Title
		if t.Completed {
			title = dimmed(title + " (done)")
		}
		tbl.AddRow(t.ID, priorityColor(t.Priority)(t.Priority.Label()), title, t.From, due)
	}
	return tbl
}
