// Package calendar projects tasks onto the days of a month.
package calendar

import (
	"time"

	"github.com/nhle/whatsboard/internal/model"
)

// Projector holds the reference date of the month being viewed. Only its
// month and year matter for the projection; the day is kept so that
// moving across months clamps instead of overflowing (Jan 31 → Feb 29).
type Projector struct {
	ref time.Time
}

// NewProjector starts at the month containing ref.
func NewProjector(ref time.Time) *Projector {
	return &Projector{ref: dateOnly(ref)}
}

// Reference returns the current reference date.
func (p *Projector) Reference() time.Time {
	return p.ref
}

// Month returns the first day of the month being viewed.
func (p *Projector) Month() time.Time {
	return firstOfMonth(p.ref)
}

// Label returns the header text, e.g. "March 2024".
func (p *Projector) Label() string {
	return p.ref.Format("January 2006")
}

// Next moves the view forward by one calendar month.
func (p *Projector) Next() {
	p.ref = AddMonths(p.ref, 1)
}

// Prev moves the view back by one calendar month.
func (p *Projector) Prev() {
	p.ref = AddMonths(p.ref, -1)
}

// Jump moves the view to the month containing t.
func (p *Projector) Jump(t time.Time) {
	p.ref = dateOnly(t)
}

// Days returns every date of the viewed month, first to last, ascending.
func (p *Projector) Days() []time.Time {
	return Days(p.ref)
}

// Index groups tasks due in the viewed month by day of month, keeping
// Store order within each day.
func (p *Projector) Index(tasks []model.Task) map[int][]model.Task {
	first := p.Month()
	idx := make(map[int][]model.Task)
	for _, t := range tasks {
		if !t.HasDeadline() {
			continue
		}
		y, m, d := t.Deadline.Date()
		if y == first.Year() && m == first.Month() {
			idx[d] = append(idx[d], t)
		}
	}
	return idx
}

// Days returns every date of the month containing ref at local midnight.
func Days(ref time.Time) []time.Time {
	first := firstOfMonth(ref)
	n := DaysIn(ref)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = time.Date(first.Year(), first.Month(), i+1, 0, 0, 0, 0, first.Location())
	}
	return days
}

// DaysIn returns the number of days in the month containing ref.
func DaysIn(ref time.Time) int {
	return firstOfMonth(ref).AddDate(0, 1, -1).Day()
}

// TasksForDate returns the tasks whose deadline falls on the same calendar
// day as d, in the order given.
func TasksForDate(tasks []model.Task, d time.Time) []model.Task {
	var due []model.Task
	for _, t := range tasks {
		if t.DueOn(d) {
			due = append(due, t)
		}
	}
	return due
}

// AddMonths shifts t by n calendar months, clamping the day to the last
// day of the target month.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := DaysIn(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
