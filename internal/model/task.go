package model

import (
	"strings"
	"time"
)

// Priority is the urgency level assigned to a task by the message analyser.
type Priority string

// Known priority levels. Comparisons go through Is, which ignores case.
const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority normalises a raw priority label. Unknown or empty labels
// map to PriorityLow.
func ParsePriority(s string) Priority {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return p
	default:
		return PriorityLow
	}
}

// Is reports whether p names the same level as other, ignoring case.
func (p Priority) Is(other Priority) bool {
	return strings.EqualFold(string(p), string(other))
}

// Rank orders priorities for display, lower is more pressing.
func (p Priority) Rank() int {
	switch {
	case p.Is(PriorityUrgent):
		return 0
	case p.Is(PriorityHigh):
		return 1
	case p.Is(PriorityMedium):
		return 2
	default:
		return 3
	}
}

// Label returns the capitalised priority name.
func (p Priority) Label() string {
	s := strings.ToLower(string(p))
	if s == "" {
		return "Low"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Task is a unit of work extracted from a WhatsApp message.
type Task struct {
	// ID is the stable identifier assigned by the analyser (or derived
	// from the record contents when the analyser omits it).
	ID string `json:"id"`

	// Title is the short task text.
	Title string `json:"task"`

	// Snippet is the source message the task was extracted from.
	Snippet string `json:"snippet"`

	Priority Priority `json:"priority"`
	Category string   `json:"category"`

	// Deadline is the due date at midnight local time. Zero means the
	// task has no deadline and is left out of the calendar.
	Deadline time.Time `json:"deadline"`

	// Time is the free-form time of day attached to the deadline ("5 PM").
	Time string `json:"time"`

	// From is the sender (contact or group) of the source message.
	From string `json:"from"`

	IsGroup   bool `json:"isGroup"`
	Completed bool `json:"completed"`
	Reminded  bool `json:"reminded"`

	// CreatedAt is when the source message was received.
	CreatedAt time.Time `json:"timestamp"`

	// Links are URLs related to the task, in the order they were found.
	Links []string `json:"links,omitempty"`
}

// HasDeadline reports whether the task carries a due date.
func (t Task) HasDeadline() bool {
	return !t.Deadline.IsZero()
}

// IsUrgent reports whether the task is urgent and still open.
func (t Task) IsUrgent() bool {
	return !t.Completed && t.Priority.Is(PriorityUrgent)
}

// DueOn reports whether the deadline falls on the same calendar day as d,
// ignoring time of day.
func (t Task) DueOn(d time.Time) bool {
	if !t.HasDeadline() {
		return false
	}
	ty, tm, td := t.Deadline.Date()
	dy, dm, dd := d.Date()
	return ty == dy && tm == dm && td == dd
}
