package model

import (
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{
		"Urgent":  PriorityUrgent,
		"URGENT":  PriorityUrgent,
		" high ":  PriorityHigh,
		"Medium":  PriorityMedium,
		"low":     PriorityLow,
		"":        PriorityLow,
		"someday": PriorityLow,
	}
	for in, want := range cases {
		if got := ParsePriority(in); got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPriorityIsIgnoresCase(t *testing.T) {
	if !Priority("URGENT").Is(PriorityUrgent) {
		t.Fatal("expected URGENT to match urgent")
	}
	if Priority("high").Is(PriorityUrgent) {
		t.Fatal("high must not match urgent")
	}
	if got := Priority("uRgEnT").Label(); got != "Urgent" {
		t.Errorf("Label() = %q, want Urgent", got)
	}
}

func TestTaskIsUrgent(t *testing.T) {
	open := Task{Priority: "Urgent"}
	done := Task{Priority: "urgent", Completed: true}
	high := Task{Priority: PriorityHigh}

	if !open.IsUrgent() {
		t.Error("open urgent task should be urgent")
	}
	if done.IsUrgent() {
		t.Error("completed task should not be urgent")
	}
	if high.IsUrgent() {
		t.Error("high priority task should not be urgent")
	}
}

func TestTaskDueOnIgnoresTimeOfDay(t *testing.T) {
	task := Task{Deadline: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local)}

	if !task.DueOn(time.Date(2024, time.March, 15, 23, 59, 0, 0, time.Local)) {
		t.Error("expected task to be due late on March 15")
	}
	if task.DueOn(time.Date(2024, time.March, 16, 0, 0, 0, 0, time.Local)) {
		t.Error("task must not be due on March 16")
	}
	if (Task{}).DueOn(time.Now()) {
		t.Error("task without deadline is never due")
	}
}
