package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/whatsboard/internal/keys"
	"github.com/nhle/whatsboard/internal/ui"
	"github.com/nhle/whatsboard/tests/testutil"
)

func TestComputeStats(t *testing.T) {
	s := ComputeStats(testutil.SampleTasks(), 42)

	want := Stats{Messages: 42, Tasks: 5, Completed: 1, Urgent: 2}
	if s != want {
		t.Fatalf("ComputeStats() = %+v, want %+v", s, want)
	}
	if got := s.CompletionRatio(); got != 0.2 {
		t.Errorf("CompletionRatio() = %v, want 0.2", got)
	}
	if got := s.UrgentRatio(); got != 0.4 {
		t.Errorf("UrgentRatio() = %v, want 0.4", got)
	}
	if got := s.MessagesRatio(); got != 0.42 {
		t.Errorf("MessagesRatio() = %v, want 0.42", got)
	}
}

func TestRatiosWithoutTasks(t *testing.T) {
	s := ComputeStats(nil, 250)
	if s.CompletionRatio() != 0 || s.UrgentRatio() != 0 {
		t.Errorf("ratios with no tasks = %v, %v, want 0", s.CompletionRatio(), s.UrgentRatio())
	}
	if s.MessagesRatio() != 1 {
		t.Errorf("MessagesRatio() = %v, want capped at 1", s.MessagesRatio())
	}
}

func TestGreeting(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2024, 3, 15, h, 0, 0, 0, time.Local) }

	tests := []struct {
		hour int
		name string
		want string
	}{
		{8, "", "Good morning"},
		{12, "Ish", "Good afternoon, Ish"},
		{16, " ", "Good afternoon"},
		{21, "Ish", "Good evening, Ish"},
	}
	for _, tt := range tests {
		if got := Greeting(at(tt.hour), tt.name); got != tt.want {
			t.Errorf("Greeting(%d, %q) = %q, want %q", tt.hour, tt.name, got, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{3 * time.Hour, "3 hours ago"},
		{2 * 24 * time.Hour, "2 days ago"},
		{65 * 24 * time.Hour, "2 months ago"},
	}
	for _, tt := range tests {
		if got := RelativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("RelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
	if got := RelativeTime(time.Time{}, now); got != "" {
		t.Errorf("RelativeTime(zero) = %q", got)
	}
}

func TestEnterSelectsUrgentTask(t *testing.T) {
	m := New(keys.DefaultKeyMap(), "", 100, 30)
	m.SetTasks(testutil.SampleTasks(), 3)

	task, ok := m.SelectedTask()
	if !ok || task.ID != "t1" {
		t.Fatalf("SelectedTask() = %q, %v, want t1", task.ID, ok)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	msg, ok := cmd().(ui.SelectTaskMsg)
	if !ok || msg.TaskID != "t4" {
		t.Fatalf("enter emitted %#v, want SelectTaskMsg{t4}", msg)
	}
}

func TestEnterWithoutUrgentTasks(t *testing.T) {
	m := New(keys.DefaultKeyMap(), "", 100, 30)
	m.SetTasks(nil, 0)

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatal("enter on an empty list should do nothing")
	}
}

func TestViewShowsCounters(t *testing.T) {
	m := New(keys.DefaultKeyMap(), "Ish", 120, 40)
	m.now = func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local) }
	m.SetTasks(testutil.SampleTasks(), 17)

	view := m.View()
	for _, want := range []string{"Good morning, Ish", "17", "1/5", "Submit assignment", "Reply to landlord"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Book tickets") {
		t.Error("non-urgent task listed among urgent tasks")
	}
}
