package detail

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	aiservice "github.com/nhle/whatsboard/internal/ai"
	"github.com/nhle/whatsboard/internal/ai/aitest"
	"github.com/nhle/whatsboard/internal/keys"
	"github.com/nhle/whatsboard/internal/model"
	aiview "github.com/nhle/whatsboard/internal/ui/ai"
	"github.com/nhle/whatsboard/internal/ui/markdown"
	"github.com/nhle/whatsboard/tests/testutil"
)

func newTestModel(comp *aitest.Completer) Model {
	logger := slog.New(slog.DiscardHandler)
	m := New(
		context.Background(),
		aiservice.NewSummarizer(comp, logger, 0),
		aiservice.NewSession(model.Task{}, comp, logger, 0),
		markdown.New("notty"),
		keys.DefaultKeyMap(),
		100, 40,
	)
	m.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	return m
}

// run executes cmd, expanding batches, and feeds every message back.
func run(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = run(m, c)
		}
		return m
	}
	switch msg.(type) {
	case aiview.SummaryMsg, aiview.ReplyMsg:
		m, _ = m.Update(msg)
	}
	return m
}

func TestOpenShowsMetadataAndAnalysis(t *testing.T) {
	m := newTestModel(&aitest.Completer{Reply: "Jaldi submit karo"})
	task := testutil.SampleTasks()[0]

	m = run(m, m.Open(task))

	view := m.View()
	for _, want := range []string{
		"Submit assignment",
		"Urgent",
		"CS Group (Group chat)",
		"Fri, Mar 15 2024 at 5 PM",
		"College",
		"No reminder sent",
		"Created 3 hours ago",
		"1. https://classroom.example.com/a1",
		"AI Analysis",
		"Jaldi submit karo",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTabSwitchAndChat(t *testing.T) {
	comp := &aitest.Completer{Reply: "Kal tak"}
	m := newTestModel(comp)
	m = run(m, m.Open(testutil.SampleTasks()[0]))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.ActiveTab() != TabChat {
		t.Fatalf("ActiveTab() = %v, want Chat", m.ActiveTab())
	}
	if !strings.Contains(m.View(), "Namaste!") {
		t.Error("chat tab should show the greeting")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Kab deadline hai?")})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = run(m, cmd)

	view := m.View()
	if !strings.Contains(view, "Kab deadline hai?") || !strings.Contains(view, "Kal tak") {
		t.Errorf("chat view = %q", view)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.ActiveTab() != TabAnalysis {
		t.Error("second tab press should return to analysis")
	}
}

func TestReopenResetsChatAndDropsStaleReply(t *testing.T) {
	comp := &aitest.Completer{Reply: "late"}
	m := newTestModel(comp)
	tasks := testutil.SampleTasks()

	m = run(m, m.Open(tasks[0]))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello")})
	_, pending := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.Open(tasks[2])
	m = run(m, pending)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if strings.Contains(m.View(), "late") {
		t.Error("reply for the previous task reached the new transcript")
	}
	if got, _ := m.Task(); got.ID != "t3" {
		t.Errorf("Task() = %q, want t3", got.ID)
	}
}

func TestEscEmitsBack(t *testing.T) {
	m := newTestModel(&aitest.Completer{})
	m.Open(testutil.SampleTasks()[0])

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc produced no command")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Error("esc should emit BackMsg")
	}
}
