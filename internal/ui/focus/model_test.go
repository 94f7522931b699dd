package focus

import (
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/whatsboard/internal/keys"
	"github.com/nhle/whatsboard/internal/timer"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, store timer.Persister) Model {
	t.Helper()
	if store == nil {
		store = &timer.MemoryStore{}
	}
	return New(keys.DefaultKeyMap(), timer.New(store, slog.New(slog.DiscardHandler)), 30)
}

func TestToggleStartsTicking(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := m.Update(runeKey("s"))
	if cmd == nil {
		t.Fatal("starting the timer should schedule a tick")
	}
	if !m.State().IsRunning {
		t.Fatal("timer not running after s")
	}

	epoch := m.timer.Epoch()
	m, cmd = m.Update(TickMsg{Epoch: epoch})
	if cmd == nil {
		t.Error("a current tick should schedule the next one")
	}
	if got := m.State().Time; got != 1 {
		t.Errorf("Time = %d after one tick, want 1", got)
	}

	m, cmd = m.Update(runeKey("s"))
	if cmd != nil {
		t.Error("stopping should not schedule a tick")
	}
	m, cmd = m.Update(TickMsg{Epoch: epoch})
	if cmd != nil || m.State().Time != 1 {
		t.Errorf("tick after stop applied: time=%d cmd=%v", m.State().Time, cmd != nil)
	}
}

func TestRestartIgnoresOldTicks(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = m.Update(runeKey("s"))
	old := m.timer.Epoch()
	m, _ = m.Update(runeKey("s"))
	m, _ = m.Update(runeKey("s"))

	if _, cmd := m.Update(TickMsg{Epoch: old}); cmd != nil {
		t.Fatal("tick from the previous run was rescheduled")
	}
	if got := m.State().Time; got != 0 {
		t.Errorf("Time = %d, want 0", got)
	}
}

func TestResetKey(t *testing.T) {
	store := &timer.MemoryStore{}
	store.SetRaw([]byte(`{"isRunning":false,"time":3725}`))
	m := newTestModel(t, store)

	if !strings.Contains(m.View(), "01:02:05") {
		t.Fatalf("view = %q, want 01:02:05", m.View())
	}

	m, _ = m.Update(runeKey("x"))
	if st := m.State(); st.Time != 0 || st.IsRunning {
		t.Errorf("after reset: %+v", st)
	}
	if !strings.Contains(m.View(), "00:00:00") {
		t.Errorf("view after reset = %q", m.View())
	}
}

func TestInitResumesRunningTimer(t *testing.T) {
	store := &timer.MemoryStore{}
	store.SetRaw([]byte(`{"isRunning":true,"time":10}`))
	m := newTestModel(t, store)

	if m.Init() == nil {
		t.Fatal("Init should resume ticking for a running timer")
	}
	m, _ = m.Update(TickMsg{Epoch: m.timer.Epoch()})
	if got := m.State().Time; got != 11 {
		t.Errorf("Time = %d, want 11", got)
	}

	if newTestModel(t, nil).Init() != nil {
		t.Error("Init should not tick for a stopped timer")
	}
}
