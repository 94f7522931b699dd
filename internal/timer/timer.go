// Package timer implements the focus stopwatch: a persisted elapsed-seconds
// counter that advances once per second while running.
package timer

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"
)

// State is the persisted timer state. The JSON shape is fixed.
type State struct {
	IsRunning bool `json:"isRunning"`
	Time      int  `json:"time"`
}

// Display returns the elapsed time as HH:MM:SS.
func (s State) Display() string {
	return Format(s.Time)
}

// Format renders seconds as zero-padded HH:MM:SS. Hours are not wrapped.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Persister loads and saves timer state. Load returns an error when the
// stored value exists but cannot be decoded; an absent value is the zero
// State with a nil error.
type Persister interface {
	Load() (State, error)
	Save(State) error
}

// Timer is the focus stopwatch. Every transition and every tick is saved
// through the Persister before the call returns.
//
// Ticks are tagged with an epoch. Start, Stop and Reset move to a new
// epoch, so a tick scheduled by an earlier run is ignored.
type Timer struct {
	mu     gosync.Mutex
	state  State
	epoch  uint64
	store  Persister
	logger *slog.Logger
}

// New loads the persisted state once. A missing or unreadable value
// yields the default stopped state at zero.
func New(store Persister, logger *slog.Logger) *Timer {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Timer{store: store, logger: logger}

	st, err := store.Load()
	if err != nil {
		logger.Debug("discarding persisted timer state", "error", err)
		st = State{}
	}
	if st.Time < 0 {
		logger.Debug("discarding negative persisted timer value", "time", st.Time)
		st = State{}
	}
	t.state = st
	return t
}

// State returns the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Epoch returns the current tick epoch.
func (t *Timer) Epoch() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epoch
}

// Start moves a stopped timer to running and returns the epoch its ticks
// must carry. started is false if the timer was already running; the
// returned epoch is then the existing one.
func (t *Timer) Start() (epoch uint64, started bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.IsRunning {
		return t.epoch, false
	}
	t.epoch++
	t.state.IsRunning = true
	t.persist()
	return t.epoch, true
}

// Stop moves a running timer to stopped. Pending ticks become stale.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.IsRunning {
		return
	}
	t.epoch++
	t.state.IsRunning = false
	t.persist()
}

// Reset stops the timer and zeroes the elapsed time.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.epoch++
	t.state = State{}
	t.persist()
}

// Toggle starts a stopped timer or stops a running one.
func (t *Timer) Toggle() (epoch uint64, started bool) {
	if t.State().IsRunning {
		t.Stop()
		return t.Epoch(), false
	}
	return t.Start()
}

// Tick advances a running timer by one second if epoch is current. It
// reports whether the tick was applied; a false result means the caller
// must not schedule another tick for this epoch.
func (t *Timer) Tick(epoch uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.IsRunning || epoch != t.epoch {
		return false
	}
	t.state.Time++
	t.persist()
	return true
}

// Run ticks the timer once per second until ctx is done or the timer is
// stopped. onTick, if non-nil, receives the state after each tick.
func (t *Timer) Run(ctx context.Context, onTick func(State)) {
	epoch, _ := t.Start()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !t.Tick(epoch) {
				return
			}
			if onTick != nil {
				onTick(t.State())
			}
		}
	}
}

// persist saves the state. Must be called with mu held.
func (t *Timer) persist() {
	if err := t.store.Save(t.state); err != nil {
		t.logger.Warn("saving timer state", "error", err)
	}
}
