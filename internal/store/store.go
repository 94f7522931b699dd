package store

import (
	"sync"
	"time"

	"github.com/nhle/whatsboard/internal/model"
)

// Store holds the most recent snapshot of tasks and messages. A snapshot
// is only ever replaced as a whole, so readers never observe a mix of two
// refreshes. Accessors return copies.
type Store struct {
	mu        sync.RWMutex
	tasks     []model.Task
	messages  []model.Message
	fetchedAt time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Replace swaps in a new snapshot. The previous contents are discarded.
func (s *Store) Replace(snap model.Snapshot) {
	tasks := make([]model.Task, len(snap.Tasks))
	copy(tasks, snap.Tasks)
	msgs := make([]model.Message, len(snap.Messages))
	copy(msgs, snap.Messages)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	s.messages = msgs
	s.fetchedAt = snap.FetchedAt
}

// Snapshot returns a copy of the current contents.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Snapshot{
		Tasks:     append([]model.Task(nil), s.tasks...),
		Messages:  append([]model.Message(nil), s.messages...),
		FetchedAt: s.fetchedAt,
	}
}

// Tasks returns the tasks in fetch order.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.tasks...)
}

// MessageCount returns the number of important messages.
func (s *Store) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// TaskCount returns the number of tasks.
func (s *Store) TaskCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// FetchedAt returns when the current snapshot was fetched. Zero until the
// first snapshot arrives.
func (s *Store) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

// TaskByID looks up a task in the current snapshot.
func (s *Store) TaskByID(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// CompletedCount returns how many tasks are completed.
func (s *Store) CompletedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CompletedCount(s.tasks)
}

// UrgentTasks returns open urgent tasks in fetch order.
func (s *Store) UrgentTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return UrgentTasks(s.tasks)
}

// CompletedCount counts completed tasks.
func CompletedCount(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// UrgentTasks filters tasks down to open urgent ones, keeping order.
func UrgentTasks(tasks []model.Task) []model.Task {
	var urgent []model.Task
	for _, t := range tasks {
		if t.IsUrgent() {
			urgent = append(urgent, t)
		}
	}
	return urgent
}
