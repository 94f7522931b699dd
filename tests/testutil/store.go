package testutil

import (
	"testing"
	"time"

	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/store"
)

// NewTestCache creates an in-memory SQLiteCache with all migrations applied.
// It automatically closes the cache when the test completes.
func NewTestCache(t *testing.T) *store.SQLiteCache {
	t.Helper()

	c, err := store.NewSQLiteCache(":memory:")
	if err != nil {
		t.Fatalf("creating test cache: %v", err)
	}

	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("closing test cache: %v", err)
		}
	})

	return c
}

// Day returns local midnight of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// SampleTasks returns a small fixed task list covering every priority,
// completed and open tasks, and tasks with and without deadlines.
func SampleTasks() []model.Task {
	created := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	return []model.Task{
		{
			ID: "t1", Title: "Submit assignment", Snippet: "Assignment kal tak submit karna hai",
			Priority: model.PriorityUrgent, Category: "College", Deadline: Day(2024, time.March, 15),
			Time: "5 PM", From: "CS Group", IsGroup: true, CreatedAt: created,
			Links: []string{"https://classroom.example.com/a1"},
		},
		{
			ID: "t2", Title: "Pay electricity bill", Priority: "URGENT", Category: "Home",
			Deadline: Day(2024, time.March, 15), From: "Papa", Completed: true, CreatedAt: created,
		},
		{
			ID: "t3", Title: "Book tickets", Priority: model.PriorityHigh, Category: "Travel",
			Deadline: Day(2024, time.March, 20), From: "Rahul", CreatedAt: created,
		},
		{
			ID: "t4", Title: "Reply to landlord", Priority: "Urgent", From: "Landlord", CreatedAt: created,
		},
		{
			ID: "t5", Title: "Read chapter 4", Priority: model.PriorityLow,
			Deadline: Day(2024, time.April, 1), CreatedAt: created,
		},
	}
}
