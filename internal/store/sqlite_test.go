package store_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/tests/testutil"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewTestCache(t)

	if _, ok, err := c.LoadSnapshot(ctx); err != nil || ok {
		t.Fatalf("LoadSnapshot on empty cache = ok %v, err %v", ok, err)
	}

	snap := model.Snapshot{
		Tasks: testutil.SampleTasks(),
		Messages: []model.Message{
			{ID: "m1", From: "Boss", Body: "Call me", ReceivedAt: time.Date(2024, time.March, 14, 8, 0, 0, 0, time.UTC)},
			{ID: "m1", From: "Boss", Body: "Again", ReceivedAt: time.Date(2024, time.March, 14, 8, 5, 0, 0, time.UTC)},
		},
		FetchedAt: time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC),
	}
	if _, err := c.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, ok, err := c.LoadSnapshot(ctx)
	if err != nil || !ok {
		t.Fatalf("LoadSnapshot: ok %v, err %v", ok, err)
	}
	if len(got.Tasks) != len(snap.Tasks) {
		t.Fatalf("got %d tasks, want %d", len(got.Tasks), len(snap.Tasks))
	}
	for i := range snap.Tasks {
		want, have := snap.Tasks[i], got.Tasks[i]
		if have.ID != want.ID || have.Title != want.Title || have.Completed != want.Completed {
			t.Errorf("task %d = %+v, want %+v", i, have, want)
		}
		if !have.Priority.Is(want.Priority) {
			t.Errorf("task %d priority = %q, want %q", i, have.Priority, want.Priority)
		}
		if !have.Deadline.Equal(want.Deadline) {
			t.Errorf("task %d deadline = %v, want %v", i, have.Deadline, want.Deadline)
		}
		if !have.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("task %d created = %v, want %v", i, have.CreatedAt, want.CreatedAt)
		}
	}
	if !reflect.DeepEqual(got.Tasks[0].Links, snap.Tasks[0].Links) {
		t.Errorf("links = %v, want %v", got.Tasks[0].Links, snap.Tasks[0].Links)
	}
	if len(got.Messages) != 2 || got.Messages[1].Body != "Again" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if !got.FetchedAt.Equal(snap.FetchedAt) {
		t.Errorf("fetched = %v, want %v", got.FetchedAt, snap.FetchedAt)
	}
}

func TestSaveSnapshotReplaces(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewTestCache(t)

	tasks := testutil.SampleTasks()
	if _, err := c.SaveSnapshot(ctx, model.Snapshot{Tasks: tasks}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if _, err := c.SaveSnapshot(ctx, model.Snapshot{Tasks: tasks[:2]}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, _, err := c.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(got.Tasks))
	}
}

func TestSnapshotKeepsRepeatedTaskIDs(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewTestCache(t)

	tasks := testutil.SampleTasks()[:2]
	tasks[1].ID = tasks[0].ID
	if _, err := c.SaveSnapshot(ctx, model.Snapshot{Tasks: tasks}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, _, err := c.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(got.Tasks))
	}
	if got.Tasks[0].Title != tasks[0].Title || got.Tasks[1].Title != tasks[1].Title {
		t.Errorf("titles = %q, %q; want snapshot order", got.Tasks[0].Title, got.Tasks[1].Title)
	}
}

func TestNotificationsForNewTasks(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewTestCache(t)
	tasks := testutil.SampleTasks()

	created, err := c.SaveSnapshot(ctx, model.Snapshot{Tasks: tasks[:3]})
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("first save should only seed, got %d notifications", len(created))
	}

	created, err = c.SaveSnapshot(ctx, model.Snapshot{Tasks: tasks})
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("got %d notifications, want 2", len(created))
	}

	unread, err := c.UnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("UnreadNotifications: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("got %d unread, want 2", len(unread))
	}

	if err := c.MarkTaskNotificationsRead(ctx, "t4"); err != nil {
		t.Fatalf("MarkTaskNotificationsRead: %v", err)
	}
	unread, err = c.UnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("UnreadNotifications: %v", err)
	}
	if len(unread) != 1 || unread[0].TaskID != "t5" {
		t.Fatalf("unread = %+v, want only t5", unread)
	}

	created, err = c.SaveSnapshot(ctx, model.Snapshot{Tasks: tasks})
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("repeat save created %d notifications", len(created))
	}
}
