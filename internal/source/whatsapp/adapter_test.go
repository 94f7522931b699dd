package whatsapp

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/source"
)

const tasksJSON = `[
  {"id": "t1", "task": "Submit assignment", "snippet": "Bhai assignment kal tak https://classroom.example.com/a1",
   "priority": "Urgent", "category": "College", "deadline": "2024-03-15", "time": "5 PM",
   "from": "CS Group", "isGroup": true, "completed": false, "reminded": true,
   "timestamp": "2024-03-14T09:30:00Z"},
  {"id": 42, "task": "Pay rent", "priority": "HIGH", "deadline": "2024-03-20T18:30:00+05:30",
   "timestamp": 1710408600000, "links": ["https://pay.example.com"]},
  {"id": "t3", "task": "   ", "priority": "low"},
  {"task": "Call mom", "priority": "whenever", "deadline": "not a date"}
]`

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAdapter(srv.URL, "secret", slog.New(slog.DiscardHandler))
}

func TestFetchTasksValidatesRecords(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(tasksJSON))
	})

	tasks, err := a.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("FetchTasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3 (blank title dropped)", len(tasks))
	}

	first := tasks[0]
	if first.ID != "t1" || first.Priority != model.PriorityUrgent || !first.IsGroup || !first.Reminded {
		t.Errorf("unexpected first task: %+v", first)
	}
	if !first.DueOn(time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)) {
		t.Errorf("deadline = %v, want 2024-03-15", first.Deadline)
	}
	if len(first.Links) != 1 || first.Links[0] != "https://classroom.example.com/a1" {
		t.Errorf("links = %v, want link extracted from snippet", first.Links)
	}

	second := tasks[1]
	if second.ID != "42" {
		t.Errorf("numeric id = %q, want 42", second.ID)
	}
	if second.Priority != model.PriorityHigh {
		t.Errorf("priority = %q, want high", second.Priority)
	}
	if !second.DueOn(time.Date(2024, time.March, 20, 0, 0, 0, 0, time.Local)) {
		t.Errorf("deadline = %v, want 2024-03-20", second.Deadline)
	}
	if !second.CreatedAt.Equal(time.UnixMilli(1710408600000)) {
		t.Errorf("created = %v", second.CreatedAt)
	}

	third := tasks[2]
	if third.ID == "" {
		t.Error("missing id should be derived")
	}
	if third.Priority != model.PriorityLow {
		t.Errorf("unknown priority = %q, want low", third.Priority)
	}
	if third.HasDeadline() {
		t.Errorf("unparsable deadline should be dropped, got %v", third.Deadline)
	}
}

func TestFetchTasksDerivedIDIsStable(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tasks": [{"task": "Call mom", "snippet": "call karna"}]}`))
	})

	first, err := a.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("FetchTasks: %v", err)
	}
	second, err := a.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("FetchTasks: %v", err)
	}
	if first[0].ID != second[0].ID {
		t.Fatalf("derived ids differ: %s vs %s", first[0].ID, second[0].ID)
	}
}

func TestFetchTasksRejectsNonList(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"oops"`))
	})
	if _, err := a.FetchTasks(context.Background()); err == nil {
		t.Fatal("expected error for non-list payload")
	}
}

func TestFetchTasksUnauthorized(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := a.FetchTasks(context.Background())
	if !source.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestFetchTasksRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	})

	tasks, err := a.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("FetchTasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("got %d tasks, want 0", len(tasks))
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestFetchTasksRateLimitGivesUpWithoutFinalWait(t *testing.T) {
	var calls atomic.Int32
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	a.client.maxRetries = 0

	start := time.Now()
	if _, err := a.FetchTasks(context.Background()); err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("FetchTasks took %v, want no wait after the last attempt", elapsed)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetchTasksServerError(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "model overloaded"}`))
	})
	if _, err := a.FetchTasks(context.Background()); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestFetchImportantMessages(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages/important" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id": 1, "from": "Boss", "text": "Call me"}, {"from": "Mom", "body": "Khana kha liya?"}]`))
	})

	msgs, err := a.FetchImportantMessages(context.Background())
	if err != nil {
		t.Fatalf("FetchImportantMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].ID != "1" || msgs[0].Body != "Call me" {
		t.Errorf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].ID == "" || msgs[1].Body != "Khana kha liya?" {
		t.Errorf("unexpected second message: %+v", msgs[1])
	}
}

func TestFetchTasksDropsBadlyTypedRecord(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1","task":"Good","priority":"Urgent"},{"id":"2","task":"Bad","links":"http://x.y"}]`))
	})

	tasks, err := a.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("FetchTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Good" || tasks[0].Priority != model.PriorityUrgent {
		t.Fatalf("tasks = %+v, want only the urgent Good task", tasks)
	}
}

func TestFetchImportantMessagesDropsBadlyTypedRecord(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messages": [{"from": ["Boss"], "text": "Call me"}, {"id": 7, "from": "Mom", "body": "Hi"}]}`))
	})

	msgs, err := a.FetchImportantMessages(context.Background())
	if err != nil {
		t.Fatalf("FetchImportantMessages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != "7" {
		t.Fatalf("messages = %+v, want only message 7", msgs)
	}
}

func TestTaskLinksPreferExplicitLinks(t *testing.T) {
	withLinks := TaskRecord{
		Links:   []string{"https://a.example"},
		Snippet: "see https://b.example",
	}
	if got := taskLinks(withLinks); len(got) != 1 || got[0] != "https://a.example" {
		t.Errorf("taskLinks = %v, want only the explicit link", got)
	}

	withoutLinks := TaskRecord{Snippet: "see https://b.example"}
	if got := taskLinks(withoutLinks); len(got) != 1 || got[0] != "https://b.example" {
		t.Errorf("taskLinks = %v, want the snippet URL", got)
	}
}
