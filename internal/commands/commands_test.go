package commands

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhle/whatsboard/internal/ai/aitest"
	"github.com/nhle/whatsboard/internal/app"
	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/tests/testutil"
)

type fakeSource struct {
	tasks []model.Task
	err   error
}

func (f *fakeSource) FetchTasks(ctx context.Context) ([]model.Task, error) {
	return f.tasks, f.err
}

func (f *fakeSource) FetchImportantMessages(ctx context.Context) ([]model.Message, error) {
	return []model.Message{{ID: "m1", Body: "hi"}}, f.err
}

// writeConfig saves a config whose data directory is inside the test's
// temp dir and returns its path.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := model.DefaultAppConfig()
	cfg.Storage.DataDir = filepath.Join(dir, "data")
	path := filepath.Join(dir, "config.yaml")
	if err := model.SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	return path
}

func testOptions(src *fakeSource, comp *aitest.Completer) *RootOptions {
	o := &RootOptions{runtime: app.Options{
		Tasks:    src,
		Messages: src,
		Secret:   func(string) (string, error) { return "", nil },
		NoCache:  true,
	}}
	if comp != nil {
		o.runtime.Completer = comp
	}
	return o
}

func execute(t *testing.T, o *RootOptions, args ...string) (string, error) {
	t.Helper()
	cmd := newRoot(o)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTasksCommand(t *testing.T) {
	path := writeConfig(t)
	o := testOptions(&fakeSource{tasks: testutil.SampleTasks()}, nil)

	out, err := execute(t, o, "tasks", "--config", path)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	for _, want := range []string{"Messages analyzed: 1", "Completed: 1/5", "Urgent: 2", "Submit assignment", "Reply to landlord"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Read chapter 4") {
		t.Error("low priority task listed without --all")
	}

	out, err = execute(t, o, "tasks", "--all", "--config", path)
	if err != nil {
		t.Fatalf("tasks --all: %v", err)
	}
	if !strings.Contains(out, "Read chapter 4") {
		t.Errorf("--all should list every task:\n%s", out)
	}
}

func TestTasksCommandFailsWithoutData(t *testing.T) {
	path := writeConfig(t)
	o := testOptions(&fakeSource{err: errors.New("connection refused")}, nil)

	if _, err := execute(t, o, "tasks", "--config", path); err == nil {
		t.Fatal("expected an error when the refresh fails and nothing is cached")
	}
}

func TestCalendarCommand(t *testing.T) {
	path := writeConfig(t)
	o := testOptions(&fakeSource{tasks: testutil.SampleTasks()}, nil)

	out, err := execute(t, o, "calendar", "--month", "2024-03", "--config", path)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	for _, want := range []string{"March 2024", "Sun", "Fri Mar 15", "Submit assignment", "Book tickets"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Read chapter 4") {
		t.Error("April task listed in March")
	}
}

func TestCalendarCommandRejectsBadMonth(t *testing.T) {
	path := writeConfig(t)
	o := testOptions(&fakeSource{}, nil)

	if _, err := execute(t, o, "calendar", "--month", "March", "--config", path); err == nil {
		t.Fatal("expected an error for a malformed --month")
	}
}

func TestSummaryCommand(t *testing.T) {
	path := writeConfig(t)
	comp := &aitest.Completer{Reply: "Proceed"}
	o := testOptions(&fakeSource{tasks: testutil.SampleTasks()}, comp)

	out, err := execute(t, o, "summary", "t1", "--config", path)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, "Proceed") {
		t.Errorf("summary output = %q, want the model text", out)
	}
	if prompts := comp.Prompts(); len(prompts) != 1 || !strings.Contains(prompts[0], "Submit assignment") {
		t.Errorf("prompts = %q, want one prompt about the task", prompts)
	}

	if _, err := execute(t, o, "summary", "nope", "--config", path); err == nil {
		t.Error("expected an error for an unknown task id")
	}
}

func TestChatCommand(t *testing.T) {
	path := writeConfig(t)
	comp := &aitest.Completer{Reply: "Proceed"}
	o := testOptions(&fakeSource{tasks: testutil.SampleTasks()}, comp)

	out, err := execute(t, o, "chat", "t1", "what", "first?", "--config", path)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(out, "Proceed") {
		t.Errorf("chat output = %q, want the reply", out)
	}
	reqs := comp.Requests()
	if len(reqs) != 1 || reqs[0].Message != "what first?" {
		t.Errorf("requests = %+v, want the joined question", reqs)
	}
}

func TestTimerCommand(t *testing.T) {
	path := writeConfig(t)
	o := testOptions(&fakeSource{}, nil)

	out, err := execute(t, o, "timer", "start", "--config", path)
	if err != nil {
		t.Fatalf("timer start: %v", err)
	}
	if !strings.Contains(out, "00:00:00 running") {
		t.Errorf("timer start output = %q", out)
	}

	out, err = execute(t, o, "timer", "--config", path)
	if err != nil {
		t.Fatalf("timer status: %v", err)
	}
	if !strings.Contains(out, "running") {
		t.Errorf("state not persisted between runs: %q", out)
	}

	out, err = execute(t, o, "timer", "reset", "--config", path)
	if err != nil {
		t.Fatalf("timer reset: %v", err)
	}
	if !strings.Contains(out, "00:00:00 stopped") {
		t.Errorf("timer reset output = %q", out)
	}

	if _, err := execute(t, o, "timer", "rewind", "--config", path); err == nil {
		t.Error("expected an error for an unknown action")
	}
}
