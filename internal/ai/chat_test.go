package ai_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nhle/whatsboard/internal/ai"
	"github.com/nhle/whatsboard/internal/ai/aitest"
	"github.com/nhle/whatsboard/internal/model"
)

func TestNewSessionSeededWithGreeting(t *testing.T) {
	s := ai.NewSession(sampleTask(), &aitest.Completer{}, discard, 0)

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Role != ai.RoleAssistant || msgs[0].Content != ai.Greeting {
		t.Fatalf("Messages() = %+v, want greeting only", msgs)
	}
	if s.Pending() {
		t.Fatal("new session should not be pending")
	}
}

func TestSendBlankIsNoop(t *testing.T) {
	c := &aitest.Completer{Reply: "hi"}
	s := ai.NewSession(sampleTask(), c, discard, 0)

	for _, text := range []string{"", "   ", "\n\t"} {
		if s.Send(context.Background(), text) {
			t.Errorf("Send(%q) accepted", text)
		}
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if len(c.Requests()) != 0 {
		t.Fatal("blank text must not reach the service")
	}
}

func TestTurnAppendsUserThenAssistant(t *testing.T) {
	c := &aitest.Completer{Reply: "Kal 5 baje tak 🕔"}
	s := ai.NewSession(sampleTask(), c, discard, 0)

	req, ok := s.Submit("Kab deadline hai?")
	if !ok {
		t.Fatal("Submit rejected")
	}
	msgs := s.Messages()
	if len(msgs) != 2 || msgs[1].Role != ai.RoleUser || msgs[1].Content != "Kab deadline hai?" {
		t.Fatalf("after Submit: %+v", msgs)
	}
	if !s.Pending() {
		t.Fatal("session should be pending after Submit")
	}

	if _, ok := s.Submit("aur kuch?"); ok {
		t.Fatal("second Submit while pending must be ignored")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d after ignored submit, want 2", s.Len())
	}

	reply := s.Complete(context.Background(), req)
	if s.Len() != 2 {
		t.Fatal("Complete must not touch the transcript")
	}
	if !s.Resolve(req, reply) {
		t.Fatal("Resolve rejected")
	}

	msgs = s.Messages()
	if len(msgs) != 3 || msgs[2].Role != ai.RoleAssistant || msgs[2].Content != c.Reply {
		t.Fatalf("after Resolve: %+v", msgs)
	}
	if s.Pending() {
		t.Fatal("pending should clear after Resolve")
	}

	reqs := c.Requests()
	if len(reqs) != 1 {
		t.Fatalf("got %d requests, want 1", len(reqs))
	}
	if len(reqs[0].History) != 1 || reqs[0].History[0].Content != ai.Greeting {
		t.Errorf("history = %+v, want greeting", reqs[0].History)
	}
	if reqs[0].Message != "Kab deadline hai?" {
		t.Errorf("message = %q", reqs[0].Message)
	}
	if !strings.Contains(reqs[0].System, "Hinglish") || !strings.Contains(reqs[0].System, "Submit assignment") {
		t.Errorf("system prompt = %q", reqs[0].System)
	}
}

func TestSendForwardsFullTranscript(t *testing.T) {
	c := &aitest.Completer{Reply: "ok"}
	s := ai.NewSession(sampleTask(), c, discard, 0)

	s.Send(context.Background(), "pehla sawaal")
	s.Send(context.Background(), "doosra sawaal")

	reqs := c.Requests()
	if len(reqs) != 2 {
		t.Fatalf("got %d requests, want 2", len(reqs))
	}
	if got := len(reqs[1].History); got != 3 {
		t.Fatalf("second turn history has %d messages, want 3", got)
	}
	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}
}

func TestSendFailureAppendsFallback(t *testing.T) {
	c := &aitest.Completer{Err: errors.New("503")}
	s := ai.NewSession(sampleTask(), c, discard, 0)

	if !s.Send(context.Background(), "hello") {
		t.Fatal("Send rejected")
	}
	msgs := s.Messages()
	if len(msgs) != 3 || msgs[2].Content != ai.FallbackReply || msgs[2].Role != ai.RoleAssistant {
		t.Fatalf("Messages() = %+v", msgs)
	}
	if s.Pending() {
		t.Fatal("pending should clear after a failed turn")
	}
}

func TestResetForOtherTaskDropsTranscriptAndLateReply(t *testing.T) {
	c := &aitest.Completer{Reply: "late"}
	s := ai.NewSession(sampleTask(), c, discard, 0)
	s.Send(context.Background(), "first")

	req, _ := s.Submit("second")
	oldID := s.ID()

	other := model.Task{ID: "t2", Title: "Pay rent"}
	s.Reset(other)

	if s.ID() == oldID {
		t.Fatal("Reset should issue a new session id")
	}
	if s.Task().ID != "t2" {
		t.Fatalf("Task() = %q, want t2", s.Task().ID)
	}
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Content != ai.Greeting {
		t.Fatalf("after Reset: %+v", msgs)
	}
	if s.Pending() {
		t.Fatal("Reset should clear pending")
	}

	if s.Resolve(req, "late") {
		t.Fatal("reply for the previous transcript must be dropped")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}
