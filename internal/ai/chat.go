package ai

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/whatsboard/internal/model"
)

// Request is a chat turn in flight. It carries the session identity so a
// reply arriving after the session was reset can be recognised.
type Request struct {
	SessionID string
	Chat      ChatRequest
}

// Session is the chat transcript for one task. It starts with the
// greeting and allows one request in flight at a time.
//
// A turn is Submit (append the user message, mark pending), Complete
// (call the service, safe to run off the UI goroutine), then Resolve
// (append the reply, clear pending). Send does all three.
type Session struct {
	mu       sync.Mutex
	id       string
	task     model.Task
	messages []Message
	pending  bool

	conv    Conversation
	logger  *slog.Logger
	timeout time.Duration
}

// NewSession creates a session for task t seeded with the greeting.
func NewSession(t model.Task, conv Conversation, logger *slog.Logger, timeout time.Duration) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{conv: conv, logger: logger, timeout: timeout}
	s.reset(t)
	return s
}

func (s *Session) reset(t model.Task) {
	s.id = uuid.NewString()
	s.task = t
	s.messages = []Message{{Role: RoleAssistant, Content: Greeting}}
	s.pending = false
}

// Reset starts over for task t. Any reply still in flight for the old
// transcript is discarded when it resolves.
func (s *Session) Reset(t model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(t)
}

// ID identifies the current transcript. It changes on Reset.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Task returns the task the session is about.
func (s *Session) Task() model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Message, len(s.messages))
	copy(result, s.messages)
	return result
}

// Len returns the number of messages in the transcript.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Pending reports whether a reply is awaited.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Submit appends the user's message and marks the session pending. It
// returns false, changing nothing, if text is blank or a reply is
// already pending.
func (s *Session) Submit(text string) (Request, bool) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if text == "" || s.pending {
		return Request{}, false
	}

	history := make([]Message, len(s.messages))
	copy(history, s.messages)

	s.messages = append(s.messages, Message{Role: RoleUser, Content: text})
	s.pending = true

	return Request{
		SessionID: s.id,
		Chat: ChatRequest{
			System:  ChatSystemPrompt(s.task),
			History: history,
			Message: text,
		},
	}, true
}

// Complete asks the service for a reply to req. Failures are logged and
// yield FallbackReply. It does not touch the transcript.
func (s *Session) Complete(ctx context.Context, req Request) string {
	if s.conv == nil {
		return FallbackReply
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.conv.Converse(ctx, req.Chat)
	if err != nil {
		s.logger.Warn("chat reply failed", "session", req.SessionID, "error", err)
		return FallbackReply
	}
	return reply
}

// Resolve appends the assistant reply for req and clears pending. It
// returns false if the session was reset since req was submitted.
func (s *Session) Resolve(req Request, reply string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.SessionID != s.id || !s.pending {
		return false
	}
	s.messages = append(s.messages, Message{Role: RoleAssistant, Content: reply})
	s.pending = false
	return true
}

// Send runs a whole turn synchronously. It returns false if the message
// was ignored.
func (s *Session) Send(ctx context.Context, text string) bool {
	req, ok := s.Submit(text)
	if !ok {
		return false
	}
	s.Resolve(req, s.Complete(ctx, req))
	return true
}
