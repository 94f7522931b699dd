package ai

import (
	"context"
	"errors"
)

// Role identifies the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat transcript.
type Message struct {
	Role    Role
	Content string
}

// ChatRequest is one chat turn: the transcript so far, the new user
// message, and an optional system instruction.
type ChatRequest struct {
	System  string
	History []Message
	Message string
}

// Generator produces a single completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Conversation produces the assistant's reply to a chat turn.
type Conversation interface {
	Converse(ctx context.Context, req ChatRequest) (string, error)
}

// Completer is a text-completion service usable for both summaries and
// chat.
type Completer interface {
	Generator
	Conversation
}

// ErrEmptyResponse is returned when the service answers with no text.
var ErrEmptyResponse = errors.New("empty response from model")

// trimLeadingAssistant drops assistant turns before the first user turn.
// Both supported services require a conversation to open with the user.
func trimLeadingAssistant(history []Message) []Message {
	for i, m := range history {
		if m.Role == RoleUser {
			return history[i:]
		}
	}
	return nil
}
