// Package aitest provides a scripted ai.Completer for tests.
package aitest

import (
	"context"
	"sync"

	"github.com/nhle/whatsboard/internal/ai"
)

// Completer returns Reply (or Err) for every call and records what it
// was asked. If Gate is non-nil each call waits for a value on it.
type Completer struct {
	Reply string
	Err   error
	Gate  chan struct{}

	mu       sync.Mutex
	prompts  []string
	requests []ai.ChatRequest
}

var _ ai.Completer = (*Completer)(nil)

// Generate records prompt and returns the scripted answer.
func (c *Completer) Generate(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()
	return c.answer(ctx)
}

// Converse records req and returns the scripted answer.
func (c *Completer) Converse(ctx context.Context, req ai.ChatRequest) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	return c.answer(ctx)
}

func (c *Completer) answer(ctx context.Context) (string, error) {
	if c.Gate != nil {
		select {
		case <-c.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if c.Err != nil {
		return "", c.Err
	}
	return c.Reply, nil
}

// Prompts returns the prompts passed to Generate.
func (c *Completer) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}

// Requests returns the requests passed to Converse.
func (c *Completer) Requests() []ai.ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ai.ChatRequest(nil), c.requests...)
}
