package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/nhle/whatsboard/internal/model"
)

// Summarizer produces a markdown brief for a task. It never fails: any
// error from the service is logged and replaced with FallbackSummary.
type Summarizer struct {
	gen     Generator
	logger  *slog.Logger
	timeout time.Duration
}

// NewSummarizer wraps gen. A zero timeout leaves calls unbounded.
func NewSummarizer(gen Generator, logger *slog.Logger, timeout time.Duration) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{gen: gen, logger: logger, timeout: timeout}
}

// Summarize returns the raw model text for t, or FallbackSummary.
func (s *Summarizer) Summarize(ctx context.Context, t model.Task) string {
	if s.gen == nil {
		return FallbackSummary
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.gen.Generate(ctx, SummaryPrompt(t))
	if err != nil {
		s.logger.Warn("task summary failed", "task", t.ID, "error", err)
		return FallbackSummary
	}
	return text
}
