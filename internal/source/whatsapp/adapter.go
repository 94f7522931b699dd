package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/whatsboard/internal/linkref"
	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/source"
)

const (
	tasksPath    = "/tasks"
	messagesPath = "/messages/important"
)

// recordNamespace seeds name-based UUIDs for records that arrive without an id.
var recordNamespace = uuid.MustParse("6f1c1f8e-0b5e-4a43-9d8e-2f7f3c9a4b11")

// Adapter implements source.TaskSource and source.MessageSource on top of
// the message analyser's HTTP API. Records are validated here; anything
// that cannot become a model.Task is dropped and logged.
type Adapter struct {
	client *Client
	logger *slog.Logger
}

// NewAdapter creates a new analyser source adapter.
func NewAdapter(baseURL, token string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		client: NewClient(baseURL, token),
		logger: logger,
	}
}

// Type returns the source type identifier.
func (a *Adapter) Type() source.SourceType {
	return source.SourceTypeWhatsApp
}

// FetchTasks retrieves and validates the current task list.
func (a *Adapter) FetchTasks(ctx context.Context) ([]model.Task, error) {
	body, err := a.client.Get(ctx, tasksPath)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}

	var records []json.RawMessage
	if err := decodeList(body, "tasks", &records); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(records))
	for i, raw := range records {
		var rec TaskRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			a.logger.Debug("dropping task record", "index", i, "error", err)
			continue
		}
		task, err := recordToTask(rec)
		if err != nil {
			a.logger.Debug("dropping task record", "index", i, "error", err)
			continue
		}
		tasks = append(tasks, task)
	}
	if dropped := len(records) - len(tasks); dropped > 0 {
		a.logger.Warn("invalid task records dropped", "count", dropped)
	}

	return tasks, nil
}

// FetchImportantMessages retrieves the current important-message list.
func (a *Adapter) FetchImportantMessages(ctx context.Context) ([]model.Message, error) {
	body, err := a.client.Get(ctx, messagesPath)
	if err != nil {
		return nil, fmt.Errorf("fetching important messages: %w", err)
	}

	var records []json.RawMessage
	if err := decodeList(body, "messages", &records); err != nil {
		return nil, fmt.Errorf("decoding important messages: %w", err)
	}

	msgs := make([]model.Message, 0, len(records))
	for i, raw := range records {
		var rec MessageRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			a.logger.Debug("dropping message record", "index", i, "error", err)
			continue
		}
		msgs = append(msgs, recordToMessage(rec))
	}
	if dropped := len(records) - len(msgs); dropped > 0 {
		a.logger.Warn("invalid message records dropped", "count", dropped)
	}
	return msgs, nil
}

// decodeList accepts either a bare JSON array or an object wrapping the
// array under key.
func decodeList(body json.RawMessage, key string, out interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty response")
	}

	switch trimmed[0] {
	case '[':
		return json.Unmarshal(trimmed, out)
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}
		inner, ok := envelope[key]
		if !ok {
			return fmt.Errorf("object response without %q field", key)
		}
		return decodeList(inner, key, out)
	default:
		return fmt.Errorf("expected JSON array, got %q", string(trimmed[:1]))
	}
}

// recordToTask validates a raw record and converts it to a model.Task.
func recordToTask(rec TaskRecord) (model.Task, error) {
	title := strings.TrimSpace(rec.Task)
	if title == "" {
		return model.Task{}, fmt.Errorf("record %q has no task text", rec.ID)
	}

	created := parseTimestamp(rec.Timestamp)

	id := strings.TrimSpace(rec.ID.String())
	if id == "" {
		name := title + "\x00" + rec.Snippet + "\x00" + string(bytes.TrimSpace(rec.Timestamp))
		id = uuid.NewSHA1(recordNamespace, []byte(name)).String()
	}

	return model.Task{
		ID:        id,
		Title:     title,
		Snippet:   rec.Snippet,
		Priority:  model.ParsePriority(rec.Priority),
		Category:  strings.TrimSpace(rec.Category),
		Deadline:  parseDeadline(rec.Deadline),
		Time:      strings.TrimSpace(rec.Time),
		From:      rec.From,
		IsGroup:   rec.IsGroup,
		Completed: rec.Completed,
		Reminded:  rec.Reminded,
		CreatedAt: created,
		Links:     taskLinks(rec),
	}, nil
}

// taskLinks keeps the analyser's links when it sent any and otherwise
// falls back to URLs found in the snippet.
func taskLinks(rec TaskRecord) []string {
	if links := linkref.Merge(rec.Links); len(links) > 0 {
		return links
	}
	return linkref.ExtractURLs(rec.Snippet)
}

func recordToMessage(rec MessageRecord) model.Message {
	body := rec.Body
	if body == "" {
		body = rec.Text
	}
	if body == "" {
		body = rec.Snippet
	}

	id := rec.ID.String()
	if id == "" {
		name := rec.From + "\x00" + body + "\x00" + string(bytes.TrimSpace(rec.Timestamp))
		id = uuid.NewSHA1(recordNamespace, []byte(name)).String()
	}

	return model.Message{
		ID:         id,
		From:       rec.From,
		Body:       body,
		ReceivedAt: parseTimestamp(rec.Timestamp),
	}
}

// parseDeadline converts the analyser's deadline into local midnight of the
// stated calendar day. Accepts "2006-01-02" and RFC 3339; anything else
// yields the zero time (no deadline).
func parseDeadline(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
		}
	}

	return time.Time{}
}

// parseTimestamp accepts an RFC 3339 string, a numeric string, or a JSON
// number of epoch milliseconds.
func parseTimestamp(raw json.RawMessage) time.Time {
	s, millis, ok := rawTimestamp(raw)
	if !ok {
		return time.Time{}
	}
	if s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}
		}
		millis = n
	}
	if millis <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(millis)
}
