package whatsapp

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// TaskRecord is a task as served by GET /tasks. Field names follow the
// analyser's JSON; every field is optional on the wire.
type TaskRecord struct {
	ID        flexString      `json:"id"`
	Task      string          `json:"task"`
	Snippet   string          `json:"snippet"`
	Priority  string          `json:"priority"`
	Category  string          `json:"category"`
	Deadline  string          `json:"deadline"`
	Time      string          `json:"time"`
	From      string          `json:"from"`
	IsGroup   bool            `json:"isGroup"`
	Completed bool            `json:"completed"`
	Reminded  bool            `json:"reminded"`
	Timestamp json.RawMessage `json:"timestamp"`
	Links     []string        `json:"links"`
}

// MessageRecord is an important message as served by GET /messages/important.
type MessageRecord struct {
	ID        flexString      `json:"id"`
	From      string          `json:"from"`
	Body      string          `json:"body"`
	Text      string          `json:"text"`
	Snippet   string          `json:"snippet"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// ErrorResponse is the analyser's error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// flexString accepts either a JSON string or a JSON number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string {
	return string(f)
}

// rawTimestamp returns the timestamp as a string or as epoch milliseconds.
func rawTimestamp(raw json.RawMessage) (s string, millis int64, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", 0, false
	}
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", 0, false
		}
		return s, 0, true
	}
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return "", 0, false
	}
	return "", int64(n), true
}
