package model

import "time"

// Message is an important message surfaced by the message analyser. The
// dashboard only counts them; the fields are kept for the cache and CLI.
type Message struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"timestamp"`
}

// Snapshot is the result of one successful refresh: every task and
// message the collaborators returned, in fetch order.
type Snapshot struct {
	Tasks     []Task    `json:"tasks"`
	Messages  []Message `json:"messages"`
	FetchedAt time.Time `json:"fetched_at"`
}
