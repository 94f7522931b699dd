package model

import "time"

// Notification flags a task that appeared for the first time in a refresh.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// TaskID links this notification to the task that triggered it.
	TaskID string `json:"task_id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Read indicates whether the user has opened the task since.
	Read bool `json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
