package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/whatsboard/internal/model"
)

// AuthError indicates that authentication has failed or expired for a source.
// It is returned by source clients when a 401 response or a rejected login
// is received.
type AuthError struct {
	SourceType SourceType
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.SourceType, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// SourceType identifies the kind of external collaborator.
type SourceType string

const (
	SourceTypeWhatsApp SourceType = "whatsapp"
	SourceTypeEmail    SourceType = "email"
)

// TaskSource returns the current list of tasks extracted from messages.
// Implementations return the full list on every call; there is no paging.
type TaskSource interface {
	FetchTasks(ctx context.Context) ([]model.Task, error)
}

// MessageSource returns the current list of important messages.
type MessageSource interface {
	FetchImportantMessages(ctx context.Context) ([]model.Message, error)
}
