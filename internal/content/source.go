// Package content fetches and parses the stored practice documents.
package content

import (
	"context"
	"errors"

	"github.com/certempire/certportal/internal/practice"
)

var (
	// ErrNotFound means no file row exists for the identifier.
	ErrNotFound = errors.New("file not found")
	// ErrNoData means the row exists but its parsed payload deviates from
	// the expected shape (missing topics, non-object). Callers render a
	// terminal empty state, never a crash.
	ErrNoData = errors.New("no question data for this file")
)

type Source interface {
	Fetch(ctx context.Context, fileID string) (practice.ContentDocument, error)
}
