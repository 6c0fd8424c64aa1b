package practice

import (
	"context"
	"errors"
	"time"
)

// ErrNoCheckpoint is returned when a user has no saved position for a file.
var ErrNoCheckpoint = errors.New("checkpoint not found")

// Checkpoint is the persisted last-viewed position for one (user, file)
// pair. One logical row per pair; upserts are last-write-wins.
type Checkpoint struct {
	UserID                  string    `json:"user_id"`
	FileID                  string    `json:"file_id"`
	ProductName             string    `json:"product_name"`
	LastViewedQuestionIndex int       `json:"last_viewed_question_index"`
	TotalQuestions          int       `json:"total_questions"`
	UpdatedAt               time.Time `json:"updated_at"`
}

type CheckpointStore interface {
	UpsertCheckpoint(ctx context.Context, cp Checkpoint) error
	GetCheckpoint(ctx context.Context, userID, fileID string) (Checkpoint, error)
	// LatestCheckpoint returns the most recently updated checkpoint across
	// all of a user's files; the dashboard resume card reads it.
	LatestCheckpoint(ctx context.Context, userID string) (Checkpoint, error)
}
