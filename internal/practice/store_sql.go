package practice

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) UpsertCheckpoint(ctx context.Context, cp Checkpoint) error {
	at := cp.UpdatedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO practice_progress
		(user_id, file_id, product_name, last_viewed_question_index, total_questions, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id, file_id) DO UPDATE SET
			product_name=EXCLUDED.product_name,
			last_viewed_question_index=EXCLUDED.last_viewed_question_index,
			total_questions=EXCLUDED.total_questions,
			updated_at=EXCLUDED.updated_at`,
		cp.UserID, cp.FileID, cp.ProductName, cp.LastViewedQuestionIndex, cp.TotalQuestions, at.Unix())
	return err
}

func (s *SQLStore) GetCheckpoint(ctx context.Context, userID, fileID string) (Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, `SELECT user_id, file_id, product_name, last_viewed_question_index, total_questions, updated_at
		FROM practice_progress WHERE user_id=$1 AND file_id=$2`, userID, fileID)
	return scanCheckpoint(row)
}

func (s *SQLStore) LatestCheckpoint(ctx context.Context, userID string) (Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, `SELECT user_id, file_id, product_name, last_viewed_question_index, total_questions, updated_at
		FROM practice_progress WHERE user_id=$1 ORDER BY updated_at DESC LIMIT 1`, userID)
	return scanCheckpoint(row)
}

func scanCheckpoint(row *sql.Row) (Checkpoint, error) {
	var cp Checkpoint
	var at int64
	err := row.Scan(&cp.UserID, &cp.FileID, &cp.ProductName, &cp.LastViewedQuestionIndex, &cp.TotalQuestions, &at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Checkpoint{}, ErrNoCheckpoint
		}
		return Checkpoint{}, err
	}
	cp.UpdatedAt = time.Unix(at, 0)
	return cp, nil
}
