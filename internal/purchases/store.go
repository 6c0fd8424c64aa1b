// Package purchases records which practice files a customer owns.
package purchases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// PurchasedFile is one entitlement row joined to its file, as shown on
// the downloads page.
type PurchasedFile struct {
	FileID      string `json:"file_id"`
	FileName    string `json:"filename"`
	PurchasedAt int64  `json:"purchased_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record grants a file to the user owning the given email. The commerce
// webhook only knows the purchaser's email, so the user id is looked up
// here.
func (s *Store) Record(ctx context.Context, email, fileID string) error {
	var userID string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE email=$1`, email).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO user_purchases (id, user_id, file_id, purchased_at)
		VALUES ($1,$2,$3,$4)`,
		uuid.NewString(), userID, fileID, time.Now().Unix())
	return err
}

// ListForUser returns the user's purchased files, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]PurchasedFile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT p.file_id, f.filename, p.purchased_at
		FROM user_purchases p
		JOIN files f ON f.id = p.file_id
		WHERE p.user_id=$1
		ORDER BY p.purchased_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PurchasedFile{}
	for rows.Next() {
		var pf PurchasedFile
		if err := rows.Scan(&pf.FileID, &pf.FileName, &pf.PurchasedAt); err != nil {
			return nil, err
		}
		out = append(out, pf)
	}
	return out, rows.Err()
}
