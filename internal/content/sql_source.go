package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/certempire/certportal/internal/practice"
)

// SQLSource reads practice files from the files table. The parsed_json
// column holds the parser output: {"result": {"topics": {...}}}.
type SQLSource struct {
	db *sql.DB
}

func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

func (s *SQLSource) Fetch(ctx context.Context, fileID string) (practice.ContentDocument, error) {
	row := s.db.QueryRowContext(ctx, `SELECT filename, parsed_json FROM files WHERE id=$1`, fileID)
	var filename, raw string
	if err := row.Scan(&filename, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return practice.ContentDocument{}, ErrNotFound
		}
		return practice.ContentDocument{}, err
	}
	return ParseDocument(filename, []byte(raw))
}

// ParseDocument decodes the stored parser payload into a ContentDocument.
// Shape deviations degrade to ErrNoData rather than a decode error.
func ParseDocument(filename string, raw []byte) (practice.ContentDocument, error) {
	var payload struct {
		Result struct {
			Topics practice.TopicList `json:"topics"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return practice.ContentDocument{}, ErrNoData
	}
	if len(payload.Result.Topics) == 0 {
		return practice.ContentDocument{}, ErrNoData
	}
	return practice.ContentDocument{FileName: filename, Topics: payload.Result.Topics}, nil
}
