package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/certempire/certportal/internal/auth"
	"github.com/certempire/certportal/internal/practice"

	"github.com/go-chi/chi/v5"
)

// GET /practice/files/{fileID}/progress
func GetProgressHandler(store practice.CheckpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		fileID := chi.URLParam(r, "fileID")
		cp, err := store.GetCheckpoint(r.Context(), userID, fileID)
		if err != nil {
			if errors.Is(err, practice.ErrNoCheckpoint) {
				http.Error(w, "no saved progress", http.StatusNotFound)
				return
			}
			http.Error(w, "progress lookup failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cp)
	}
}

// PUT /practice/files/{fileID}/progress
// The viewer flushes its debounced checkpoint here; the write is an
// upsert keyed (user, file), last-write-wins.
func PutProgressHandler(store practice.CheckpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		fileID := chi.URLParam(r, "fileID")
		var req struct {
			ProductName             string `json:"product_name"`
			LastViewedQuestionIndex int    `json:"last_viewed_question_index"`
			TotalQuestions          int    `json:"total_questions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.LastViewedQuestionIndex < 0 || req.TotalQuestions < 0 {
			http.Error(w, "index and total must be >= 0", http.StatusBadRequest)
			return
		}
		cp := practice.Checkpoint{
			UserID:                  userID,
			FileID:                  fileID,
			ProductName:             req.ProductName,
			LastViewedQuestionIndex: req.LastViewedQuestionIndex,
			TotalQuestions:          req.TotalQuestions,
		}
		if err := store.UpsertCheckpoint(r.Context(), cp); err != nil {
			http.Error(w, "progress save failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /practice/resume — latest checkpoint across files, for the
// dashboard "continue where you left off" card.
func ResumeHandler(store practice.CheckpointStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		cp, err := store.LatestCheckpoint(r.Context(), userID)
		if err != nil {
			if errors.Is(err, practice.ErrNoCheckpoint) {
				http.Error(w, "no saved progress", http.StatusNotFound)
				return
			}
			http.Error(w, "progress lookup failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cp)
	}
}
