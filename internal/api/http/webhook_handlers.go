package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/certempire/certportal/internal/purchases"

	"golang.org/x/crypto/bcrypt"
)

// POST /webhooks/purchase  { "email": "...", "file_id": "..." }
// Called by the storefront on order completion. Authenticated with a
// shared secret in X-Webhook-Secret, checked against a bcrypt hash so the
// plaintext never lives in the portal's config.
func PurchaseWebhookHandler(store *purchases.Store, secretHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if secretHash == "" {
			http.Error(w, "webhook disabled", http.StatusForbidden)
			return
		}
		secret := r.Header.Get("X-Webhook-Secret")
		if bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)) != nil {
			http.Error(w, "bad secret", http.StatusUnauthorized)
			return
		}
		var req struct {
			Email  string `json:"email"`
			FileID string `json:"file_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.FileID == "" {
			http.Error(w, "missing customer email or file ID", http.StatusBadRequest)
			return
		}
		if err := store.Record(r.Context(), req.Email, req.FileID); err != nil {
			if errors.Is(err, purchases.ErrUserNotFound) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "could not record purchase", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "purchase recorded"})
	}
}
