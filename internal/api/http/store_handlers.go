package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/certempire/certportal/internal/auth"
	"github.com/certempire/certportal/internal/commerce"

	"github.com/go-chi/chi/v5"
)

func writeProxied(w http.ResponseWriter, raw json.RawMessage, err error) {
	if err != nil {
		var apiErr *commerce.APIError
		if errors.As(err, &apiErr) {
			http.Error(w, "upstream store error", http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

// GET /store/orders
func ListOrdersHandler(client *commerce.Client, site string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		raw, err := client.Orders(r.Context(), site, userID)
		writeProxied(w, raw, err)
	}
}

// GET /store/orders/{orderID}
func GetOrderHandler(client *commerce.Client, site string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := client.Order(r.Context(), site, chi.URLParam(r, "orderID"))
		writeProxied(w, raw, err)
	}
}

// GET /store/downloads
func ListDownloadsHandler(client *commerce.Client, site string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		raw, err := client.Downloads(r.Context(), site, userID)
		writeProxied(w, raw, err)
	}
}

// GET /store/customer — billing/shipping addresses and account fields.
func GetCustomerHandler(client *commerce.Client, site string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		raw, err := client.Customer(r.Context(), site, userID)
		writeProxied(w, raw, err)
	}
}

// PUT /store/customer
func UpdateCustomerHandler(client *commerce.Client, site string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		var fields map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		raw, err := client.UpdateCustomer(r.Context(), site, userID, fields)
		writeProxied(w, raw, err)
	}
}

// POST /store/customer/password
func SetPasswordHandler(client *commerce.Client, site string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.NewPassword == "" {
			http.Error(w, "new_password required", http.StatusBadRequest)
			return
		}
		raw, err := client.SetPassword(r.Context(), site, map[string]interface{}{
			"customer":         userID,
			"current_password": req.CurrentPassword,
			"new_password":     req.NewPassword,
		})
		writeProxied(w, raw, err)
	}
}
