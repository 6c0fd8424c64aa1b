// Package auth mirrors the WordPress login into a portal session. The
// storefront redirects with a short-lived signed token in the URL; the
// gateway exchanges it for a portal JWT that the SPA holds for the
// session.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AuthService struct {
	hmac     []byte // portal session tokens
	wpSecret []byte // tokens minted by the WordPress login plugin
}

func NewAuthService(secret, wpSecret string) *AuthService {
	return &AuthService{hmac: []byte(secret), wpSecret: []byte(wpSecret)}
}

type Claims struct {
	Sub   string `json:"sub"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(sub, email, name string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:   sub,
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "certportal",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	return a.parseWith(tokenStr, a.hmac)
}

// ParseURLToken validates the token WordPress appended to the redirect URL.
func (a *AuthService) ParseURLToken(tokenStr string) (*Claims, error) {
	return a.parseWith(tokenStr, a.wpSecret)
}

func (a *AuthService) parseWith(tokenStr string, key []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	c, ok := token.Claims.(*Claims)
	if !ok || c.Sub == "" {
		return nil, errors.New("invalid token claims")
	}
	return c, nil
}

// POST /auth/session  { "token": "<url token from WordPress>" }
func ExchangeHandler(a *AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			http.Error(w, "token required", http.StatusBadRequest)
			return
		}
		c, err := a.ParseURLToken(req.Token)
		if err != nil {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		tok, err := a.IssueJWT(c.Sub, c.Email, c.Name)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": tok,
			"user_id":      c.Sub,
			"email":        c.Email,
			"name":         c.Name,
		})
	}
}
