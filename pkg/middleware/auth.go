package middleware

import (
	"net/http"
	"strings"

	"github.com/kdiomande/maillots/pkg/auth"
	"github.com/kdiomande/maillots/pkg/response"
)

// Auth guards admin routes. A missing or malformed Authorization header is
// distinguished from a token that fails signature or expiry checks, matching
// the wire contract of the storefront admin panel.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Error(w, http.StatusUnauthorized, "Token manquant")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if _, err := auth.ValidateToken(token); err != nil {
			response.Error(w, http.StatusUnauthorized, "Token invalide")
			return
		}

		next.ServeHTTP(w, r)
	})
}
