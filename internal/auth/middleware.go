package auth

import (
	"encoding/json"
	"net/http"
)

// RequireSession rejects requests without a valid session before they reach
// the wrapped handler.
func RequireSession(codec Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !codec.Check(r) {
				Unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), Claims{IsAuthenticated: true})))
		})
	}
}

// Unauthorized writes the bare 401 body. It never says why.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
}
