package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"traintrace/internal/auth"
	"traintrace/internal/validation"
)

func Login(creds *auth.Verifier, codec auth.Codec, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Missing or empty fields are just wrong credentials.
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := validation.DecodeJSON(r.Body, &req); err != nil {
			writeError(w, lg, "Credentials", err)
			return
		}
		if !creds.Verify(req.Username, req.Password) {
			lg.Infow("login rejected", "remote", r.RemoteAddr)
			respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		cookie, err := codec.Issue(r.Context())
		if err != nil {
			writeError(w, lg, "Session", err)
			return
		}
		http.SetCookie(w, cookie)
		success(w)
	}
}

// Logout expires the cookie even when the server-side session could not be
// revoked, but then answers 500 so the client does not assume it is gone.
func Logout(codec auth.Codec, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := codec.Clear(r)
		http.SetCookie(w, cookie)
		if err != nil {
			writeError(w, lg, "Session", err)
			return
		}
		success(w)
	}
}

func AuthStatus(codec auth.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]bool{"isAuthenticated": codec.Check(r)})
	}
}
