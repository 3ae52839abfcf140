package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"traintrace/internal/services/verification"
)

// Verify is public. A lookup failure still answers {"valid": false}, with
// a 500 status.
func Verify(v *verification.Verifier, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		res, err := v.Verify(r.Context(), id)
		if err != nil {
			lg.Errorw("verification lookup failed", "id", id, "error", err)
			respondStatus(w, http.StatusInternalServerError, verification.Result{})
			return
		}
		respondJSON(w, res)
	}
}
