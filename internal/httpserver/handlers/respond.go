package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"traintrace/internal/auth"
	"traintrace/internal/services/certificate"
	"traintrace/internal/services/roster"
	"traintrace/internal/store"
	"traintrace/internal/validation"
)

type errorBody struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, v interface{}) {
	respondStatus(w, http.StatusOK, v)
}

func respondStatus(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func respondMessage(w http.ResponseWriter, code int, msg string) {
	respondStatus(w, code, errorBody{Message: msg})
}

// writeError maps err onto the nearest status class. subject names the
// entity in 404 messages. Only 500s are logged; their cause stays in the log.
func writeError(w http.ResponseWriter, lg *zap.SugaredLogger, subject string, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		respondStatus(w, http.StatusBadRequest, errorBody{Message: verrs.Error(), Errors: verrs})
	case errors.Is(err, auth.ErrUnauthorized):
		auth.Unauthorized(w)
	case errors.Is(err, store.ErrNotFound):
		respondMessage(w, http.StatusNotFound, subject+" not found")
	case errors.Is(err, store.ErrDuplicateEmail):
		respondMessage(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, certificate.ErrUnsupportedText):
		respondMessage(w, http.StatusBadRequest, "Name contains characters the certificate cannot print")
	case errors.Is(err, roster.ErrUnreadable):
		respondMessage(w, http.StatusBadRequest, "Could not read the uploaded spreadsheet")
	default:
		lg.Errorw("request failed", "subject", subject, "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

func success(w http.ResponseWriter) {
	respondJSON(w, map[string]bool{"success": true})
}
