package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"traintrace/internal/services/roster"
)

// UploadRoster takes a multipart form with "file" and "training_id". The
// whole file is read into memory, bounded by maxBytes.
func UploadRoster(imp *roster.Importer, maxBytes int64, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondMessage(w, http.StatusRequestEntityTooLarge, "File is too large")
				return
			}
			respondMessage(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer file.Close()

		trainingID := strings.TrimSpace(r.FormValue("training_id"))
		if trainingID == "" {
			respondMessage(w, http.StatusBadRequest, "Training ID is required")
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, lg, "Upload", err)
			return
		}
		res, err := imp.Import(r.Context(), data, trainingID)
		if err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		lg.Infow("roster imported",
			"training_id", trainingID, "file", header.Filename,
			"imported", res.Imported, "failed", res.Failed)
		respondJSON(w, struct {
			Success bool `json:"success"`
			*roster.Result
		}{true, res})
	}
}

func RosterTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="trainees-template.csv"`)
		_, _ = w.Write(roster.Template())
	}
}
