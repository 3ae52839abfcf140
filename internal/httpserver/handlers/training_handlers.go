package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"traintrace/internal/models"
	"traintrace/internal/store"
	"traintrace/internal/validation"
)

func ListTrainings(repo store.TrainingRepository, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := repo.ListTrainings(r.Context())
		if err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		if ts == nil {
			ts = []models.Training{}
		}
		respondJSON(w, ts)
	}
}

func GetTraining(repo store.TrainingRepository, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := repo.GetTraining(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		respondJSON(w, t)
	}
}

func CreateTraining(repo store.TrainingRepository, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string  `json:"name" validate:"required,max=255"`
			Description *string `json:"description"`
			Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
			Duration    *string `json:"duration" validate:"omitempty,max=100"`
		}
		if err := validation.DecodeJSON(r.Body, &req); err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		date, err := models.ParseDate(req.Date)
		if err != nil {
			writeError(w, lg, "Training", validation.Errors{{Field: "date", Message: "Date must be in YYYY-MM-DD format"}})
			return
		}
		t := &models.Training{Name: req.Name, Description: req.Description, Date: date, Duration: req.Duration}
		if err := repo.CreateTraining(r.Context(), t); err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		respondStatus(w, http.StatusCreated, t)
	}
}

func UpdateTraining(repo store.TrainingRepository, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
			Description *string `json:"description"`
			Date        *string `json:"date" validate:"omitnil,datetime=2006-01-02"`
			Duration    *string `json:"duration" validate:"omitnil,max=100"`
		}
		if err := validation.DecodeJSON(r.Body, &req); err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		patch := store.TrainingPatch{Name: req.Name, Description: req.Description, Duration: req.Duration}
		if req.Date != nil {
			d, err := models.ParseDate(*req.Date)
			if err != nil {
				writeError(w, lg, "Training", validation.Errors{{Field: "date", Message: "Date must be in YYYY-MM-DD format"}})
				return
			}
			patch.Date = &d
		}
		t, err := repo.UpdateTraining(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		respondJSON(w, t)
	}
}

// DeleteTraining also removes every trainee enrolled in it.
func DeleteTraining(repo store.TrainingRepository, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := repo.GetTraining(r.Context(), id); err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		if err := repo.DeleteTraining(r.Context(), id); err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		lg.Infow("training deleted", "training_id", id)
		success(w)
	}
}

func ListTrainingTrainees(repo store.Repository, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := traineesOf(r, repo)
		if err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		respondJSON(w, ts)
	}
}

var exportHeader = []string{"Name", "Surname", "Email", "Phone", "Company", "Status", "Certificate ID"}

// ExportTrainees writes the training's roster as CSV.
func ExportTrainees(repo store.Repository, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := traineesOf(r, repo)
		if err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trainees-%s.csv"`, chi.URLParam(r, "id")))

		cw := csv.NewWriter(w)
		_ = cw.Write(exportHeader)
		for _, t := range ts {
			_ = cw.Write([]string{
				t.Name, t.Surname, t.Email, t.PhoneNumber,
				deref(t.CompanyName), string(t.Status), deref(t.CertificateID),
			})
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			lg.Errorw("export write failed", "error", err)
		}
	}
}

func traineesOf(r *http.Request, repo store.Repository) ([]models.Trainee, error) {
	id := chi.URLParam(r, "id")
	if _, err := repo.GetTraining(r.Context(), id); err != nil {
		return nil, err
	}
	ts, err := repo.ListTraineesByTraining(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		ts = []models.Trainee{}
	}
	return ts, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
