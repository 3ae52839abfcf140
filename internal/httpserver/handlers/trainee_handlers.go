package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"traintrace/internal/models"
	"traintrace/internal/services/certificate"
	"traintrace/internal/services/trainees"
	"traintrace/internal/store"
	"traintrace/internal/validation"
)

func ListTrainees(repo store.TraineeRepository, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := repo.ListTrainees(r.Context())
		if err != nil {
			writeError(w, lg, "Trainee", err)
			return
		}
		if ts == nil {
			ts = []models.Trainee{}
		}
		respondJSON(w, ts)
	}
}

func GetTrainee(repo store.TraineeRepository, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := repo.GetTrainee(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, lg, "Trainee", err)
			return
		}
		respondJSON(w, t)
	}
}

func CreateTrainee(svc *trainees.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trainees.CreateInput
		if err := validation.DecodeJSON(r.Body, &req); err != nil {
			writeError(w, lg, "Trainee", err)
			return
		}
		t, err := svc.Create(r.Context(), req)
		if err != nil {
			writeError(w, lg, "Training", err)
			return
		}
		respondStatus(w, http.StatusCreated, t)
	}
}

func UpdateTrainee(svc *trainees.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req trainees.UpdateInput
		if err := validation.DecodeJSON(r.Body, &req); err != nil {
			writeError(w, lg, "Trainee", err)
			return
		}
		t, err := svc.Update(r.Context(), id, req)
		if err != nil {
			writeError(w, lg, "Trainee", err)
			return
		}
		if req.Status != nil && *req.Status == models.StatusPassed {
			lg.Infow("certificate issued", "trainee_id", id, "certificate_id", deref(t.CertificateID))
		}
		respondJSON(w, t)
	}
}

func DeleteTrainee(repo store.TraineeRepository, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := repo.GetTrainee(r.Context(), id); err != nil {
			writeError(w, lg, "Trainee", err)
			return
		}
		if err := repo.DeleteTrainee(r.Context(), id); err != nil {
			writeError(w, lg, "Trainee", err)
			return
		}
		success(w)
	}
}

// DownloadCertificate serves the stored certificate as a PDF file.
func DownloadCertificate(repo store.TraineeRepository, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := repo.GetTrainee(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, lg, "Trainee", err)
			return
		}
		if t.CertificateID == nil || t.CertificateURL == nil {
			respondMessage(w, http.StatusNotFound, "Certificate not found")
			return
		}
		pdf, err := certificate.DecodeArtifact(*t.CertificateURL)
		if err != nil {
			writeError(w, lg, "Certificate", err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, *t.CertificateID))
		_, _ = w.Write(pdf)
	}
}
