// Package verification answers the public "is this certificate genuine"
// question without a session.
package verification

import (
	"context"
	"errors"
	"strings"

	"traintrace/internal/metrics"
	"traintrace/internal/models"
	"traintrace/internal/services/certificate"
	"traintrace/internal/store"
)

type Store interface {
	GetTraining(ctx context.Context, id string) (*models.Training, error)
	GetTrainee(ctx context.Context, id string) (*models.Trainee, error)
	GetTraineeByCertificateID(ctx context.Context, certificateID string) (*models.Trainee, error)
}

// View is the public projection of a certified trainee. Internal
// identifiers other than the certificate ID are left out.
type View struct {
	Name           string      `json:"name"`
	Surname        string      `json:"surname"`
	Email          string      `json:"email"`
	PhoneNumber    string      `json:"phoneNumber"`
	CompanyName    *string     `json:"companyName"`
	TrainingName   string      `json:"trainingName"`
	TrainingDate   models.Date `json:"trainingDate"`
	CertificateID  string      `json:"certificateId"`
	CertificateURL *string     `json:"certificateUrl"`
}

type Result struct {
	Valid   bool  `json:"valid"`
	Trainee *View `json:"trainee,omitempty"`
}

type Verifier struct {
	store   Store
	metrics *metrics.Metrics
}

func NewVerifier(s Store, m *metrics.Metrics) *Verifier {
	return &Verifier{store: s, metrics: m}
}

// Verify accepts either a trainee ID or a certificate ID. Unknown IDs and
// trainees that have not passed are reported as invalid, not as errors.
func (v *Verifier) Verify(ctx context.Context, id string) (Result, error) {
	res, err := v.verify(ctx, strings.TrimSpace(id))
	if err != nil {
		return Result{}, err
	}
	v.metrics.Verification(res.Valid)
	return res, nil
}

func (v *Verifier) verify(ctx context.Context, id string) (Result, error) {
	if id == "" {
		return Result{}, nil
	}
	trainee, err := v.store.GetTrainee(ctx, id)
	if errors.Is(err, store.ErrNotFound) && strings.HasPrefix(id, certificate.IDPrefix) {
		trainee, err = v.store.GetTraineeByCertificateID(ctx, id)
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return Result{}, nil
	case err != nil:
		return Result{}, err
	}

	if trainee.Status != models.StatusPassed || trainee.CertificateID == nil || *trainee.CertificateID == "" {
		return Result{}, nil
	}

	training, err := v.store.GetTraining(ctx, trainee.TrainingID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return Result{}, nil
	case err != nil:
		return Result{}, err
	}

	return Result{Valid: true, Trainee: &View{
		Name:           trainee.Name,
		Surname:        trainee.Surname,
		Email:          trainee.Email,
		PhoneNumber:    trainee.PhoneNumber,
		CompanyName:    trainee.CompanyName,
		TrainingName:   training.Name,
		TrainingDate:   trainee.TrainingDate,
		CertificateID:  *trainee.CertificateID,
		CertificateURL: trainee.CertificateURL,
	}}, nil
}
