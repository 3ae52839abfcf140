// Package trainees holds the single-trainee write paths. Marking a trainee
// as passed issues a certificate in the same update.
package trainees

import (
	"context"
	"fmt"

	"traintrace/internal/metrics"
	"traintrace/internal/models"
	"traintrace/internal/services/certificate"
	"traintrace/internal/store"
)

type Store interface {
	GetTraining(ctx context.Context, id string) (*models.Training, error)
	GetTrainee(ctx context.Context, id string) (*models.Trainee, error)
	CreateTrainee(ctx context.Context, t *models.Trainee) error
	UpdateTrainee(ctx context.Context, id string, p store.TraineePatch) (*models.Trainee, error)
}

type Issuer interface {
	Issue(trainee *models.Trainee, training *models.Training) (*certificate.Certificate, error)
}

type CreateInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Surname     string  `json:"surname" validate:"required,max=255"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	PhoneNumber string  `json:"phoneNumber" validate:"required,max=50"`
	CompanyName *string `json:"companyName" validate:"omitempty,max=255"`
	TrainingID  string  `json:"trainingId" validate:"required"`
}

// UpdateInput is a partial update. Absent fields are left alone.
type UpdateInput struct {
	Name        *string        `json:"name" validate:"omitnil,min=1,max=255"`
	Surname     *string        `json:"surname" validate:"omitnil,min=1,max=255"`
	Email       *string        `json:"email" validate:"omitnil,email,max=255"`
	PhoneNumber *string        `json:"phoneNumber" validate:"omitnil,min=1,max=50"`
	CompanyName *string        `json:"companyName" validate:"omitempty,max=255"`
	Status      *models.Status `json:"status" validate:"omitnil,oneof=pending passed failed"`
}

type Service struct {
	store   Store
	issuer  Issuer
	metrics *metrics.Metrics
}

func NewService(s Store, iss Issuer, m *metrics.Metrics) *Service {
	return &Service{store: s, issuer: iss, metrics: m}
}

// Create enrolls one trainee as pending, copying the training date.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Trainee, error) {
	training, err := s.store.GetTraining(ctx, in.TrainingID)
	if err != nil {
		return nil, err
	}
	t := &models.Trainee{
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		CompanyName:  in.CompanyName,
		TrainingID:   training.ID,
		TrainingDate: training.Date,
		Status:       models.StatusPending,
	}
	if err := s.store.CreateTrainee(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies the patch. Setting status to passed renders a new
// certificate every time, even if one was issued before, and writes it
// together with the status. Moving away from passed keeps the old
// certificate fields.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Trainee, error) {
	patch := store.TraineePatch{
		Name:        in.Name,
		Surname:     in.Surname,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		CompanyName: in.CompanyName,
		Status:      in.Status,
	}

	var issued bool
	if in.Status != nil && *in.Status == models.StatusPassed {
		cert, err := s.issue(ctx, id, in)
		if err != nil {
			return nil, err
		}
		patch.CertificateID = &cert.ID
		patch.CertificateURL = &cert.URL
		issued = true
	}

	updated, err := s.store.UpdateTrainee(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if issued {
		s.metrics.CertificateIssued()
	}
	return updated, nil
}

func (s *Service) issue(ctx context.Context, id string, in UpdateInput) (*certificate.Certificate, error) {
	trainee, err := s.store.GetTrainee(ctx, id)
	if err != nil {
		return nil, err
	}
	training, err := s.store.GetTraining(ctx, trainee.TrainingID)
	if err != nil {
		return nil, err
	}
	// The certificate carries the name as it will be after this update.
	if in.Name != nil {
		trainee.Name = *in.Name
	}
	if in.Surname != nil {
		trainee.Surname = *in.Surname
	}
	cert, err := s.issuer.Issue(trainee, training)
	if err != nil {
		return nil, fmt.Errorf("issue certificate for trainee %s: %w", id, err)
	}
	return cert, nil
}
