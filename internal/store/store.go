// Package store is the gorm-backed persistence layer for trainings, trainees
// and server-side sessions.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"traintrace/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// TrainingPatch carries a partial update; nil fields are left untouched.
type TrainingPatch struct {
	Name        *string
	Description *string
	Date        *models.Date
	Duration    *string
}

type TraineePatch struct {
	Name           *string
	Surname        *string
	Email          *string
	PhoneNumber    *string
	CompanyName    *string
	Status         *models.Status
	CertificateID  *string
	CertificateURL *string
}

type TrainingRepository interface {
	ListTrainings(ctx context.Context) ([]models.Training, error)
	GetTraining(ctx context.Context, id string) (*models.Training, error)
	CreateTraining(ctx context.Context, t *models.Training) error
	UpdateTraining(ctx context.Context, id string, p TrainingPatch) (*models.Training, error)
	DeleteTraining(ctx context.Context, id string) error
}

type TraineeRepository interface {
	ListTrainees(ctx context.Context) ([]models.Trainee, error)
	ListTraineesByTraining(ctx context.Context, trainingID string) ([]models.Trainee, error)
	GetTrainee(ctx context.Context, id string) (*models.Trainee, error)
	GetTraineeByEmail(ctx context.Context, email string) (*models.Trainee, error)
	GetTraineeByCertificateID(ctx context.Context, certificateID string) (*models.Trainee, error)
	CreateTrainee(ctx context.Context, t *models.Trainee) error
	CreateTrainees(ctx context.Context, ts []models.Trainee) ([]models.Trainee, error)
	UpdateTrainee(ctx context.Context, id string, p TraineePatch) (*models.Trainee, error)
	DeleteTrainee(ctx context.Context, id string) error
}

type Repository interface {
	TrainingRepository
	TraineeRepository
}

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) ListTrainings(ctx context.Context) ([]models.Training, error) {
	var out []models.Training
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	return out, nil
}

func (s *Store) GetTraining(ctx context.Context, id string) (*models.Training, error) {
	var t models.Training
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate("get training", err)
	}
	return &t, nil
}

func (s *Store) CreateTraining(ctx context.Context, t *models.Training) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return translate("create training", err)
	}
	return nil
}

func (s *Store) UpdateTraining(ctx context.Context, id string, p TrainingPatch) (*models.Training, error) {
	fields := map[string]any{"updated_at": s.now()}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Date != nil {
		fields["date"] = *p.Date
	}
	if p.Duration != nil {
		fields["duration"] = *p.Duration
	}
	res := s.db.WithContext(ctx).Model(&models.Training{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate("update training", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetTraining(ctx, id)
}

// DeleteTraining removes the training and all of its trainees in one
// transaction. The FK cascade covers the same ground at the schema level.
func (s *Store) DeleteTraining(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("training_id = ?", id).Delete(&models.Trainee{}).Error; err != nil {
			return fmt.Errorf("delete trainees of training: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Training{}).Error; err != nil {
			return fmt.Errorf("delete training: %w", err)
		}
		return nil
	})
}

func (s *Store) ListTrainees(ctx context.Context) ([]models.Trainee, error) {
	var out []models.Trainee
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list trainees: %w", err)
	}
	return out, nil
}

func (s *Store) ListTraineesByTraining(ctx context.Context, trainingID string) ([]models.Trainee, error) {
	var out []models.Trainee
	err := s.db.WithContext(ctx).Where("training_id = ?", trainingID).Order("created_at asc").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list trainees by training: %w", err)
	}
	return out, nil
}

func (s *Store) GetTrainee(ctx context.Context, id string) (*models.Trainee, error) {
	return s.findTrainee(ctx, "get trainee", "id = ?", id)
}

func (s *Store) GetTraineeByEmail(ctx context.Context, email string) (*models.Trainee, error) {
	return s.findTrainee(ctx, "get trainee by email", "email = ?", email)
}

func (s *Store) GetTraineeByCertificateID(ctx context.Context, certificateID string) (*models.Trainee, error) {
	return s.findTrainee(ctx, "get trainee by certificate", "certificate_id = ?", certificateID)
}

func (s *Store) findTrainee(ctx context.Context, op, cond string, arg string) (*models.Trainee, error) {
	var t models.Trainee
	if err := s.db.WithContext(ctx).First(&t, cond, arg).Error; err != nil {
		return nil, translate(op, err)
	}
	return &t, nil
}

func (s *Store) CreateTrainee(ctx context.Context, t *models.Trainee) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return translate("create trainee", err)
	}
	return nil
}

// CreateTrainees inserts all rows with a single statement and returns what
// was stored.
func (s *Store) CreateTrainees(ctx context.Context, ts []models.Trainee) ([]models.Trainee, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	if err := s.db.WithContext(ctx).Create(&ts).Error; err != nil {
		return nil, translate("create trainees", err)
	}
	return ts, nil
}

func (s *Store) UpdateTrainee(ctx context.Context, id string, p TraineePatch) (*models.Trainee, error) {
	fields := map[string]any{"updated_at": s.now()}
	set := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	set("name", p.Name)
	set("surname", p.Surname)
	set("email", p.Email)
	set("phone_number", p.PhoneNumber)
	set("company_name", p.CompanyName)
	set("certificate_id", p.CertificateID)
	set("certificate_url", p.CertificateURL)
	if p.Status != nil {
		fields["status"] = string(*p.Status)
	}
	res := s.db.WithContext(ctx).Model(&models.Trainee{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate("update trainee", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetTrainee(ctx, id)
}

func (s *Store) DeleteTrainee(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Trainee{}).Error; err != nil {
		return fmt.Errorf("delete trainee: %w", err)
	}
	return nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}
