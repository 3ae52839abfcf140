// Package roster bulk-imports trainees from an uploaded spreadsheet into a
// single training.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"traintrace/internal/metrics"
	"traintrace/internal/models"
	"traintrace/internal/store"
	"traintrace/internal/validation"
)

// Columns is the header row the importer understands, in template order.
var Columns = []string{"name", "surname", "email", "phone_number", "company_name"}

type Store interface {
	GetTraining(ctx context.Context, id string) (*models.Training, error)
	GetTraineeByEmail(ctx context.Context, email string) (*models.Trainee, error)
	CreateTrainees(ctx context.Context, ts []models.Trainee) ([]models.Trainee, error)
}

type Row struct {
	Name        string `json:"name" validate:"required,max=255"`
	Surname     string `json:"surname" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phone_number" validate:"required,max=50"`
	CompanyName string `json:"company_name" validate:"max=255"`
}

// Result reports partial success. Failed always equals len(Errors).
type Result struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

type Importer struct {
	store   Store
	metrics *metrics.Metrics
}

func NewImporter(s Store, m *metrics.Metrics) *Importer {
	return &Importer{store: s, metrics: m}
}

// Import validates every row independently and inserts the survivors in one
// call. Invalid and duplicate rows are reported, not raised. Errors are only
// returned for an unknown training, an unreadable file or a store failure.
func (im *Importer) Import(ctx context.Context, data []byte, trainingID string) (*Result, error) {
	training, err := im.store.GetTraining(ctx, trainingID)
	if err != nil {
		return nil, err
	}

	records, err := parse(data)
	if err != nil {
		return nil, err
	}

	res := &Result{Errors: []string{}}
	staged := make([]models.Trainee, 0, len(records))
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		row := normalize(rec.Fields)
		if err := validation.Struct(row); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", rec.Line, err.Error()))
			continue
		}

		if seen[row.Email] {
			res.Errors = append(res.Errors, duplicate(rec.Line, row.Email))
			continue
		}
		_, err := im.store.GetTraineeByEmail(ctx, row.Email)
		switch {
		case err == nil:
			res.Errors = append(res.Errors, duplicate(rec.Line, row.Email))
			continue
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("row %d: %w", rec.Line, err)
		}
		seen[row.Email] = true

		t := models.Trainee{
			Name:         row.Name,
			Surname:      row.Surname,
			Email:        row.Email,
			PhoneNumber:  row.PhoneNumber,
			TrainingID:   training.ID,
			TrainingDate: training.Date,
			Status:       models.StatusPending,
		}
		if row.CompanyName != "" {
			company := row.CompanyName
			t.CompanyName = &company
		}
		staged = append(staged, t)
	}

	if len(staged) > 0 {
		created, err := im.store.CreateTrainees(ctx, staged)
		if err != nil {
			return nil, err
		}
		res.Imported = len(created)
	}
	res.Failed = len(res.Errors)
	im.metrics.RosterRows(res.Imported, res.Failed)
	return res, nil
}

func duplicate(line int, email string) string {
	return fmt.Sprintf("Row %d: Email %s already exists", line, email)
}

// normalize coerces every cell to a trimmed string. Spreadsheet cells are
// already text here, so numeric phone numbers keep their digits.
func normalize(fields map[string]string) Row {
	get := func(k string) string { return strings.TrimSpace(fields[k]) }
	return Row{
		Name:        get("name"),
		Surname:     get("surname"),
		Email:       get("email"),
		PhoneNumber: get("phone_number"),
		CompanyName: get("company_name"),
	}
}

// Template returns a CSV file containing only the header row.
func Template() []byte {
	return []byte(strings.Join(Columns, ",") + "\n")
}
