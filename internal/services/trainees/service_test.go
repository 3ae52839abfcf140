package trainees

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traintrace/internal/models"
	"traintrace/internal/services/certificate"
	"traintrace/internal/store"
	"traintrace/internal/store/storetest"
)

type fakeIssuer struct {
	calls []string
	err   error
}

func (f *fakeIssuer) Issue(trainee *models.Trainee, training *models.Training) (*certificate.Certificate, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, trainee.Name+"|"+training.Name)
	n := len(f.calls)
	return &certificate.Certificate{
		ID:  certificate.IDPrefix + strings.Repeat("x", n),
		URL: certificate.DataURLPrefix + "AAAA",
	}, nil
}

func setup(t *testing.T) (*storetest.Memory, *models.Training, *models.Trainee) {
	t.Helper()
	ctx := context.Background()
	mem := storetest.NewMemory()
	tr := &models.Training{Name: "First Aid", Date: models.NewDate(2024, time.June, 1)}
	require.NoError(t, mem.CreateTraining(ctx, tr))
	te := &models.Trainee{
		Name: "Ann", Surname: "Lee", Email: "ann@example.com", PhoneNumber: "555",
		TrainingID: tr.ID, TrainingDate: tr.Date,
	}
	require.NoError(t, mem.CreateTrainee(ctx, te))
	return mem, tr, te
}

func status(s models.Status) *models.Status { return &s }

func TestCreate_CopiesTrainingDate(t *testing.T) {
	mem, tr, _ := setup(t)
	svc := NewService(mem, &fakeIssuer{}, nil)

	got, err := svc.Create(context.Background(), CreateInput{
		Name: "Bob", Surname: "Ray", Email: "bob@example.com", PhoneNumber: "1", TrainingID: tr.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, tr.Date, got.TrainingDate)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestCreate_UnknownTraining(t *testing.T) {
	mem, _, _ := setup(t)
	_, err := NewService(mem, &fakeIssuer{}, nil).Create(context.Background(), CreateInput{TrainingID: "nope"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	mem, tr, te := setup(t)
	_, err := NewService(mem, &fakeIssuer{}, nil).Create(context.Background(), CreateInput{
		Name: "X", Surname: "Y", Email: te.Email, PhoneNumber: "1", TrainingID: tr.ID,
	})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestUpdate_PassedIssuesCertificate(t *testing.T) {
	mem, _, te := setup(t)
	iss := &fakeIssuer{}
	svc := NewService(mem, iss, nil)

	name := "Anna"
	got, err := svc.Update(context.Background(), te.ID, UpdateInput{Name: &name, Status: status(models.StatusPassed)})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPassed, got.Status)
	require.NotNil(t, got.CertificateID)
	require.NotNil(t, got.CertificateURL)
	assert.True(t, strings.HasPrefix(*got.CertificateID, "CERT-"))
	assert.True(t, strings.HasPrefix(*got.CertificateURL, "data:application/pdf;base64,"))
	assert.Equal(t, []string{"Anna|First Aid"}, iss.calls)
	assert.Equal(t, "Anna", got.Name)
}

func TestUpdate_PassedTwiceRegenerates(t *testing.T) {
	mem, tr, te := setup(t)
	svc := NewService(mem, certificate.NewIssuer("http", "localhost:5000"), nil)
	ctx := context.Background()

	first, err := svc.Update(ctx, te.ID, UpdateInput{Status: status(models.StatusPassed)})
	require.NoError(t, err)
	second, err := svc.Update(ctx, te.ID, UpdateInput{Status: status(models.StatusPassed)})
	require.NoError(t, err)

	require.NotNil(t, first.CertificateID)
	require.NotNil(t, second.CertificateID)
	assert.NotEqual(t, *first.CertificateID, *second.CertificateID)
	assert.True(t, strings.HasPrefix(*second.CertificateID, certificate.IDPrefix))
	assert.True(t, strings.HasPrefix(*second.CertificateURL, certificate.DataURLPrefix))
	assert.Equal(t, tr.ID, second.TrainingID)
}

func TestUpdate_LeavingPassedKeepsCertificate(t *testing.T) {
	mem, _, te := setup(t)
	svc := NewService(mem, &fakeIssuer{}, nil)
	ctx := context.Background()

	passed, err := svc.Update(ctx, te.ID, UpdateInput{Status: status(models.StatusPassed)})
	require.NoError(t, err)
	failed, err := svc.Update(ctx, te.ID, UpdateInput{Status: status(models.StatusFailed)})
	require.NoError(t, err)

	assert.Equal(t, models.StatusFailed, failed.Status)
	assert.Equal(t, passed.CertificateID, failed.CertificateID)
	assert.Equal(t, passed.CertificateURL, failed.CertificateURL)
}

func TestUpdate_PlainFieldsSkipIssuer(t *testing.T) {
	mem, _, te := setup(t)
	iss := &fakeIssuer{}
	phone := "999"
	got, err := NewService(mem, iss, nil).Update(context.Background(), te.ID, UpdateInput{PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "999", got.PhoneNumber)
	assert.Nil(t, got.CertificateID)
	assert.Empty(t, iss.calls)
}

func TestUpdate_IssuerFailureWritesNothing(t *testing.T) {
	mem, _, te := setup(t)
	before := mem.Mutations
	iss := &fakeIssuer{err: certificate.ErrBarcode}

	_, err := NewService(mem, iss, nil).Update(context.Background(), te.ID, UpdateInput{Status: status(models.StatusPassed)})
	require.ErrorIs(t, err, certificate.ErrBarcode)
	assert.Equal(t, before, mem.Mutations)

	got, err := mem.GetTrainee(context.Background(), te.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestUpdate_MissingTrainee(t *testing.T) {
	mem, _, _ := setup(t)
	svc := NewService(mem, &fakeIssuer{}, nil)

	_, err := svc.Update(context.Background(), "missing", UpdateInput{Status: status(models.StatusPassed)})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.Update(context.Background(), "missing", UpdateInput{Status: status(models.StatusFailed)})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdate_StoreErrorPropagates(t *testing.T) {
	mem, _, te := setup(t)
	mem.Err = errors.New("db down")
	_, err := NewService(mem, &fakeIssuer{}, nil).Update(context.Background(), te.ID, UpdateInput{Status: status(models.StatusPassed)})
	assert.EqualError(t, err, "db down")
}
