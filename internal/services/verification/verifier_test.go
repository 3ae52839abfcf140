package verification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traintrace/internal/models"
	"traintrace/internal/store"
	"traintrace/internal/store/storetest"
)

func seed(t *testing.T, status models.Status, certID string) (*storetest.Memory, *models.Trainee) {
	t.Helper()
	ctx := context.Background()
	mem := storetest.NewMemory()
	tr := &models.Training{Name: "Working at Height", Date: models.NewDate(2024, time.February, 10)}
	require.NoError(t, mem.CreateTraining(ctx, tr))
	te := &models.Trainee{
		Name: "Ann", Surname: "Lee", Email: "ann@example.com", PhoneNumber: "555",
		TrainingID: tr.ID, TrainingDate: tr.Date,
	}
	require.NoError(t, mem.CreateTrainee(ctx, te))

	patch := store.TraineePatch{Status: &status}
	if certID != "" {
		url := "data:application/pdf;base64,AAAA"
		patch.CertificateID, patch.CertificateURL = &certID, &url
	}
	updated, err := mem.UpdateTrainee(ctx, te.ID, patch)
	require.NoError(t, err)
	return mem, updated
}

func TestVerify_PassedByEitherID(t *testing.T) {
	mem, te := seed(t, models.StatusPassed, "CERT-123")
	v := NewVerifier(mem, nil)

	for _, id := range []string{te.ID, "CERT-123"} {
		res, err := v.Verify(context.Background(), id)
		require.NoError(t, err)
		require.True(t, res.Valid, id)
		assert.Equal(t, "Ann", res.Trainee.Name)
		assert.Equal(t, "ann@example.com", res.Trainee.Email)
		assert.Equal(t, "Working at Height", res.Trainee.TrainingName)
		assert.Equal(t, "CERT-123", res.Trainee.CertificateID)
	}
}

func TestVerify_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		status models.Status
		certID string
		lookup func(te *models.Trainee) string
	}{
		{"pending", models.StatusPending, "", func(te *models.Trainee) string { return te.ID }},
		{"failed with stale certificate", models.StatusFailed, "CERT-9", func(*models.Trainee) string { return "CERT-9" }},
		{"failed by trainee id", models.StatusFailed, "CERT-9", func(te *models.Trainee) string { return te.ID }},
		{"passed without certificate", models.StatusPassed, "", func(te *models.Trainee) string { return te.ID }},
		{"unknown id", models.StatusPassed, "CERT-1", func(*models.Trainee) string { return "nope" }},
		{"unknown certificate", models.StatusPassed, "CERT-1", func(*models.Trainee) string { return "CERT-2" }},
		{"blank", models.StatusPassed, "CERT-1", func(*models.Trainee) string { return "  " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mem, te := seed(t, tc.status, tc.certID)
			res, err := NewVerifier(mem, nil).Verify(context.Background(), tc.lookup(te))
			require.NoError(t, err)
			assert.Equal(t, Result{}, res)
		})
	}
}

func TestVerify_TrainingGoneIsInvalid(t *testing.T) {
	mem, te := seed(t, models.StatusPassed, "CERT-1")
	v := NewVerifier(missingTraining{mem}, nil)

	res, err := v.Verify(context.Background(), te.ID)
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

type missingTraining struct{ *storetest.Memory }

func (missingTraining) GetTraining(context.Context, string) (*models.Training, error) {
	return nil, store.ErrNotFound
}

func TestVerify_StoreError(t *testing.T) {
	mem, te := seed(t, models.StatusPassed, "CERT-1")
	mem.Err = errors.New("db down")

	_, err := NewVerifier(mem, nil).Verify(context.Background(), te.ID)
	assert.EqualError(t, err, "db down")
}

func TestResult_JSON(t *testing.T) {
	b, err := json.Marshal(Result{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":false}`, string(b))

	mem, te := seed(t, models.StatusPassed, "CERT-1")
	res, err := NewVerifier(mem, nil).Verify(context.Background(), te.ID)
	require.NoError(t, err)
	b, err = json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":true,"trainee":{
		"name":"Ann","surname":"Lee","email":"ann@example.com","phoneNumber":"555",
		"companyName":null,"trainingName":"Working at Height","trainingDate":"2024-02-10",
		"certificateId":"CERT-1","certificateUrl":"data:application/pdf;base64,AAAA"}}`, string(b))
}
