package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"traintrace/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	s := New(db)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, mock
}

func TestDeleteTraining_RemovesTraineesInOneTransaction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "trainees" WHERE training_id = $1`)).
		WithArgs("tr-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "trainings" WHERE id = $1`)).
		WithArgs("tr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteTraining(context.Background(), "tr-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTraining_RollsBackWhenTrainingDeleteFails(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "trainees"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "trainings"`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := s.DeleteTraining(context.Background(), "tr-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete training")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTraining_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trainings" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "date"}))

	_, err := s.GetTraining(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTrainings_OrdersByCreation(t *testing.T) {
	s, mock := newMockStore(t)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "description", "date", "duration", "created_at", "updated_at"}).
		AddRow("a", "Forklift safety", nil, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "2 days", created, created).
		AddRow("b", "First aid", "basics", "2024-04-01", nil, created.Add(time.Hour), created.Add(time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trainings" ORDER BY created_at asc`)).
		WillReturnRows(rows)

	got, err := s.ListTrainings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "2024-03-05", got[0].Date.String())
	assert.Equal(t, "2 days", *got[0].Duration)
	assert.Nil(t, got[0].Description)
	assert.Equal(t, "2024-04-01", got[1].Date.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTraining_MissingRowIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "trainings" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	name := "Renamed"
	_, err := s.UpdateTraining(context.Background(), "missing", TrainingPatch{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTrainee_WritesStatusAndCertificateTogether(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "trainees" SET .*"certificate_id"=.*"certificate_url"=.*"status"=.*"updated_at"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trainees" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "status", "certificate_id", "training_date"}).
			AddRow("t-1", "a@b.com", "passed", "CERT-1", "2024-03-05"))

	status := models.StatusPassed
	certID, certURL := "CERT-1", "data:application/pdf;base64,AAAA"
	got, err := s.UpdateTrainee(context.Background(), "t-1", TraineePatch{
		Status:         &status,
		CertificateID:  &certID,
		CertificateURL: &certURL,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPassed, got.Status)
	assert.Equal(t, "CERT-1", *got.CertificateID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTrainees_EmptyIsNoop(t *testing.T) {
	s, mock := newMockStore(t)

	got, err := s.CreateTrainees(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate("op", gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate("op", gorm.ErrDuplicatedKey), ErrDuplicateEmail)

	boom := errors.New("boom")
	err := translate("create trainee", boom)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "create trainee: boom", err.Error())
}

func TestMigrate_RunsEmbeddedMigrations(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	orig := gooseUp
	defer func() { gooseUp = orig }()

	var called bool
	gooseUp = func(ctx context.Context, got *sql.DB, dir string) error {
		called = true
		assert.Same(t, sqlDB, got)
		assert.Equal(t, ".", dir)
		return nil
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.True(t, called)

	gooseUp = func(context.Context, *sql.DB, string) error { return errors.New("dirty") }
	err = Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate: dirty")
}

func TestRevokeSession_OnlyTouchesLiveRows(t *testing.T) {
	s, mock := newMockStore(t)
	sessions := NewSessionStore(s.db)
	sessions.now = s.now

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "sessions" SET "revoked_at"=$1 WHERE id = $2 AND revoked_at IS NULL`)).
		WithArgs(s.now(), "abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, sessions.RevokeSession(context.Background(), "abc"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSession_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sessions" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewSessionStore(s.db).GetSession(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
