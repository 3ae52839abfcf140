// Package storetest provides an in-memory store.Repository for tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"traintrace/internal/models"
	"traintrace/internal/store"
)

// Memory mirrors the postgres schema rules that callers rely on: global email
// uniqueness, cascading training deletes and creation-order listings.
type Memory struct {
	mu        sync.Mutex
	trainings []models.Training
	trainees  []models.Trainee
	sessions  map[string]models.Session
	clock     time.Time

	// Mutations counts successful writes.
	Mutations int
	// Err, when set, is returned by every call.
	Err error
}

func NewMemory() *Memory {
	return &Memory{
		sessions: map[string]models.Session{},
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var (
	_ store.Repository        = (*Memory)(nil)
	_ store.SessionRepository = (*Memory)(nil)
)

// tick returns strictly increasing timestamps so creation order is stable.
func (m *Memory) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *Memory) ListTrainings(ctx context.Context) ([]models.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Training(nil), m.trainings...), nil
}

func (m *Memory) GetTraining(ctx context.Context, id string) (*models.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.trainings {
		if m.trainings[i].ID == id {
			t := m.trainings[i]
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Memory) CreateTraining(ctx context.Context, t *models.Training) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := m.tick()
	t.CreatedAt, t.UpdatedAt = now, now
	m.trainings = append(m.trainings, *t)
	m.Mutations++
	return nil
}

func (m *Memory) UpdateTraining(ctx context.Context, id string, p store.TrainingPatch) (*models.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.trainings {
		t := &m.trainings[i]
		if t.ID != id {
			continue
		}
		if p.Name != nil {
			t.Name = *p.Name
		}
		if p.Description != nil {
			t.Description = p.Description
		}
		if p.Date != nil {
			t.Date = *p.Date
		}
		if p.Duration != nil {
			t.Duration = p.Duration
		}
		t.UpdatedAt = m.tick()
		m.Mutations++
		out := *t
		return &out, nil
	}
	return nil, store.ErrNotFound
}

func (m *Memory) DeleteTraining(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	trainings := m.trainings[:0]
	for _, t := range m.trainings {
		if t.ID != id {
			trainings = append(trainings, t)
		}
	}
	m.trainings = trainings
	trainees := m.trainees[:0]
	for _, t := range m.trainees {
		if t.TrainingID != id {
			trainees = append(trainees, t)
		}
	}
	m.trainees = trainees
	m.Mutations++
	return nil
}

func (m *Memory) ListTrainees(ctx context.Context) ([]models.Trainee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Trainee(nil), m.trainees...), nil
}

func (m *Memory) ListTraineesByTraining(ctx context.Context, trainingID string) ([]models.Trainee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Trainee
	for _, t := range m.trainees {
		if t.TrainingID == trainingID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Memory) GetTrainee(ctx context.Context, id string) (*models.Trainee, error) {
	return m.findTrainee(func(t models.Trainee) bool { return t.ID == id })
}

func (m *Memory) GetTraineeByEmail(ctx context.Context, email string) (*models.Trainee, error) {
	return m.findTrainee(func(t models.Trainee) bool { return t.Email == email })
}

func (m *Memory) GetTraineeByCertificateID(ctx context.Context, certificateID string) (*models.Trainee, error) {
	return m.findTrainee(func(t models.Trainee) bool {
		return t.CertificateID != nil && *t.CertificateID == certificateID
	})
}

func (m *Memory) findTrainee(match func(models.Trainee) bool) (*models.Trainee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, t := range m.trainees {
		if match(t) {
			out := t
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Memory) CreateTrainee(ctx context.Context, t *models.Trainee) error {
	out, err := m.CreateTrainees(ctx, []models.Trainee{*t})
	if err != nil {
		return err
	}
	*t = out[0]
	return nil
}

// CreateTrainees is all-or-nothing, like a single INSERT statement.
func (m *Memory) CreateTrainees(ctx context.Context, ts []models.Trainee) ([]models.Trainee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	seen := map[string]bool{}
	for _, t := range m.trainees {
		seen[t.Email] = true
	}
	for _, t := range ts {
		if seen[t.Email] {
			return nil, store.ErrDuplicateEmail
		}
		seen[t.Email] = true
		if !m.hasTraining(t.TrainingID) {
			return nil, fmt.Errorf("create trainees: training %q does not exist", t.TrainingID)
		}
	}
	out := make([]models.Trainee, 0, len(ts))
	for _, t := range ts {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.Status == "" {
			t.Status = models.StatusPending
		}
		now := m.tick()
		t.CreatedAt, t.UpdatedAt = now, now
		m.trainees = append(m.trainees, t)
		out = append(out, t)
	}
	if len(out) > 0 {
		m.Mutations++
	}
	return out, nil
}

func (m *Memory) hasTraining(id string) bool {
	for _, t := range m.trainings {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (m *Memory) UpdateTrainee(ctx context.Context, id string, p store.TraineePatch) (*models.Trainee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.trainees {
		t := &m.trainees[i]
		if t.ID != id {
			continue
		}
		if p.Email != nil && *p.Email != t.Email {
			for _, other := range m.trainees {
				if other.Email == *p.Email {
					return nil, store.ErrDuplicateEmail
				}
			}
			t.Email = *p.Email
		}
		setString(&t.Name, p.Name)
		setString(&t.Surname, p.Surname)
		setString(&t.PhoneNumber, p.PhoneNumber)
		if p.CompanyName != nil {
			t.CompanyName = p.CompanyName
		}
		if p.Status != nil {
			t.Status = *p.Status
		}
		if p.CertificateID != nil {
			t.CertificateID = p.CertificateID
		}
		if p.CertificateURL != nil {
			t.CertificateURL = p.CertificateURL
		}
		t.UpdatedAt = m.tick()
		m.Mutations++
		out := *t
		return &out, nil
	}
	return nil, store.ErrNotFound
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (m *Memory) DeleteTrainee(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	trainees := m.trainees[:0]
	for _, t := range m.trainees {
		if t.ID != id {
			trainees = append(trainees, t)
		}
	}
	m.trainees = trainees
	m.Mutations++
	return nil
}

func (m *Memory) CreateSession(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	s.CreatedAt = m.tick()
	m.sessions[s.ID] = *s
	return nil
}

func (m *Memory) GetSession(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (m *Memory) RevokeSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	s, ok := m.sessions[id]
	if !ok || s.RevokedAt != nil {
		return nil
	}
	now := time.Now()
	s.RevokedAt = &now
	m.sessions[id] = s
	return nil
}
