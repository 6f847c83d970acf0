package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"alcyxob/training-scheduler/internal/domain"
	"alcyxob/training-scheduler/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]domain.Session
}

func newFakeSessionRepo(seed ...domain.Session) *fakeSessionRepo {
	r := &fakeSessionRepo{sessions: make(map[primitive.ObjectID]domain.Session)}
	for _, s := range seed {
		if s.ID.IsZero() {
			s.ID = primitive.NewObjectID()
		}
		r.sessions[s.ID] = s
	}
	return r
}

func (r *fakeSessionRepo) Create(_ context.Context, s *domain.Session) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = primitive.NewObjectID()
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	r.sessions[s.ID] = *s
	return s.ID, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSessionRepo) Find(_ context.Context, f repository.SessionFilter) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Session{}
	for _, s := range r.sessions {
		if !f.From.IsZero() && s.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && s.Date.After(f.To) {
			continue
		}
		if !f.CustomerID.IsZero() && s.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *fakeSessionRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	r.sessions[id] = s
	return nil
}

func (r *fakeSessionRepo) CompleteIfScheduled(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.Status != domain.StatusScheduled {
		return false, nil
	}
	s.Status = domain.StatusCompleted
	r.sessions[id] = s
	return true, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

type fakeCustomerRepo struct {
	customers map[primitive.ObjectID]domain.Customer
}

func newFakeCustomerRepo(seed ...domain.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[primitive.ObjectID]domain.Customer)}
	for _, c := range seed {
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *domain.Customer) (primitive.ObjectID, error) {
	for _, existing := range r.customers {
		if c.Email != "" && existing.Email == c.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	c.ID = primitive.NewObjectID()
	r.customers[c.ID] = *c
	return c.ID, nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCustomerRepo) List(context.Context) ([]domain.Customer, error) {
	out := []domain.Customer{}
	for _, c := range r.customers {
		out = append(out, c)
	}
	return out, nil
}

type fakeWorkoutRepo struct {
	workouts map[primitive.ObjectID]domain.Workout
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]domain.Workout)}
}

func (r *fakeWorkoutRepo) Create(_ context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	w.ID = primitive.NewObjectID()
	r.workouts[w.ID] = *w
	return w.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r *fakeWorkoutRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Workout, error) {
	out := []domain.Workout{}
	for _, id := range ids {
		if w, ok := r.workouts[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWorkoutRepo) List(context.Context) ([]domain.Workout, error) {
	out := []domain.Workout{}
	for _, w := range r.workouts {
		out = append(out, w)
	}
	return out, nil
}

type fakeAssignmentRepo struct {
	assignments []domain.ScheduleAssignment
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a *domain.ScheduleAssignment) (primitive.ObjectID, error) {
	a.ID = primitive.NewObjectID()
	stored := *a
	stored.Workout = nil
	r.assignments = append(r.assignments, stored)
	return a.ID, nil
}

func (r *fakeAssignmentRepo) GetByCustomerID(_ context.Context, customerID primitive.ObjectID) ([]domain.ScheduleAssignment, error) {
	out := []domain.ScheduleAssignment{}
	for _, a := range r.assignments {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Delete(_ context.Context, id, customerID primitive.ObjectID) error {
	for i, a := range r.assignments {
		if a.ID == id && a.CustomerID == customerID {
			r.assignments = append(r.assignments[:i], r.assignments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
	failURL error
}

func (f *fakeStorage) PutObject(_ context.Context, key, _ string, data []byte) error {
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.failURL != nil {
		return "", f.failURL
	}
	return "https://files.example/" + key + "?sig=1", nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}
