// Package memstore is an in-process implementation of the identity and
// appointment stores. It backs tests and runs without DATABASE_URL.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"couple-scheduler/internal/model"
)

type Store struct {
	mu      sync.RWMutex
	users   map[string]model.User
	byEmail map[string]string
	byName  map[string]string
	appts   map[string]model.Appointment
	now     func() time.Time
}

func New() *Store {
	return &Store{
		users:   make(map[string]model.User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
		appts:   make(map[string]model.Appointment),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[u.Email]; ok {
		return model.ErrDuplicate
	}
	if _, ok := s.byName[u.Username]; ok {
		return model.ErrDuplicate
	}
	now := s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = *u
	s.byEmail[u.Email] = u.ID
	s.byName[u.Username] = u.ID
	return nil
}

func (s *Store) UserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrNotFound
	}
	return s.UserByID(ctx, id)
}

func (s *Store) BindPartners(_ context.Context, a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ua, okA := s.users[a]
	ub, okB := s.users[b]
	if !okA || !okB {
		return model.ErrNotFound
	}
	if (ua.PartnerID != "" && ua.PartnerID != b) || (ub.PartnerID != "" && ub.PartnerID != a) {
		return model.ErrAlreadyPaired
	}
	now := s.now()
	ua.PartnerID, ua.UpdatedAt = b, now
	ub.PartnerID, ub.UpdatedAt = a, now
	s.users[a], s.users[b] = ua, ub
	return nil
}

func (s *Store) CreateAppointment(_ context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appts[a.ID]; ok {
		return model.ErrDuplicate
	}
	if a.Version == 0 {
		a.Version = 1
	}
	now := s.now()
	a.CreatedAt, a.UpdatedAt = now, now
	s.appts[a.ID] = *a
	return nil
}

func (s *Store) GetAppointment(_ context.Context, id string) (*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appts[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &a, nil
}

func (s *Store) UpdateAppointment(_ context.Context, a *model.Appointment, expected int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.appts[a.ID]
	if !ok || cur.Version != expected {
		return model.ErrConflict
	}
	cur.Title = a.Title
	cur.Date = a.Date
	cur.Notes = a.Notes
	cur.Status = a.Status
	cur.ModifiedBy = a.ModifiedBy
	cur.ModificationNotes = a.ModificationNotes
	cur.Version = expected + 1
	cur.UpdatedAt = s.now()
	s.appts[a.ID] = cur

	a.Version, a.UpdatedAt = cur.Version, cur.UpdatedAt
	return nil
}

func (s *Store) ListAppointments(_ context.Context, userID string) ([]model.Appointment, error) {
	s.mu.RLock()
	out := []model.Appointment{}
	for _, a := range s.appts {
		if a.Involves(userID) {
			out = append(out, a)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
