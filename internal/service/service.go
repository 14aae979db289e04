// Package service holds the pairing rules and the appointment negotiation
// state machine. Transports call into it; it never touches the wire.
package service

import (
	"context"

	"couple-scheduler/internal/model"
	"couple-scheduler/internal/realtime"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByID(ctx context.Context, id string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	BindPartners(ctx context.Context, a, b string) error
}

type AppointmentStore interface {
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	// UpdateAppointment must fail with model.ErrConflict when the stored
	// version is no longer expected.
	UpdateAppointment(ctx context.Context, a *model.Appointment, expected int64) error
	ListAppointments(ctx context.Context, userID string) ([]model.Appointment, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID string, kind realtime.EventKind, payload any)
}

type TokenIssuer interface {
	Make(uid, username string) (string, error)
}

// UserLookup resolves a user by id; *Identity satisfies it with caching.
type UserLookup interface {
	User(ctx context.Context, id string) (*model.User, error)
}
