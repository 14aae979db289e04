package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"couple-scheduler/internal/model"
	"couple-scheduler/internal/realtime"
)

type Config struct {
	// NotifyUnchangedStatus re-sends appointment-updated when SetStatus
	// writes the status the appointment already has.
	NotifyUnchangedStatus bool
}

// Appointments is the negotiation state machine.
//
//	pending  -> confirmed | rejected | modified
//	modified -> confirmed | rejected | modified
//	any      -> modified (via Modify)
//
// Either dyad member may Modify. Only the partner may confirm or reject,
// except that the creator may answer once the appointment is modified.
type Appointments struct {
	store  AppointmentStore
	users  UserLookup
	notify Notifier
	cfg    Config
	log    *zap.Logger
}

func NewAppointments(st AppointmentStore, users UserLookup, n Notifier, cfg Config, log *zap.Logger) *Appointments {
	return &Appointments{store: st, users: users, notify: n, cfg: cfg, log: log}
}

type ProposeInput struct {
	Title string
	Date  time.Time
	Notes string
}

func (s *Appointments) Propose(ctx context.Context, actor string, in ProposeInput) (*model.Appointment, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title required", model.ErrValidation)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date required", model.ErrValidation)
	}

	creator, err := s.users.User(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !creator.HasPartner() {
		return nil, model.ErrNoPartnerBound
	}

	a := &model.Appointment{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Date:      in.Date.UTC(),
		Notes:     in.Notes,
		Status:    model.StatusPending,
		CreatedBy: creator.ID,
		PartnerID: creator.PartnerID,
		Version:   1,
	}
	if err := s.store.CreateAppointment(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.log.Info("appointment proposed", zap.String("appointment_id", a.ID), zap.String("user_id", actor))
	s.notify.Notify(ctx, a.PartnerID, realtime.EventNewAppointment, realtime.NewAppointment{
		Appointment: a,
		From:        creator.Username,
	})
	return a, nil
}

// SetStatus confirms or rejects. version, when non-zero, must match the
// stored version.
func (s *Appointments) SetStatus(ctx context.Context, actor, id string, status model.Status, version int64) (*model.Appointment, error) {
	if status != model.StatusConfirmed && status != model.StatusRejected {
		return nil, fmt.Errorf("%w: status must be confirmed or rejected", model.ErrValidation)
	}

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAnswer(a, actor) {
		return nil, model.ErrForbidden
	}
	if version != 0 && version != a.Version {
		return nil, model.ErrConflict
	}

	changed := a.Status != status
	if changed {
		read := a.Version
		a.Status = status
		if err := s.store.UpdateAppointment(ctx, a, read); err != nil {
			return nil, fmt.Errorf("update appointment: %w", err)
		}
		s.log.Info("appointment status set",
			zap.String("appointment_id", a.ID), zap.String("user_id", actor), zap.String("status", string(status)))
	}

	if changed || s.cfg.NotifyUnchangedStatus {
		s.notify.Notify(ctx, a.CreatedBy, realtime.EventAppointmentUpdated, realtime.AppointmentUpdated{
			AppointmentID: a.ID,
			Status:        a.Status,
		})
	}
	return a, nil
}

type ModifyInput struct {
	// Empty Title/Notes and zero Date keep the current value.
	Title             string
	Date              time.Time
	Notes             string
	ModificationNotes string
	Version           int64
}

func (s *Appointments) Modify(ctx context.Context, actor, id string, in ModifyInput) (*model.Appointment, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Involves(actor) {
		return nil, model.ErrForbidden
	}
	if in.Version != 0 && in.Version != a.Version {
		return nil, model.ErrConflict
	}

	read := a.Version
	if t := strings.TrimSpace(in.Title); t != "" {
		a.Title = t
	}
	if !in.Date.IsZero() {
		a.Date = in.Date.UTC()
	}
	if in.Notes != "" {
		a.Notes = in.Notes
	}
	a.ModificationNotes = in.ModificationNotes
	a.ModifiedBy = actor
	a.Status = model.StatusModified

	if err := s.store.UpdateAppointment(ctx, a, read); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.log.Info("appointment modified", zap.String("appointment_id", a.ID), zap.String("user_id", actor))
	s.notify.Notify(ctx, a.Counterpart(actor), realtime.EventAppointmentModified, realtime.AppointmentModified{
		Appointment: a,
	})
	return a, nil
}

// List returns every appointment uid is part of, latest date first.
func (s *Appointments) List(ctx context.Context, uid string) ([]model.Appointment, error) {
	list, err := s.store.ListAppointments(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return list, nil
}

// Get hides appointments outside the caller's dyad behind ErrNotFound.
func (s *Appointments) Get(ctx context.Context, actor, id string) (*model.Appointment, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Involves(actor) {
		return nil, model.ErrNotFound
	}
	return a, nil
}

func (s *Appointments) load(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id required", model.ErrValidation)
	}
	a, err := s.store.GetAppointment(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	return a, nil
}

func canAnswer(a *model.Appointment, actor string) bool {
	if actor == a.PartnerID {
		return true
	}
	return actor == a.CreatedBy && a.Status == model.StatusModified
}
