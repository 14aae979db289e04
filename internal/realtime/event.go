package realtime

import "couple-scheduler/internal/model"

type EventKind string

const (
	EventNewAppointment      EventKind = "new-appointment"
	EventAppointmentUpdated  EventKind = "appointment-updated"
	EventAppointmentModified EventKind = "appointment-modified"

	// connection lifecycle, sent only to the connection itself
	EventAuthenticated EventKind = "authenticated"
	EventAuthError     EventKind = "auth-error"
)

// Event is a tagged payload pushed to one connection.
type Event struct {
	Kind    EventKind `json:"type"`
	Payload any       `json:"data"`
}

type NewAppointment struct {
	Appointment *model.Appointment `json:"appointment"`
	From        string             `json:"from"`
}

type AppointmentUpdated struct {
	AppointmentID string       `json:"appointmentId"`
	Status        model.Status `json:"status"`
}

type AppointmentModified struct {
	Appointment *model.Appointment `json:"appointment"`
}

type Authenticated struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type AuthError struct {
	Error string `json:"error"`
}
