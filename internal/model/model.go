package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PartnerID    string    `json:"partnerId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasPartner reports whether the user has been paired.
func (u *User) HasPartner() bool { return u.PartnerID != "" }

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusModified  Status = "modified"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusModified:
		return true
	}
	return false
}

type Appointment struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Date              time.Time `json:"date"`
	Notes             string    `json:"notes"`
	Status            Status    `json:"status"`
	CreatedBy         string    `json:"createdBy"`
	PartnerID         string    `json:"partnerId"`
	ModifiedBy        string    `json:"modifiedBy,omitempty"`
	ModificationNotes string    `json:"modificationNotes,omitempty"`
	Version           int64     `json:"version"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Involves reports whether uid is one side of the appointment's dyad.
func (a *Appointment) Involves(uid string) bool {
	return uid != "" && (uid == a.CreatedBy || uid == a.PartnerID)
}

// Counterpart returns the dyad member that is not uid.
func (a *Appointment) Counterpart(uid string) string {
	if uid == a.CreatedBy {
		return a.PartnerID
	}
	return a.CreatedBy
}
