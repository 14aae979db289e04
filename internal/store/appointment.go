package store

import (
	"context"

	"couple-scheduler/internal/model"
)

const appointmentCols = `id, title, scheduled_at, notes, status, created_by, partner_id,
	modified_by, modification_notes, version, created_at, updated_at`

func scanAppointment(row rowScanner) (*model.Appointment, error) {
	a := &model.Appointment{}
	var status string
	var modifiedBy *string
	if err := row.Scan(
		&a.ID, &a.Title, &a.Date, &a.Notes, &status, &a.CreatedBy, &a.PartnerID,
		&modifiedBy, &a.ModificationNotes, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, mapErr(err)
	}
	a.Status = model.Status(status)
	a.ModifiedBy = deref(modifiedBy)
	return a, nil
}

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	if a.Version == 0 {
		a.Version = 1
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, title, scheduled_at, notes, status, created_by, partner_id, version)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING created_at, updated_at`,
		a.ID, a.Title, a.Date, a.Notes, string(a.Status), a.CreatedBy, a.PartnerID, a.Version,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return mapErr(err)
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	return scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id))
}

// UpdateAppointment replaces the mutable fields when the stored version is
// still expected. On success a.Version and a.UpdatedAt reflect the new row.
// The dyad columns are never written.
func (s *Store) UpdateAppointment(ctx context.Context, a *model.Appointment, expected int64) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET title=$1, scheduled_at=$2, notes=$3, status=$4, modified_by=$5,
		     modification_notes=$6, version=version+1, updated_at=NOW()
		 WHERE id=$7 AND version=$8
		 RETURNING version, updated_at`,
		a.Title, a.Date, a.Notes, string(a.Status), nullable(a.ModifiedBy),
		a.ModificationNotes, a.ID, expected,
	).Scan(&a.Version, &a.UpdatedAt)
	if err = mapErr(err); err == model.ErrNotFound {
		return model.ErrConflict
	}
	return err
}

func (s *Store) ListAppointments(ctx context.Context, userID string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+`
		 FROM appointments
		 WHERE created_by = $1 OR partner_id = $1
		 ORDER BY scheduled_at DESC, created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
