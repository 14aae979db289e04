package store

import (
	"context"

	"couple-scheduler/internal/model"
)

const userCols = `id, username, email, password_hash, partner_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	var partner *string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &partner, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	u.PartnerID = deref(partner)
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, username, email, password_hash) VALUES ($1,$2,$3,$4)
		 RETURNING created_at, updated_at`,
		u.ID, u.Username, u.Email, u.PasswordHash,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	return mapErr(err)
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

// BindPartners pairs a and b in one transaction. Each row is only written
// while unpaired (or already pointing at the other side), so a half-bound
// pair can never be committed.
func (s *Store) BindPartners(ctx context.Context, a, b string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range [][2]string{{a, b}, {b, a}} {
		tag, err := tx.Exec(ctx,
			`UPDATE users SET partner_id = $2, updated_at = NOW()
			 WHERE id = $1 AND (partner_id IS NULL OR partner_id = $2)`,
			p[0], p[1],
		)
		if err != nil {
			return mapErr(err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrAlreadyPaired
		}
	}

	return tx.Commit(ctx)
}
