package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/internreg/internal/model"
)

type UserStore struct {
	db querier
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{db: pool}
}

const userColumns = `id, email, display_name, role, status, created_at, last_login_at`

func (s *UserStore) CountAll(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM staff_users`).Scan(&n)
	return n, err
}

func (s *UserStore) Create(ctx context.Context, id, email, displayName, passwordHash string, role model.Role) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO staff_users (id, email, display_name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		id, email, displayName, passwordHash, string(role),
	)
	if isUniqueViolation(err, "") {
		return ErrEmailTaken
	}
	return err
}

// GetByEmail returns the user and its password hash.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.StaffUser, string, error) {
	var hash string
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+`, password_hash FROM staff_users WHERE email = $1`, email,
	), &hash)
	if err != nil {
		return nil, "", notFound(err, ErrNotFound)
	}
	return u, hash, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.StaffUser, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM staff_users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return u, nil
}

func (s *UserStore) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `UPDATE staff_users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

func (s *UserStore) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	if status != model.StatusActive {
		var remaining int
		err := s.db.QueryRow(ctx, `
			SELECT COUNT(*) FROM staff_users
			WHERE role = 'admin' AND status = 'active' AND id <> $1`, id,
		).Scan(&remaining)
		if err != nil {
			return err
		}
		u, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u.Role == model.RoleAdmin && remaining == 0 {
			return ErrLastAdmin
		}
	}
	tag, err := s.db.Exec(ctx, `UPDATE staff_users SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, extra ...any) (*model.StaffUser, error) {
	var (
		u         model.StaffUser
		role      string
		status    string
		lastLogin pgtype.Timestamptz
	)
	dest := append([]any{&u.ID, &u.Email, &u.DisplayName, &role, &status, &u.CreatedAt, &lastLogin}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	u.Status = model.Status(status)
	u.LastLoginAt = pgtimePtr(lastLogin)
	return &u, nil
}

func pgtimePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
