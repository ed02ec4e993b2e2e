package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/internreg/internal/model"
)

const registrationColumns = `
	r.id, r.select_intern_id, r.select_employee_id, r.select_hr_id,
	r.intern_name, r.intern_email, r.intern_id, r.intern_tech_stack,
	r.created_by, r.created_at, r.attachment_filename,
	COALESCE(
		(SELECT array_agg(rel.hr_id ORDER BY rel.hr_id) FROM intern_hr_rel rel WHERE rel.intern_id = r.id),
		'{}'
	)`

type RegistrationStore struct {
	db *pgxpool.Pool
}

func NewRegistrationStore(pool *pgxpool.Pool) *RegistrationStore {
	return &RegistrationStore{db: pool}
}

// Create inserts the registration and its HR contact links in one
// transaction. A duplicate intern email yields model.ErrUniquenessViolation.
func (s *RegistrationStore) Create(ctx context.Context, reg model.Registration) (*model.Registration, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var techStack *string
	if reg.TechStack != "" {
		v := string(reg.TechStack)
		techStack = &v
	}
	var filename *string
	if reg.HasAttachment() {
		filename = &reg.AttachmentFilename
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO intern_registrations (
			select_intern_id, select_employee_id, select_hr_id,
			intern_name, intern_email, intern_id, intern_tech_stack,
			created_by, created_at, attachment, attachment_filename
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		reg.SelectedInternRef, reg.SelectedEmployeeRef, reg.SelectedHRRef,
		reg.InternName, reg.InternEmail, reg.InternID, techStack,
		reg.CreatedBy, reg.CreatedAt, reg.Attachment, filename,
	).Scan(&reg.ID)
	if err != nil {
		if isUniqueViolation(err, "unique_email") {
			return nil, model.ErrUniquenessViolation
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	for _, hrID := range reg.HRContacts {
		if _, err := tx.Exec(ctx,
			`INSERT INTO intern_hr_rel (intern_id, hr_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			reg.ID, hrID,
		); err != nil {
			return nil, fmt.Errorf("link hr contact %d: %w", hrID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Delete removes a registration and its HR contact links.
func (s *RegistrationStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM intern_registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns the registration without its attachment payload.
func (s *RegistrationStore) GetByID(ctx context.Context, id int64) (*model.Registration, error) {
	row := s.db.QueryRow(ctx, `SELECT `+registrationColumns+` FROM intern_registrations r WHERE r.id = $1`, id)
	reg, err := scanRegistration(row)
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return reg, nil
}

// List returns registrations newest first.
func (s *RegistrationStore) List(ctx context.Context, limit int) ([]model.Registration, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(ctx, `SELECT `+registrationColumns+`
		FROM intern_registrations r
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectRegistrations(rows)
}

// ListCreatedOnOrBefore returns registrations whose creation date is on or
// before asOf.
func (s *RegistrationStore) ListCreatedOnOrBefore(ctx context.Context, asOf time.Time) ([]model.Registration, error) {
	rows, err := s.db.Query(ctx, `SELECT `+registrationColumns+`
		FROM intern_registrations r
		WHERE r.created_at <= $1
		ORDER BY r.id`, model.DateOf(asOf))
	if err != nil {
		return nil, err
	}
	return collectRegistrations(rows)
}

func collectRegistrations(rows pgx.Rows) ([]model.Registration, error) {
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var (
		reg       model.Registration
		techStack *string
		filename  *string
	)
	err := row.Scan(
		&reg.ID, &reg.SelectedInternRef, &reg.SelectedEmployeeRef, &reg.SelectedHRRef,
		&reg.InternName, &reg.InternEmail, &reg.InternID, &techStack,
		&reg.CreatedBy, &reg.CreatedAt, &filename,
		&reg.HRContacts,
	)
	if err != nil {
		return nil, err
	}
	if techStack != nil {
		reg.TechStack = model.TechStack(*techStack)
	}
	if filename != nil {
		reg.AttachmentFilename = *filename
	}
	return &reg, nil
}
