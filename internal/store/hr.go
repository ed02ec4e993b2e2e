package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/internreg/internal/model"
)

// HRDirectory reads and maintains the HR contacts interns are assigned to.
type HRDirectory struct {
	db *pgxpool.Pool
}

func NewHRDirectory(pool *pgxpool.Pool) *HRDirectory {
	return &HRDirectory{db: pool}
}

func (d *HRDirectory) GetHRContact(ctx context.Context, id int64) (*model.HRContact, error) {
	var c model.HRContact
	err := d.db.QueryRow(ctx, `SELECT id, name, email FROM hr_contacts WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Email)
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return &c, nil
}

func (d *HRDirectory) ListHRContacts(ctx context.Context) ([]model.HRContact, error) {
	rows, err := d.db.Query(ctx, `SELECT id, name, email FROM hr_contacts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []model.HRContact
	for rows.Next() {
		var c model.HRContact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// CreateHRContact adds a contact; the email must be unique.
func (d *HRDirectory) CreateHRContact(ctx context.Context, name, email string) (*model.HRContact, error) {
	c := model.HRContact{Name: name, Email: email}
	err := d.db.QueryRow(ctx,
		`INSERT INTO hr_contacts (name, email) VALUES ($1, $2) RETURNING id`, name, email,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, fmt.Errorf("hr contact %s: %w", email, model.ErrUniquenessViolation)
		}
		return nil, err
	}
	return &c, nil
}
