package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/internreg/internal/model"
)

type TemplateStore struct {
	db *pgxpool.Pool
}

func NewTemplateStore(pool *pgxpool.Pool) *TemplateStore {
	return &TemplateStore{db: pool}
}

// Get returns the named template or model.ErrTemplateNotFound.
func (s *TemplateStore) Get(ctx context.Context, name string) (*model.MailTemplate, error) {
	var (
		t         model.MailTemplate
		updatedBy pgtype.Text
	)
	err := s.db.QueryRow(ctx, `
		SELECT name, email_to, subject, body, is_html, updated_at, updated_by
		FROM mail_templates WHERE name = $1`, name,
	).Scan(&t.Name, &t.EmailTo, &t.Subject, &t.Body, &t.IsHTML, &t.UpdatedAt, &updatedBy)
	if err != nil {
		return nil, notFound(err, model.ErrTemplateNotFound)
	}
	t.UpdatedBy = updatedBy.String
	return &t, nil
}

func (s *TemplateStore) List(ctx context.Context) ([]model.MailTemplate, error) {
	rows, err := s.db.Query(ctx, `
		SELECT name, email_to, subject, body, is_html, updated_at, updated_by
		FROM mail_templates ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []model.MailTemplate
	for rows.Next() {
		var (
			t         model.MailTemplate
			updatedBy pgtype.Text
		)
		if err := rows.Scan(&t.Name, &t.EmailTo, &t.Subject, &t.Body, &t.IsHTML, &t.UpdatedAt, &updatedBy); err != nil {
			return nil, err
		}
		t.UpdatedBy = updatedBy.String
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Save inserts or replaces a template.
func (s *TemplateStore) Save(ctx context.Context, t *model.MailTemplate, updatedBy string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO mail_templates (name, email_to, subject, body, is_html, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6)
		ON CONFLICT (name) DO UPDATE SET
			email_to = EXCLUDED.email_to,
			subject = EXCLUDED.subject,
			body = EXCLUDED.body,
			is_html = EXCLUDED.is_html,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`,
		t.Name, t.EmailTo, t.Subject, t.Body, t.IsHTML,
		pgtype.Text{String: updatedBy, Valid: updatedBy != ""},
	)
	return err
}

// Delete removes a template; the emails that depend on it stop being sent.
func (s *TemplateStore) Delete(ctx context.Context, name string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM mail_templates WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTemplateNotFound
	}
	return nil
}

// SeedDefault inserts the default templates if the table is empty.
func (s *TemplateStore) SeedDefault(ctx context.Context) error {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM mail_templates`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults, err := model.DefaultTemplates()
	if err != nil {
		return err
	}
	for i := range defaults {
		if err := s.Save(ctx, &defaults[i], ""); err != nil {
			return fmt.Errorf("seed template %q: %w", defaults[i].Name, err)
		}
	}
	slog.Info("templates: seeded defaults", "count", len(defaults))
	return nil
}
