package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/internreg/internal/model"
)

// AttachmentStore keeps binary blobs linked to an owning record by
// (res_model, res_id).
type AttachmentStore struct {
	db *pgxpool.Pool
}

func NewAttachmentStore(pool *pgxpool.Pool) *AttachmentStore {
	return &AttachmentStore{db: pool}
}

func (s *AttachmentStore) Create(ctx context.Context, att model.Attachment) (*model.Attachment, error) {
	att.ID = uuid.NewString()
	if att.ContentType == "" {
		att.ContentType = "application/octet-stream"
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO attachments (id, name, content_type, res_model, res_id, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		att.ID, att.Name, att.ContentType, att.OwnerType, att.OwnerID, att.Data,
	).Scan(&att.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert attachment: %w", err)
	}
	return &att, nil
}

// ListByOwner returns attachment metadata for one record, without payloads.
func (s *AttachmentStore) ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]model.Attachment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, content_type, res_model, res_id, created_at
		FROM attachments
		WHERE res_model = $1 AND res_id = $2
		ORDER BY created_at`, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var atts []model.Attachment
	for rows.Next() {
		var att model.Attachment
		if err := rows.Scan(&att.ID, &att.Name, &att.ContentType, &att.OwnerType, &att.OwnerID, &att.CreatedAt); err != nil {
			return nil, err
		}
		atts = append(atts, att)
	}
	return atts, rows.Err()
}
