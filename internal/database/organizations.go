package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"custodia/internal/models"
)

// GetOrganization returns the organization with its logo image, if any.
func (db *DB) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	query := `
        SELECT id, name, image_blob, image_content_type, created_at, updated_at
        FROM organizations WHERE id = ?
    `

	var (
		org         models.Organization
		blob        []byte
		contentType sql.NullString
	)
	err := db.QueryRowContext(ctx, query, id).Scan(
		&org.ID,
		&org.Name,
		&blob,
		&contentType,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	if len(blob) > 0 {
		org.Image = &models.Image{
			ID:          org.ID,
			ContentType: contentType.String,
			Blob:        blob,
		}
	}

	return &org, nil
}

func (db *DB) CreateOrganization(ctx context.Context, org *models.Organization) error {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	var blob []byte
	var contentType any
	if org.Image != nil {
		blob = org.Image.Blob
		contentType = org.Image.ContentType
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO organizations (id, name, image_blob, image_content_type, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		org.ID, org.Name, blob, contentType, now, now)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	org.CreatedAt = now
	org.UpdatedAt = now
	return nil
}
