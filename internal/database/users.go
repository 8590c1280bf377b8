package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"custodia/internal/models"
)

func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
        SELECT id, organization_id, first_name, COALESCE(last_name, ''), COALESCE(email, ''), role, created_at, updated_at
        FROM users WHERE id = ?
    `

	var user models.User
	err := db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.OrganizationID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.Role == "" {
		user.Role = models.RoleBase
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, organization_id, first_name, last_name, email, role, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.OrganizationID, user.FirstName, user.LastName, user.Email, user.Role, now, now)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}
