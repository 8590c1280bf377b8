package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"custodia/internal/models"
)

// GetBookingByID returns the booking scoped to an organization, with the
// custodian name joined in. Missing rows map to ErrBookingNotFound.
func (db *DB) GetBookingByID(ctx context.Context, id, organizationID string) (*models.Booking, error) {
	query := `
        SELECT b.id, b.organization_id, b.name, b.status, b.custodian_id,
               COALESCE(TRIM(u.first_name || ' ' || COALESCE(u.last_name, '')), ''),
               b.from_date, b.to_date, b.created_at, b.updated_at
        FROM bookings b
        LEFT JOIN users u ON u.id = b.custodian_id
        WHERE b.id = ? AND b.organization_id = ?
    `

	booking, err := scanBooking(db.QueryRowContext(ctx, query, id, organizationID))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// GetBookingAssetIDs returns the ids of all assets attached to a booking.
func (db *DB) GetBookingAssetIDs(ctx context.Context, bookingID string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT asset_id FROM booking_assets WHERE booking_id = ? ORDER BY asset_id`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking assets: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetBookingsByDateRange returns bookings whose window intersects the
// given period, for the register export.
func (db *DB) GetBookingsByDateRange(ctx context.Context, organizationID string, start, end time.Time) ([]*models.Booking, error) {
	query := `
        SELECT b.id, b.organization_id, b.name, b.status, b.custodian_id,
               COALESCE(TRIM(u.first_name || ' ' || COALESCE(u.last_name, '')), ''),
               b.from_date, b.to_date, b.created_at, b.updated_at
        FROM bookings b
        LEFT JOIN users u ON u.id = b.custodian_id
        WHERE b.organization_id = ?
          AND b.from_date IS NOT NULL AND b.to_date IS NOT NULL
          AND b.from_date <= ? AND b.to_date >= ?
        ORDER BY b.from_date, b.created_at
    `

	rows, err := db.QueryContext(ctx, query, organizationID, end.UTC(), start.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by range: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// CreateBooking inserts a booking row. Used by fixtures and imports; the
// checklist pipeline itself never writes.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	query := `INSERT INTO bookings (
				id, organization_id, name, status, custodian_id,
				from_date, to_date, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, query,
		booking.ID,
		booking.OrganizationID,
		booking.Name,
		booking.Status,
		booking.CustodianID,
		utcOrNil(booking.From),
		utcOrNil(booking.To),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

// AssignAsset attaches an asset to a booking.
func (db *DB) AssignAsset(ctx context.Context, bookingID, assetID string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO booking_assets (booking_id, asset_id) VALUES (?, ?)`,
		bookingID, assetID)
	if err != nil {
		return fmt.Errorf("failed to assign asset: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		booking models.Booking
		from    sql.NullTime
		to      sql.NullTime
	)
	err := row.Scan(
		&booking.ID,
		&booking.OrganizationID,
		&booking.Name,
		&booking.Status,
		&booking.CustodianID,
		&booking.CustodianName,
		&from,
		&to,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if from.Valid {
		t := from.Time
		booking.From = &t
	}
	if to.Valid {
		t := to.Time
		booking.To = &t
	}
	return &booking, nil
}

func utcOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
