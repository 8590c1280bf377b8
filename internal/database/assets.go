package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"custodia/internal/models"
)

// GetAssetsByID loads full asset records for the given ids: category,
// location, custody (with custodian name), QR code associations and the
// other bookings each asset appears in. When window is bounded, the
// booking list is filtered to active bookings intersecting [From, To],
// bounds inclusive. An unbounded window disables the filter entirely.
func (db *DB) GetAssetsByID(ctx context.Context, ids []string, window models.Window) ([]*models.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
        SELECT a.id, a.organization_id, a.title, COALESCE(a.description, ''),
               a.created_at, a.updated_at,
               c.id, c.name, c.color,
               l.id, l.name, l.address,
               cu.id, cu.custodian_id,
               COALESCE(TRIM(u.first_name || ' ' || COALESCE(u.last_name, '')), ''),
               cu.created_at
        FROM assets a
        LEFT JOIN categories c ON c.id = a.category_id
        LEFT JOIN locations l ON l.id = a.location_id
        LEFT JOIN custodies cu ON cu.asset_id = a.id
        LEFT JOIN users u ON u.id = cu.custodian_id
        WHERE a.id IN (` + placeholders(len(ids)) + `)
        ORDER BY a.title
    `

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, asset := range assets {
		if asset.QRCodes, err = db.getAssetQRCodes(ctx, asset.ID); err != nil {
			return nil, err
		}
		if asset.Bookings, err = db.getAssetBookings(ctx, asset.ID, window); err != nil {
			return nil, err
		}
	}

	return assets, nil
}

func (db *DB) getAssetQRCodes(ctx context.Context, assetID string) ([]models.QRCode, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, asset_id, organization_id, created_at FROM qr_codes WHERE asset_id = ? ORDER BY created_at`,
		assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get qr codes: %w", err)
	}
	defer rows.Close()

	var codes []models.QRCode
	for rows.Next() {
		var code models.QRCode
		if err := rows.Scan(&code.ID, &code.AssetID, &code.OrganizationID, &code.CreatedAt); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// getAssetBookings returns all bookings the asset belongs to. With a
// bounded window the list is narrowed to active bookings satisfying
// from <= window.To AND to >= window.From.
func (db *DB) getAssetBookings(ctx context.Context, assetID string, window models.Window) ([]models.Booking, error) {
	query := `
        SELECT b.id, b.organization_id, b.name, b.status, b.custodian_id, '',
               b.from_date, b.to_date, b.created_at, b.updated_at
        FROM bookings b
        JOIN booking_assets ba ON ba.booking_id = b.id
        WHERE ba.asset_id = ?
    `
	args := []any{assetID}

	if window.Bounded() {
		statuses := models.ActiveBookingStatuses()
		query += ` AND b.from_date <= ? AND b.to_date >= ?
            AND b.status IN (` + placeholders(len(statuses)) + `)`
		args = append(args, window.To.UTC(), window.From.UTC())
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	query += ` ORDER BY b.from_date, b.created_at`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

// Write helpers for fixtures and imports.

func (db *DB) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	var categoryID, locationID any
	if asset.Category != nil {
		categoryID = asset.Category.ID
	}
	if asset.Location != nil {
		locationID = asset.Location.ID
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO assets (id, organization_id, title, description, category_id, location_id, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.ID, asset.OrganizationID, asset.Title, asset.Description, categoryID, locationID, now, now)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	asset.CreatedAt = now
	asset.UpdatedAt = now
	return nil
}

func (db *DB) CreateCategory(ctx context.Context, organizationID string, category *models.Category) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO categories (id, organization_id, name, color) VALUES (?, ?, ?, ?)`,
		category.ID, organizationID, category.Name, category.Color)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (db *DB) CreateLocation(ctx context.Context, organizationID string, location *models.Location) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO locations (id, organization_id, name, address) VALUES (?, ?, ?, ?)`,
		location.ID, organizationID, location.Name, location.Address)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

// SetCustody records the current holder of an asset, replacing any
// previous custody row.
func (db *DB) SetCustody(ctx context.Context, custody *models.Custody) error {
	if custody.ID == "" {
		custody.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx,
		`INSERT INTO custodies (id, asset_id, custodian_id, created_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(asset_id) DO UPDATE SET custodian_id = excluded.custodian_id, created_at = excluded.created_at`,
		custody.ID, custody.AssetID, custody.CustodianID, now)
	if err != nil {
		return fmt.Errorf("failed to set custody: %w", err)
	}
	custody.CreatedAt = now
	return nil
}

func (db *DB) CreateQRCode(ctx context.Context, code *models.QRCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx,
		`INSERT INTO qr_codes (id, asset_id, organization_id, created_at) VALUES (?, ?, ?, ?)`,
		code.ID, code.AssetID, code.OrganizationID, now)
	if err != nil {
		return fmt.Errorf("failed to create qr code: %w", err)
	}
	code.CreatedAt = now
	return nil
}

func scanAsset(rows *sql.Rows) (*models.Asset, error) {
	var (
		asset         models.Asset
		categoryID    sql.NullString
		categoryName  sql.NullString
		categoryColor sql.NullString
		locationID    sql.NullString
		locationName  sql.NullString
		locationAddr  sql.NullString
		custodyID     sql.NullString
		custodianID   sql.NullString
		custodianName sql.NullString
		custodySince  sql.NullTime
	)

	err := rows.Scan(
		&asset.ID,
		&asset.OrganizationID,
		&asset.Title,
		&asset.Description,
		&asset.CreatedAt,
		&asset.UpdatedAt,
		&categoryID, &categoryName, &categoryColor,
		&locationID, &locationName, &locationAddr,
		&custodyID, &custodianID, &custodianName, &custodySince,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		asset.Category = &models.Category{
			ID:    categoryID.String,
			Name:  categoryName.String,
			Color: categoryColor.String,
		}
	}
	if locationID.Valid {
		asset.Location = &models.Location{
			ID:      locationID.String,
			Name:    locationName.String,
			Address: locationAddr.String,
		}
	}
	if custodyID.Valid {
		asset.Custody = &models.Custody{
			ID:            custodyID.String,
			AssetID:       asset.ID,
			CustodianID:   custodianID.String,
			CustodianName: custodianName.String,
			CreatedAt:     custodySince.Time,
		}
	}

	return &asset, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
