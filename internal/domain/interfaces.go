package domain

import (
	"context"
	"time"

	"custodia/internal/models"
)

// Store is the read surface the checklist pipeline needs, plus the range
// query used by register exports. Implemented by internal/database.
type Store interface {
	GetBookingByID(ctx context.Context, id, organizationID string) (*models.Booking, error)
	GetBookingAssetIDs(ctx context.Context, bookingID string) ([]string, error)
	GetAssetsByID(ctx context.Context, ids []string, window models.Window) ([]*models.Asset, error)
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	GetBookingsByDateRange(ctx context.Context, organizationID string, start, end time.Time) ([]*models.Booking, error)
}

// ChecklistQuery identifies one checklist request: the booking, its
// organization scope and the requesting identity.
type ChecklistQuery struct {
	BookingID      string
	OrganizationID string
	UserID         string
	Role           string
}

// ChecklistGenerator produces booking checklist PDFs.
type ChecklistGenerator interface {
	GenerateChecklist(ctx context.Context, query ChecklistQuery) ([]byte, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// UsageRepository enforces per-user generation limits.
type UsageRepository interface {
	CheckRateLimit(ctx context.Context, userID string, limit int, window time.Duration) (bool, error)
}

// ExportQueue accepts background export tasks.
type ExportQueue interface {
	EnqueueChecklist(ctx context.Context, query ChecklistQuery) error
	EnqueueRegister(ctx context.Context, organizationID string, start, end time.Time) error
}
