package models

import "time"

type Asset struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"` // markdown
	Category       *Category `json:"category,omitempty"`
	Location       *Location `json:"location,omitempty"`
	Custody        *Custody  `json:"custody,omitempty"`
	QRCodes        []QRCode  `json:"qr_codes,omitempty"`
	Bookings       []Booking `json:"bookings,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type Location struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Custody records which user currently holds the asset.
type Custody struct {
	ID            string    `json:"id"`
	AssetID       string    `json:"asset_id"`
	CustodianID   string    `json:"custodian_id"`
	CustodianName string    `json:"custodian_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// QRCode is the persisted association between an asset and a printed code.
// The rendered image itself is request-scoped and never stored.
type QRCode struct {
	ID             string    `json:"id"`
	AssetID        string    `json:"asset_id"`
	OrganizationID string    `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
}
