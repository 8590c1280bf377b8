package models

import "time"

type Booking struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Name           string     `json:"name"`
	Status         string     `json:"status"` // DRAFT, RESERVED, ONGOING, OVERDUE, COMPLETE, CANCELLED, ARCHIVED
	CustodianID    string     `json:"custodian_id"`
	CustodianName  string     `json:"custodian_name,omitempty"`
	From           *time.Time `json:"from,omitempty"`
	To             *time.Time `json:"to,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Window returns the booking period as an overlap window. Either bound may
// be nil for draft bookings that have no dates yet.
func (b *Booking) Window() Window {
	return Window{From: b.From, To: b.To}
}

// IsActive reports whether the booking holds one of the statuses that count
// towards scheduling conflicts.
func (b *Booking) IsActive() bool {
	switch b.Status {
	case BookingStatusReserved, BookingStatusOngoing, BookingStatusOverdue:
		return true
	}
	return false
}

// Window is a [From, To] interval used to detect scheduling conflicts.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Bounded reports whether both ends of the window are set. The overlap
// filter is only applied to bounded windows; a half-open window falls
// through to "no filter".
func (w Window) Bounded() bool {
	return w.From != nil && w.To != nil
}

// Overlaps reports whether two bounded intervals intersect, bounds
// inclusive: from1 <= to2 AND to1 >= from2.
func (w Window) Overlaps(other Window) bool {
	if !w.Bounded() || !other.Bounded() {
		return false
	}
	return !w.From.After(*other.To) && !w.To.Before(*other.From)
}
