package models

// Booking statuses. RESERVED, ONGOING and OVERDUE are the "active" states
// that count towards scheduling conflicts on shared assets.
const (
	BookingStatusDraft     = "DRAFT"
	BookingStatusReserved  = "RESERVED"
	BookingStatusOngoing   = "ONGOING"
	BookingStatusOverdue   = "OVERDUE"
	BookingStatusComplete  = "COMPLETE"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusArchived  = "ARCHIVED"
)

// ActiveBookingStatuses returns the statuses considered when looking for
// overlapping bookings.
func ActiveBookingStatuses() []string {
	return []string{BookingStatusReserved, BookingStatusOngoing, BookingStatusOverdue}
}

// User roles. SELF_SERVICE is restricted to bookings the user custodians.
const (
	RoleAdmin       = "ADMIN"
	RoleOwner       = "OWNER"
	RoleBase        = "BASE"
	RoleSelfService = "SELF_SERVICE"
)

const (
	// DefaultChecklistRateLimit максимум генераций чек-листов на пользователя в окне
	DefaultChecklistRateLimit = 10

	// DefaultChecklistRateWindow окно ограничения генераций
	DefaultChecklistRateWindow = 60 // 1 минута в секундах

	// ExportQueueSize размер очереди воркера экспорта
	ExportQueueSize = 100
)
