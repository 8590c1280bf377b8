package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia/internal/models"
)

func seedOrgAndUser(t *testing.T, db *DB) (*models.Organization, *models.User) {
	t.Helper()
	ctx := context.Background()

	org := &models.Organization{Name: "Acme Rentals"}
	require.NoError(t, db.CreateOrganization(ctx, org))

	user := &models.User{
		OrganizationID: org.ID,
		FirstName:      "Ivan",
		LastName:       "Petrov",
		Role:           models.RoleBase,
	}
	require.NoError(t, db.CreateUser(ctx, user))

	return org, user
}

func datePtr(t time.Time) *time.Time { return &t }

func TestGetBookingByID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	org, user := seedOrgAndUser(t, db)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	booking := &models.Booking{
		OrganizationID: org.ID,
		Name:           "Field trip",
		Status:         models.BookingStatusReserved,
		CustodianID:    user.ID,
		From:           &from,
		To:             &to,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))
	require.NotEmpty(t, booking.ID)

	got, err := db.GetBookingByID(ctx, booking.ID, org.ID)
	require.NoError(t, err)

	assert.Equal(t, booking.ID, got.ID)
	assert.Equal(t, "Field trip", got.Name)
	assert.Equal(t, models.BookingStatusReserved, got.Status)
	assert.Equal(t, user.ID, got.CustodianID)
	assert.Equal(t, "Ivan Petrov", got.CustodianName)
	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	assert.True(t, got.From.Equal(from))
	assert.True(t, got.To.Equal(to))
}

func TestGetBookingByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetBookingByID(context.Background(), "missing", "org-1")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetBookingByID_WrongOrganization(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	org, user := seedOrgAndUser(t, db)

	booking := &models.Booking{
		OrganizationID: org.ID,
		Name:           "Draft booking",
		Status:         models.BookingStatusDraft,
		CustodianID:    user.ID,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	// Same id, different organization: must not leak across tenants.
	_, err := db.GetBookingByID(ctx, booking.ID, "other-org")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetBookingByID_NilDates(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	org, user := seedOrgAndUser(t, db)

	booking := &models.Booking{
		OrganizationID: org.ID,
		Name:           "Undated draft",
		Status:         models.BookingStatusDraft,
		CustodianID:    user.ID,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	got, err := db.GetBookingByID(ctx, booking.ID, org.ID)
	require.NoError(t, err)
	assert.Nil(t, got.From)
	assert.Nil(t, got.To)
}

func TestGetBookingAssetIDs(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	org, user := seedOrgAndUser(t, db)

	booking := &models.Booking{
		OrganizationID: org.ID,
		Name:           "Gear checkout",
		Status:         models.BookingStatusReserved,
		CustodianID:    user.ID,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	a1 := &models.Asset{OrganizationID: org.ID, Title: "Camera"}
	a2 := &models.Asset{OrganizationID: org.ID, Title: "Tripod"}
	require.NoError(t, db.CreateAsset(ctx, a1))
	require.NoError(t, db.CreateAsset(ctx, a2))

	require.NoError(t, db.AssignAsset(ctx, booking.ID, a1.ID))
	require.NoError(t, db.AssignAsset(ctx, booking.ID, a2.ID))
	// Duplicate assignment is a no-op.
	require.NoError(t, db.AssignAsset(ctx, booking.ID, a1.ID))

	ids, err := db.GetBookingAssetIDs(ctx, booking.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, a1.ID)
	assert.Contains(t, ids, a2.ID)
}

func TestGetBookingAssetIDs_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ids, err := db.GetBookingAssetIDs(context.Background(), "no-such-booking")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGetBookingsByDateRange(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	org, user := seedOrgAndUser(t, db)

	mk := func(name string, from, to time.Time) {
		b := &models.Booking{
			OrganizationID: org.ID,
			Name:           name,
			Status:         models.BookingStatusReserved,
			CustodianID:    user.ID,
			From:           datePtr(from),
			To:             datePtr(to),
		}
		require.NoError(t, db.CreateBooking(ctx, b))
	}

	jan := func(day int) time.Time {
		return time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
	}

	mk("inside", jan(10), jan(12))
	mk("straddles start", jan(1), jan(6))
	mk("before", jan(1), jan(3))
	mk("after", jan(25), jan(28))

	// Undated bookings never match a range query.
	undated := &models.Booking{
		OrganizationID: org.ID,
		Name:           "undated",
		Status:         models.BookingStatusDraft,
		CustodianID:    user.ID,
	}
	require.NoError(t, db.CreateBooking(ctx, undated))

	bookings, err := db.GetBookingsByDateRange(ctx, org.ID, jan(5), jan(15))
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	names := []string{bookings[0].Name, bookings[1].Name}
	assert.Contains(t, names, "inside")
	assert.Contains(t, names, "straddles start")
}
