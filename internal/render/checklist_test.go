package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia/internal/models"
	"custodia/internal/qr"
)

func checklistFixture() ChecklistInput {
	from := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)

	booking := &models.Booking{
		ID:            "b-1",
		Name:          "Field trip",
		Status:        models.BookingStatusReserved,
		CustodianName: "Ivan Petrov",
		From:          &from,
		To:            &to,
	}

	asset := &models.Asset{
		ID:          "a-1",
		Title:       "Binoculars",
		Description: "**10x50**, tripod mount",
		Category:    &models.Category{Name: "Optics"},
		Location:    &models.Location{Name: "Warehouse A"},
		Custody:     &models.Custody{CustodianName: "Olga"},
		Bookings: []models.Booking{
			{ID: "b-1", Name: "Field trip"},
			{ID: "b-2", Name: "Trade show"},
		},
	}

	return ChecklistInput{
		Booking:      booking,
		Organization: &models.Organization{Name: "Acme Rentals"},
		Assets:       []*models.Asset{asset},
		QRCodes: map[string]qr.Code{
			"a-1": {ID: "c-1", AssetID: "a-1", PNG: []byte{0x89, 0x50}},
		},
		GeneratedAt: time.Now(),
	}
}

func TestBuildChecklist(t *testing.T) {
	html, err := BuildChecklist(checklistFixture())
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Field trip</h1>")
	assert.Contains(t, html, "Acme Rentals")
	assert.Contains(t, html, "RESERVED")
	assert.Contains(t, html, "custodian: Ivan Petrov")
	assert.Contains(t, html, "01 Jan 2026 09:00 - 05 Jan 2026 18:00")

	assert.Contains(t, html, "Binoculars")
	assert.Contains(t, html, "Optics")
	assert.Contains(t, html, "Warehouse A")
	assert.Contains(t, html, "Olga")

	// Markdown notes come out as HTML.
	assert.Contains(t, html, "<strong>10x50</strong>")

	// The current booking never lists itself as a conflict.
	assert.Contains(t, html, "Trade show")
	assert.Equal(t, 1, strings.Count(html, "Field trip"), "booking name appears in the title only")

	assert.Contains(t, html, "data:image/png;base64,")
}

func TestBuildChecklist_NoPeriodForUndatedBooking(t *testing.T) {
	input := checklistFixture()
	input.Booking.From = nil

	html, err := BuildChecklist(input)
	require.NoError(t, err)
	assert.NotContains(t, html, "01 Jan 2026")
}

func TestBuildChecklist_AssetWithoutExtras(t *testing.T) {
	input := ChecklistInput{
		Booking:      &models.Booking{ID: "b-1", Name: "Bare", Status: models.BookingStatusDraft},
		Organization: &models.Organization{Name: "Acme"},
		Assets:       []*models.Asset{{ID: "a-1", Title: "Cable"}},
	}

	html, err := BuildChecklist(input)
	require.NoError(t, err)
	assert.Contains(t, html, "Cable")
	assert.NotContains(t, html, "data:image/png")
	assert.NotContains(t, html, `class="conflict"`)
}

func TestBuildChecklist_EscapesAssetTitle(t *testing.T) {
	input := ChecklistInput{
		Booking:      &models.Booking{ID: "b-1", Name: "b"},
		Organization: &models.Organization{Name: "o"},
		Assets:       []*models.Asset{{ID: "a-1", Title: `<script>alert("x")</script>`}},
	}

	html, err := BuildChecklist(input)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestFormatPeriod(t *testing.T) {
	from := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	to := time.Date(2026, 3, 4, 16, 0, 0, 0, time.UTC)

	assert.Equal(t, "02 Mar 2026 10:30 - 04 Mar 2026 16:00",
		formatPeriod(models.Window{From: &from, To: &to}))
	assert.Equal(t, "", formatPeriod(models.Window{From: &from}))
	assert.Equal(t, "", formatPeriod(models.Window{}))
}
