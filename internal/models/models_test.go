package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) *time.Time {
	t := time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestWindowBounded(t *testing.T) {
	assert.True(t, Window{From: day(1), To: day(5)}.Bounded())
	assert.False(t, Window{From: day(1)}.Bounded())
	assert.False(t, Window{To: day(5)}.Bounded())
	assert.False(t, Window{}.Bounded())
}

func TestWindowOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Window
		b    Window
		want bool
	}{
		{"nested", Window{day(1), day(10)}, Window{day(3), day(5)}, true},
		{"partial", Window{day(1), day(5)}, Window{day(3), day(10)}, true},
		{"touching at bound", Window{day(1), day(5)}, Window{day(5), day(8)}, true},
		{"identical", Window{day(1), day(5)}, Window{day(1), day(5)}, true},
		{"disjoint before", Window{day(1), day(3)}, Window{day(4), day(6)}, false},
		{"disjoint after", Window{day(10), day(12)}, Window{day(4), day(6)}, false},
		{"left unbounded", Window{day(1), nil}, Window{day(1), day(5)}, false},
		{"right unbounded", Window{day(1), day(5)}, Window{nil, nil}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestBookingIsActive(t *testing.T) {
	active := []string{BookingStatusReserved, BookingStatusOngoing, BookingStatusOverdue}
	inactive := []string{BookingStatusDraft, BookingStatusComplete, BookingStatusCancelled, BookingStatusArchived}

	for _, status := range active {
		b := Booking{Status: status}
		assert.True(t, b.IsActive(), status)
	}
	for _, status := range inactive {
		b := Booking{Status: status}
		assert.False(t, b.IsActive(), status)
	}
}

func TestActiveBookingStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"RESERVED", "ONGOING", "OVERDUE"},
		ActiveBookingStatuses())
}

func TestBookingWindow(t *testing.T) {
	b := Booking{From: day(1), To: day(5)}
	w := b.Window()
	assert.Equal(t, b.From, w.From)
	assert.Equal(t, b.To, w.To)

	var empty Booking
	assert.False(t, empty.Window().Bounded())
}

func TestUserFullName(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Ivan", "Petrov", "Ivan Petrov"},
		{"Ivan", "", "Ivan"},
		{"", "Petrov", "Petrov"},
		{"", "", ""},
	}
	for _, tt := range tests {
		u := User{FirstName: tt.first, LastName: tt.last}
		assert.Equal(t, tt.want, u.FullName())
	}
}
