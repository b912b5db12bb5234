package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, 9, 10, 7, 0, 0, 0, time.UTC)
	h := func(hours int) time.Time { return base.Add(time.Duration(hours) * time.Hour) }

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"fully inside", h(0), h(5), h(1), h(2), true},
		{"partial front", h(0), h(5), h(-1), h(1), true},
		{"partial back", h(0), h(5), h(4), h(8), true},
		{"identical", h(0), h(5), h(0), h(5), true},
		{"disjoint before", h(0), h(5), h(-3), h(-1), false},
		{"disjoint after", h(0), h(5), h(6), h(8), false},
		{"touching end-to-start", h(0), h(5), h(5), h(8), false},
		{"touching start-to-end", h(5), h(8), h(0), h(5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestCancellationFee(t *testing.T) {
	// $350.00 order: $17.50 fee, $332.50 refund
	fee, refund := CancellationFee(35000)
	assert.Equal(t, int64(1750), fee)
	assert.Equal(t, int64(33250), refund)

	// fee truncates to whole cents
	fee, refund = CancellationFee(999)
	assert.Equal(t, int64(49), fee)
	assert.Equal(t, int64(950), refund)

	fee, refund = CancellationFee(0)
	assert.Zero(t, fee)
	assert.Zero(t, refund)
}

func TestCanCancelOrder(t *testing.T) {
	departure := time.Date(2025, 9, 10, 7, 0, 0, 0, time.UTC)

	// booked on the 8th, more than 36h out
	assert.True(t, CanCancelOrder(departure, time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC)))
	// checked at 06:00 the day before: under 36h
	assert.False(t, CanCancelOrder(departure, time.Date(2025, 9, 9, 6, 0, 0, 0, time.UTC)))
	// exactly 36h remaining is rejected
	assert.False(t, CanCancelOrder(departure, departure.Add(-36*time.Hour)))
	assert.True(t, CanCancelOrder(departure, departure.Add(-36*time.Hour-time.Second)))
}

func TestCanCancelFlight(t *testing.T) {
	departure := time.Date(2025, 9, 10, 7, 0, 0, 0, time.UTC)

	assert.True(t, CanCancelFlight(departure, departure.Add(-73*time.Hour)))
	assert.False(t, CanCancelFlight(departure, departure.Add(-72*time.Hour)))
	assert.False(t, CanCancelFlight(departure, departure.Add(-time.Hour)))
}

func TestIsLongFlight(t *testing.T) {
	assert.False(t, IsLongFlight(298))
	assert.False(t, IsLongFlight(360))
	assert.True(t, IsLongFlight(361))
}

func TestCrewRequirements(t *testing.T) {
	pilots, attendants := CrewRequirements(AircraftLarge)
	assert.Equal(t, 3, pilots)
	assert.Equal(t, 6, attendants)

	pilots, attendants = CrewRequirements(AircraftSmall)
	assert.Equal(t, 2, pilots)
	assert.Equal(t, 3, attendants)
}

func TestNewBookingCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewBookingCode()
		assert.Len(t, code, BookingCodeLength)
		for _, c := range code {
			assert.Contains(t, bookingAlphabet, string(c))
		}
		seen[code] = true
	}
	// 100 draws from a 32^8 space should never collide
	assert.Len(t, seen, 100)
}

func TestNewFlightNumber(t *testing.T) {
	n := NewFlightNumber()
	assert.Len(t, n, 6)
	assert.True(t, strings.HasPrefix(n, "TAU"))
}
