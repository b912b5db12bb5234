package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flytau/flytau/internal/domain"
)

func testFlight() domain.FlightWithAircraft {
	return domain.FlightWithAircraft{
		Flight: domain.Flight{
			Number:        "TAU101",
			Origin:        "TLV",
			Destination:   "LHR",
			Departure:     time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC),
			DurationMin:   300,
			EconomyCents:  15000,
			BusinessCents: 45000,
			Status:        domain.FlightActive,
		},
		Aircraft: domain.Aircraft{
			ID:           1,
			Manufacturer: "Boeing",
			EconomyRows:  20,
			EconomyCols:  6,
			BusinessRows: 2,
			BusinessCols: 4,
		},
	}
}

func TestBuildTickets(t *testing.T) {
	fw := testFlight()

	t.Run("prices by cabin and sums the total", func(t *testing.T) {
		tickets, total, err := buildTickets(fw, []string{"1A", "5C", "10F"})
		require.NoError(t, err)
		require.Len(t, tickets, 3)

		assert.Equal(t, domain.CabinBusiness, tickets[0].Cabin)
		assert.Equal(t, int64(45000), tickets[0].PriceCents)
		assert.Equal(t, domain.CabinEconomy, tickets[1].Cabin)
		assert.Equal(t, int64(15000), tickets[1].PriceCents)
		assert.Equal(t, int64(45000+15000+15000), total)
	})

	t.Run("normalizes lowercase codes", func(t *testing.T) {
		tickets, _, err := buildTickets(fw, []string{"3b"})
		require.NoError(t, err)
		assert.Equal(t, 3, tickets[0].Row)
		assert.Equal(t, "B", tickets[0].Letter)
	})

	t.Run("rejects seats off the grid", func(t *testing.T) {
		// row 2 is business with 4 columns, E does not exist there
		_, _, err := buildTickets(fw, []string{"2E"})
		assert.ErrorIs(t, err, ErrInvalidSeat)

		// beyond the last economy row
		_, _, err = buildTickets(fw, []string{"23A"})
		assert.ErrorIs(t, err, ErrInvalidSeat)
	})

	t.Run("rejects duplicate seats in one selection", func(t *testing.T) {
		_, _, err := buildTickets(fw, []string{"5A", "5a"})
		assert.ErrorIs(t, err, ErrInvalidSeat)
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		for _, code := range []string{"", "A5", "5", "5AA"} {
			_, _, err := buildTickets(fw, []string{code})
			assert.ErrorIs(t, err, ErrInvalidSeat, "code %q", code)
		}
	})
}

func TestSeatChangeRepricing(t *testing.T) {
	fw := testFlight()

	// two economy seats
	_, oldTotal, err := buildTickets(fw, []string{"5A", "5B"})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), oldTotal)

	// moving one of them into business changes the order total
	newTickets, newTotal, err := buildTickets(fw, []string{"1A", "5B"})
	require.NoError(t, err)
	require.Len(t, newTickets, 2)
	assert.Equal(t, int64(45000+15000), newTotal)

	// dropping down to a single economy seat is also a valid new selection
	_, newTotal, err = buildTickets(fw, []string{"7C"})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), newTotal)
}

func TestCancellationSettlement(t *testing.T) {
	// $350 order cancelled in time: the order keeps the $332.50 refund as
	// its paid total, the airline keeps the $17.50 fee
	fee, refund := domain.CancellationFee(35000)
	assert.Equal(t, int64(1750), fee)
	assert.Equal(t, int64(33250), refund)
	assert.Equal(t, int64(35000), fee+refund)
}
