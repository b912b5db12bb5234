package flights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flytau/flytau/internal/domain"
	postgresrepo "github.com/flytau/flytau/internal/repository/postgres"
)

func testFlight() domain.FlightWithAircraft {
	return domain.FlightWithAircraft{
		Flight: domain.Flight{
			Number:        "TAU205",
			EconomyCents:  12000,
			BusinessCents: 40000,
		},
		Aircraft: domain.Aircraft{
			ID:           7,
			BusinessRows: 1,
			BusinessCols: 2,
			EconomyRows:  2,
			EconomyCols:  3,
		},
	}
}

func TestBuildSeatMap(t *testing.T) {
	fw := testFlight()

	t.Run("empty flight is fully available", func(t *testing.T) {
		seats := buildSeatMap(fw, nil)
		require.Len(t, seats, 8)

		for _, s := range seats {
			assert.Equal(t, domain.SeatAvailable, s.Status, "seat %s", s.Code)
		}
	})

	t.Run("prices by cabin", func(t *testing.T) {
		seats := buildSeatMap(fw, nil)

		byCode := make(map[string]domain.SeatWithStatus, len(seats))
		for _, s := range seats {
			byCode[s.Code] = s
		}

		assert.Equal(t, domain.CabinBusiness, byCode["1A"].Cabin)
		assert.Equal(t, int64(40000), byCode["1A"].PriceCents)
		assert.Equal(t, domain.CabinEconomy, byCode["2A"].Cabin)
		assert.Equal(t, int64(12000), byCode["2A"].PriceCents)
	})

	t.Run("live tickets mark their seats taken", func(t *testing.T) {
		taken := []postgresrepo.TakenSeat{
			{Row: 1, Letter: "B", Cabin: domain.CabinBusiness},
			{Row: 3, Letter: "C", Cabin: domain.CabinEconomy},
		}

		seats := buildSeatMap(fw, taken)

		var takenCodes []string
		for _, s := range seats {
			if s.Status == domain.SeatTaken {
				takenCodes = append(takenCodes, s.Code)
			}
		}

		assert.ElementsMatch(t, []string{"1B", "3C"}, takenCodes)
	})

	t.Run("grid order is business rows then economy", func(t *testing.T) {
		seats := buildSeatMap(fw, nil)

		codes := make([]string, 0, len(seats))
		for _, s := range seats {
			codes = append(codes, s.Code)
		}

		assert.Equal(t, []string{"1A", "1B", "2A", "2B", "2C", "3A", "3B", "3C"}, codes)
	})
}
