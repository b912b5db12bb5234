package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatCode(t *testing.T) {
	tests := []struct {
		code    string
		row     int
		letter  string
		wantErr bool
	}{
		{code: "5A", row: 5, letter: "A"},
		{code: "12f", row: 12, letter: "F"},
		{code: " 1J ", row: 1, letter: "J"},
		{code: "A5", wantErr: true},
		{code: "5", wantErr: true},
		{code: "A", wantErr: true},
		{code: "5AA", wantErr: true},
		{code: "0A", wantErr: true},
		{code: "5K", wantErr: true},
		{code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			row, letter, err := ParseSeatCode(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.letter, letter)
		})
	}
}

func TestSeatLayout(t *testing.T) {
	a := Aircraft{
		BusinessRows: 2, BusinessCols: 4,
		EconomyRows: 20, EconomyCols: 6,
	}

	seats := SeatLayout(a)
	require.Len(t, seats, a.TotalSeats())

	// business rows come first
	assert.Equal(t, "1A", seats[0].Code)
	assert.Equal(t, CabinBusiness, seats[0].Cabin)
	assert.Equal(t, "2D", seats[7].Code)

	// economy numbering continues after the business cabin
	first := seats[8]
	assert.Equal(t, "3A", first.Code)
	assert.Equal(t, CabinEconomy, first.Cabin)

	last := seats[len(seats)-1]
	assert.Equal(t, "22F", last.Code)
}

func TestSeatLayoutNoBusinessCabin(t *testing.T) {
	a := Aircraft{EconomyRows: 10, EconomyCols: 6}

	seats := SeatLayout(a)
	require.Len(t, seats, 60)
	assert.Equal(t, "1A", seats[0].Code)
	for _, s := range seats {
		assert.Equal(t, CabinEconomy, s.Cabin)
	}
}

func TestCabinForRow(t *testing.T) {
	a := Aircraft{BusinessRows: 3, BusinessCols: 4, EconomyRows: 10, EconomyCols: 6}

	cabin, err := a.CabinForRow(3)
	require.NoError(t, err)
	assert.Equal(t, CabinBusiness, cabin)

	cabin, err = a.CabinForRow(4)
	require.NoError(t, err)
	assert.Equal(t, CabinEconomy, cabin)

	_, err = a.CabinForRow(14)
	assert.Error(t, err)

	_, err = a.CabinForRow(0)
	assert.Error(t, err)
}

func TestSeatExists(t *testing.T) {
	a := Aircraft{BusinessRows: 2, BusinessCols: 4, EconomyRows: 10, EconomyCols: 6}

	assert.True(t, a.SeatExists(1, "D"))
	assert.False(t, a.SeatExists(1, "E")) // business cabin has 4 columns
	assert.True(t, a.SeatExists(3, "F"))
	assert.False(t, a.SeatExists(3, "G"))
	assert.False(t, a.SeatExists(13, "A"))
	assert.False(t, a.SeatExists(1, "?"))
}

func TestAircraftSize(t *testing.T) {
	large := Aircraft{BusinessRows: 2, BusinessCols: 4, EconomyRows: 20, EconomyCols: 6}
	small := Aircraft{EconomyRows: 20, EconomyCols: 6}

	assert.Equal(t, AircraftLarge, large.Size())
	assert.Equal(t, AircraftSmall, small.Size())
	assert.Equal(t, 128, large.TotalSeats())
}
