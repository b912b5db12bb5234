package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// seatLetters caps cabins at 10 seats per row.
const seatLetters = "ABCDEFGHIJ"

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatTaken     SeatStatus = "taken"
)

type Seat struct {
	Code   string
	Cabin  Cabin
	Row    int
	Letter string
}

type SeatWithStatus struct {
	Seat
	Status     SeatStatus
	PriceCents int64
}

func SeatCode(row int, letter string) string {
	return fmt.Sprintf("%d%s", row, letter)
}

// ParseSeatCode splits a code like "5A" into row and letter.
func ParseSeatCode(code string) (row int, letter string, err error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	i := 0
	for i < len(code) && code[i] >= '0' && code[i] <= '9' {
		i++
	}
	if i == 0 || i == len(code) {
		return 0, "", fmt.Errorf("invalid seat code %q", code)
	}

	row, err = strconv.Atoi(code[:i])
	if err != nil || row < 1 {
		return 0, "", fmt.Errorf("invalid seat code %q", code)
	}

	letter = code[i:]
	if len(letter) != 1 || !strings.Contains(seatLetters, letter) {
		return 0, "", fmt.Errorf("invalid seat code %q", code)
	}

	return row, letter, nil
}

// SeatLayout generates the virtual seat map for an aircraft. Business rows
// come first, economy rows continue the numbering after them.
func SeatLayout(a Aircraft) []Seat {
	seats := make([]Seat, 0, a.TotalSeats())

	for row := 1; row <= a.BusinessRows; row++ {
		for col := 0; col < a.BusinessCols && col < len(seatLetters); col++ {
			letter := string(seatLetters[col])
			seats = append(seats, Seat{
				Code:   SeatCode(row, letter),
				Cabin:  CabinBusiness,
				Row:    row,
				Letter: letter,
			})
		}
	}

	start := a.BusinessRows + 1
	for row := start; row < start+a.EconomyRows; row++ {
		for col := 0; col < a.EconomyCols && col < len(seatLetters); col++ {
			letter := string(seatLetters[col])
			seats = append(seats, Seat{
				Code:   SeatCode(row, letter),
				Cabin:  CabinEconomy,
				Row:    row,
				Letter: letter,
			})
		}
	}

	return seats
}

// CabinForRow maps a row number to its cabin for the given aircraft, or an
// error when the row does not exist on that airframe.
func (a Aircraft) CabinForRow(row int) (Cabin, error) {
	switch {
	case row >= 1 && row <= a.BusinessRows:
		return CabinBusiness, nil
	case row > a.BusinessRows && row <= a.BusinessRows+a.EconomyRows:
		return CabinEconomy, nil
	default:
		return "", fmt.Errorf("row %d out of range", row)
	}
}

// SeatExists reports whether (row, letter) is a real seat on the aircraft.
func (a Aircraft) SeatExists(row int, letter string) bool {
	col := strings.Index(seatLetters, strings.ToUpper(letter))
	if col < 0 {
		return false
	}

	cabin, err := a.CabinForRow(row)
	if err != nil {
		return false
	}

	if cabin == CabinBusiness {
		return col < a.BusinessCols
	}
	return col < a.EconomyCols
}
