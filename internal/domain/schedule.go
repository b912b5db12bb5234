package domain

import (
	"crypto/rand"
	"math/big"
	"time"
)

// HomeBaseAirport is where an aircraft with no flight history starts out.
const HomeBaseAirport = "TLV"

const (
	// LongFlightThresholdMin is the duration above which a flight requires
	// long-haul certified crew and a large aircraft.
	LongFlightThresholdMin = 360

	// CancelCutoffHours is the customer cancellation window: orders may only
	// be cancelled while more than this many hours remain before departure.
	CancelCutoffHours = 36

	// FlightCancelCutoffHours is the manager flight-cancellation window.
	FlightCancelCutoffHours = 72

	// CancellationFeePercent is charged on customer cancellations.
	CancellationFeePercent = 5
)

// Overlaps reports whether two half-open time windows [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func IsLongFlight(durationMin int) bool {
	return durationMin > LongFlightThresholdMin
}

// CrewRequirements returns the pilot and attendant headcount for an
// aircraft size: large airframes fly with 3 pilots and 6 attendants,
// small ones with 2 and 3.
func CrewRequirements(size AircraftSize) (pilots, attendants int) {
	if size == AircraftLarge {
		return 3, 6
	}
	return 2, 3
}

// CancellationFee splits a paid total into fee and refund. The fee is
// truncated to whole cents.
func CancellationFee(paidTotalCents int64) (feeCents, refundCents int64) {
	feeCents = paidTotalCents * CancellationFeePercent / 100
	return feeCents, paidTotalCents - feeCents
}

// CanCancelOrder applies the 36-hour rule relative to now.
func CanCancelOrder(departure, now time.Time) bool {
	return departure.After(now.Add(CancelCutoffHours * time.Hour))
}

// CanCancelFlight applies the 72-hour rule relative to now.
func CanCancelFlight(departure, now time.Time) bool {
	return departure.After(now.Add(FlightCancelCutoffHours * time.Hour))
}

// bookingAlphabet excludes 0, O, I and 1 to keep codes unambiguous over
// the phone.
const bookingAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const BookingCodeLength = 8

// NewBookingCode returns a random 8-character booking code.
func NewBookingCode() string {
	return randomCode(bookingAlphabet, BookingCodeLength)
}

// NewFlightNumber returns a candidate flight number in the TAU### format.
// Callers must retry on collision against existing flights.
func NewFlightNumber() string {
	return "TAU" + randomCode("0123456789", 3)
}

func randomCode(alphabet string, n int) string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b)
}
