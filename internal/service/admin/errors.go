package admin

import "errors"

var (
	ErrFlightNotFound       = errors.New("flight not found")
	ErrAircraftNotFound     = errors.New("aircraft not found")
	ErrDraftNotFound        = errors.New("draft not found or expired")
	ErrDraftIncomplete      = errors.New("draft is missing a previous step")
	ErrSameAirports         = errors.New("origin and destination must differ")
	ErrDepartureInPast      = errors.New("departure must be in the future")
	ErrInvalidDuration      = errors.New("duration must be positive")
	ErrAircraftUnavailable  = errors.New("aircraft unavailable for this window")
	ErrCrewUnavailable      = errors.New("crew member unavailable for this window")
	ErrCrewCount            = errors.New("wrong crew headcount for aircraft size")
	ErrLongHaulAircraft     = errors.New("long flights require a large aircraft")
	ErrInvalidPrice         = errors.New("economy price must be positive")
	ErrBusinessPriceNeeded  = errors.New("business price required for this aircraft")
	ErrBusinessPriceExtra   = errors.New("aircraft has no business cabin")
	ErrFlightNotCancellable = errors.New("flight can no longer be cancelled")
)
