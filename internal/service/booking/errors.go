package booking

import "errors"

var (
	ErrFlightNotFound     = errors.New("flight not found")
	ErrFlightNotBookable  = errors.New("flight is not open for booking")
	ErrSeatTaken          = errors.New("seat already taken")
	ErrInvalidSeat        = errors.New("seat does not exist on this aircraft")
	ErrOrderNotFound      = errors.New("order not found")
	ErrNotCancellable     = errors.New("order can no longer be cancelled")
	ErrNotConfirmed       = errors.New("order is not confirmed")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrRateLimited        = errors.New("too many attempts")
)
