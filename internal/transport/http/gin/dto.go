package httpgin

import "time"

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Passport  string `json:"passport"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ManagerLoginRequest struct {
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type CheckoutRequest struct {
	FlightNumber string   `json:"flight_number" binding:"required"`
	SeatCodes    []string `json:"seat_codes" binding:"required,min=1,dive,required"`

	// guest checkout only; ignored for an authenticated customer
	GuestEmail     string `json:"guest_email"`
	GuestFirstName string `json:"guest_first_name"`
	GuestLastName  string `json:"guest_last_name"`
}

type OrderLookupRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ChangeSeatsRequest struct {
	SeatCodes []string `json:"seat_codes" binding:"required,min=1,dive,required"`
	Email     string   `json:"email"` // guests only
}

type CancelOrderResponse struct {
	BookingCode string `json:"booking_code"`
	FeeCents    int64  `json:"fee_cents"`
	RefundCents int64  `json:"refund_cents"`
}

type StartDraftRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Departure   string `json:"departure" binding:"required"` // RFC3339
	DurationMin int    `json:"duration_min" binding:"required,gt=0"`
}

type SetResourcesRequest struct {
	AircraftID   int64   `json:"aircraft_id" binding:"required"`
	PilotIDs     []int64 `json:"pilot_ids" binding:"required,min=1"`
	AttendantIDs []int64 `json:"attendant_ids" binding:"required,min=1"`
}

type CommitDraftRequest struct {
	EconomyCents  int64 `json:"economy_cents" binding:"required,gt=0"`
	BusinessCents int64 `json:"business_cents"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
