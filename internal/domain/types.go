package domain

import (
	"time"

	"github.com/google/uuid"
)

type FlightStatus string

const (
	FlightActive    FlightStatus = "active"
	FlightFull      FlightStatus = "full"
	FlightCancelled FlightStatus = "cancelled"
	FlightDone      FlightStatus = "done"
)

type OrderStatus string

const (
	OrderConfirmed      OrderStatus = "confirmed"
	OrderCustomerCancel OrderStatus = "customer_canceled"
	OrderSystemCancel   OrderStatus = "system_canceled"
	OrderDone           OrderStatus = "done"
)

type Cabin string

const (
	CabinEconomy  Cabin = "economy"
	CabinBusiness Cabin = "business"
)

type AircraftSize string

const (
	AircraftLarge AircraftSize = "large"
	AircraftSmall AircraftSize = "small"
)

type Aircraft struct {
	ID           int64
	Manufacturer string
	PurchaseDate time.Time
	EconomyRows  int
	EconomyCols  int
	BusinessRows int
	BusinessCols int
}

func (a Aircraft) EconomySeats() int  { return a.EconomyRows * a.EconomyCols }
func (a Aircraft) BusinessSeats() int { return a.BusinessRows * a.BusinessCols }
func (a Aircraft) TotalSeats() int    { return a.EconomySeats() + a.BusinessSeats() }

// Size classifies the aircraft: large iff it has a business cabin.
func (a Aircraft) Size() AircraftSize {
	if a.BusinessSeats() > 0 {
		return AircraftLarge
	}
	return AircraftSmall
}

type Flight struct {
	Number        string
	AircraftID    int64
	Origin        string
	Destination   string
	Departure     time.Time
	DurationMin   int
	EconomyCents  int64
	BusinessCents int64
	Status        FlightStatus
}

func (f Flight) Arrival() time.Time {
	return f.Departure.Add(time.Duration(f.DurationMin) * time.Minute)
}

type FlightWithAircraft struct {
	Flight
	Aircraft Aircraft
}

type CrewRole string

const (
	RolePilot     CrewRole = "pilot"
	RoleAttendant CrewRole = "attendant"
)

type CrewMember struct {
	ID        int64
	Role      CrewRole
	FirstName string
	LastName  string
	LongHaul  bool
	JoinedAt  time.Time
	Phone     string
}

type Customer struct {
	Email     string
	FirstName string
	LastName  string
	Passport  string
	BirthDate *time.Time
}

type Guest struct {
	Email     string
	FirstName string
	LastName  string
}

type Manager struct {
	Code      string
	FirstName string
	LastName  string
	Phone     string
}

type Order struct {
	BookingCode    string
	FlightNumber   string
	CustomerEmail  string // empty for guest orders
	GuestEmail     string // empty for registered orders
	PaidTotalCents int64
	Status         OrderStatus
	CreatedAt      time.Time
}

type Ticket struct {
	ID           uuid.UUID
	BookingCode  string
	FlightNumber string
	Cabin        Cabin
	Row          int
	Letter       string
	PriceCents   int64
}

func (t Ticket) SeatCode() string {
	return SeatCode(t.Row, t.Letter)
}

type OrderWithTickets struct {
	Order   Order
	Flight  Flight
	Tickets []Ticket
}

type ClassAvailability struct {
	Total     int
	Taken     int
	Available int
}

type SeatAvailability struct {
	Economy  ClassAvailability
	Business ClassAvailability
}

func (sa SeatAvailability) TotalAvailable() int {
	return sa.Economy.Available + sa.Business.Available
}

// Report rows, one struct per canned report.

type OccupancyRow struct {
	FlightNumber string
	Departure    time.Time
	Route        string
	Manufacturer string
	SoldSeats    int
	TotalSeats   int
	OccupancyPct float64
}

type RevenueRow struct {
	Manufacturer string
	Cabin        Cabin
	RevenueCents int64
	TicketsSold  int
}

type CrewHoursRow struct {
	CrewMember       string
	Role             CrewRole
	ShortFlightHours float64
	LongFlightHours  float64
	TotalHours       float64
}

type CancellationRateRow struct {
	Month           string
	TotalOrders     int
	CanceledOrders  int
	CancellationPct float64
}

type AircraftActivityRow struct {
	Month            string
	AircraftID       int64
	Manufacturer     string
	FlightsCompleted int
	FlightsCanceled  int
	TotalFlights     int
	UtilizationPct   float64
	MostCommonRoute  string
}

type DashboardStats struct {
	TotalFlights      int
	ActiveFlights     int
	TotalOrders       int
	ConfirmedOrders   int
	TotalAircraft     int
	TotalRevenueCents int64
}
