package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flytau/flytau/internal/domain"
	"github.com/flytau/flytau/internal/repository"
)

type FlightRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *FlightRepo) With(db DB) *FlightRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *FlightRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const flightColumns = `f.number, f.aircraft_id, f.origin, f.destination,
	f.departure, f.duration_min, f.economy_cents, f.business_cents, f.status,
	a.id, a.manufacturer, a.purchase_date,
	a.economy_rows, a.economy_cols, a.business_rows, a.business_cols`

func scanFlight(row interface{ Scan(...any) error }) (domain.FlightWithAircraft, error) {
	var fw domain.FlightWithAircraft
	err := row.Scan(
		&fw.Number, &fw.AircraftID, &fw.Origin, &fw.Destination,
		&fw.Departure, &fw.DurationMin, &fw.EconomyCents, &fw.BusinessCents, &fw.Status,
		&fw.Aircraft.ID, &fw.Aircraft.Manufacturer, &fw.Aircraft.PurchaseDate,
		&fw.Aircraft.EconomyRows, &fw.Aircraft.EconomyCols,
		&fw.Aircraft.BusinessRows, &fw.Aircraft.BusinessCols,
	)
	return fw, err
}

// Airports lists every airport that appears as an origin or destination.
func (r *FlightRepo) Airports(ctx context.Context) ([]string, error) {
	const op = "postgresrepo.FlightRepo.Airports"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT DISTINCT port FROM (
			SELECT origin AS port FROM flights
			UNION
			SELECT destination AS port FROM flights
		 ) AS ports
		 ORDER BY port`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

type Route struct {
	Origin      string
	Destination string
}

// Routes lists all distinct origin-destination pairs flown.
func (r *FlightRepo) Routes(ctx context.Context) ([]Route, error) {
	const op = "postgresrepo.FlightRepo.Routes"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT DISTINCT origin, destination
		 FROM flights
		 ORDER BY origin, destination`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []Route
	for rows.Next() {
		var rt Route
		if err := rows.Scan(&rt.Origin, &rt.Destination); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

type SearchFilter struct {
	DepartureDate *time.Time // matches the calendar day
	Origin        string
	Destination   string
	Status        domain.FlightStatus
}

// Search filters flights joined with their aircraft.
func (r *FlightRepo) Search(ctx context.Context, filter SearchFilter) ([]domain.FlightWithAircraft, error) {
	const op = "postgresrepo.FlightRepo.Search"

	db := r.handle()

	sql := `SELECT ` + flightColumns + `
		FROM flights f
		JOIN aircraft a ON f.aircraft_id = a.id
		WHERE 1=1`
	var args []any

	if filter.DepartureDate != nil {
		args = append(args, *filter.DepartureDate)
		sql += ` AND f.departure >= $` + itoa(len(args))
		args = append(args, filter.DepartureDate.Add(24*time.Hour))
		sql += ` AND f.departure < $` + itoa(len(args))
	}
	if filter.Origin != "" {
		args = append(args, filter.Origin)
		sql += ` AND f.origin = $` + itoa(len(args))
	}
	if filter.Destination != "" {
		args = append(args, filter.Destination)
		sql += ` AND f.destination = $` + itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		sql += ` AND f.status = $` + itoa(len(args))
	}

	sql += ` ORDER BY f.departure`

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.FlightWithAircraft
	for rows.Next() {
		fw, err := scanFlight(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, fw)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Get retrieves a flight with its aircraft by flight number.
//
// Returns:
//   - *domain.FlightWithAircraft: the flight when found.
//   - error: repository.ErrNotFound if the flight is not found.
func (r *FlightRepo) Get(ctx context.Context, number string) (*domain.FlightWithAircraft, error) {
	const op = "postgresrepo.FlightRepo.Get"

	db := r.handle()

	fw, err := scanFlight(db.QueryRow(ctx,
		`SELECT `+flightColumns+`
		 FROM flights f
		 JOIN aircraft a ON f.aircraft_id = a.id
		 WHERE f.number = $1`,
		number,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &fw, nil
}

// List returns all flights, newest departure first, optionally filtered
// by status.
func (r *FlightRepo) List(ctx context.Context, status domain.FlightStatus) ([]domain.FlightWithAircraft, error) {
	const op = "postgresrepo.FlightRepo.List"

	db := r.handle()

	sql := `SELECT ` + flightColumns + `
		FROM flights f
		JOIN aircraft a ON f.aircraft_id = a.id`
	var args []any

	if status != "" {
		sql += ` WHERE f.status = $1`
		args = append(args, string(status))
	}

	sql += ` ORDER BY f.departure DESC`

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.FlightWithAircraft
	for rows.Next() {
		fw, err := scanFlight(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, fw)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Create inserts a flight.
//
// Returns:
//   - error: repository.ErrConflict if the flight number is already taken.
func (r *FlightRepo) Create(ctx context.Context, f domain.Flight) error {
	const op = "postgresrepo.FlightRepo.Create"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO flights(number, aircraft_id, origin, destination,
		                     departure, duration_min, economy_cents, business_cents, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.Number, f.AircraftID, f.Origin, f.Destination,
		f.Departure, f.DurationMin, f.EconomyCents, f.BusinessCents, string(f.Status),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *FlightRepo) UpdateStatus(ctx context.Context, number string, status domain.FlightStatus) error {
	const op = "postgresrepo.FlightRepo.UpdateStatus"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE flights SET status = $1 WHERE number = $2`,
		string(status), number,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *FlightRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	const op = "postgresrepo.FlightRepo.NumberExists"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM flights WHERE number = $1)`,
		number,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

type TakenSeat struct {
	Row    int
	Letter string
	Cabin  domain.Cabin
}

// TakenSeats lists the seats held by tickets of non-cancelled orders on
// the flight.
func (r *FlightRepo) TakenSeats(ctx context.Context, number string) ([]TakenSeat, error) {
	const op = "postgresrepo.FlightRepo.TakenSeats"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT t.row_num, t.seat_letter, t.cabin
		 FROM tickets t
		 JOIN orders o ON t.booking_code = o.booking_code
		 WHERE t.flight_number = $1
		   AND o.status NOT IN ('customer_canceled', 'system_canceled')`,
		number,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []TakenSeat
	for rows.Next() {
		var ts TakenSeat
		var cabin string
		if err := rows.Scan(&ts.Row, &ts.Letter, &cabin); err != nil {
			return nil, wrapDBErr(op, err)
		}
		ts.Cabin = domain.Cabin(cabin)
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *FlightRepo) Count(ctx context.Context) (int, error) {
	const op = "postgresrepo.FlightRepo.Count"

	db := r.handle()

	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM flights`).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

func (r *FlightRepo) CountByStatus(ctx context.Context, status domain.FlightStatus) (int, error) {
	const op = "postgresrepo.FlightRepo.CountByStatus"

	db := r.handle()

	var n int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM flights WHERE status = $1`,
		string(status),
	).Scan(&n)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}
