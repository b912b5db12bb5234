package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flytau/flytau/internal/domain"
	"github.com/flytau/flytau/internal/repository"
)

type OrderRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *OrderRepo) With(db DB) *OrderRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OrderRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts an order row. Exactly one of CustomerEmail/GuestEmail
// must be set; the schema CHECK enforces it.
func (r *OrderRepo) Create(ctx context.Context, o domain.Order) error {
	const op = "postgresrepo.OrderRepo.Create"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO orders(booking_code, flight_number, customer_email, guest_email,
		                    paid_total_cents, status)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)`,
		o.BookingCode, o.FlightNumber, o.CustomerEmail, o.GuestEmail,
		o.PaidTotalCents, string(o.Status),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// CreateTicket inserts one ticket. The unique index on
// (flight_number, row_num, seat_letter) turns a concurrent double-book
// into a unique violation.
//
// Returns:
//   - error: repository.ErrSeatTaken when the seat is already held.
func (r *OrderRepo) CreateTicket(ctx context.Context, t domain.Ticket) error {
	const op = "postgresrepo.OrderRepo.CreateTicket"

	db := r.handle()

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	_, err := db.Exec(ctx,
		`INSERT INTO tickets(id, booking_code, flight_number, cabin, row_num, seat_letter, price_cents)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.BookingCode, t.FlightNumber, string(t.Cabin), t.Row, t.Letter, t.PriceCents,
	)
	if err != nil {
		var pge *pgconn.PgError
		if errors.As(err, &pge) && pge.Code == "23505" {
			return fmt.Errorf("%s:%w", op, repository.ErrSeatTaken)
		}
		return wrapDBErr(op, err)
	}

	return nil
}

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var o domain.Order
	var customer, guest *string
	err := row.Scan(&o.BookingCode, &o.FlightNumber, &customer, &guest,
		&o.PaidTotalCents, &o.Status, &o.CreatedAt)
	if customer != nil {
		o.CustomerEmail = *customer
	}
	if guest != nil {
		o.GuestEmail = *guest
	}
	return o, err
}

const orderColumns = `o.booking_code, o.flight_number, o.customer_email, o.guest_email,
	o.paid_total_cents, o.status, o.created_at`

// Get retrieves an order by booking code.
//
// Returns:
//   - error: repository.ErrNotFound if no such order exists.
func (r *OrderRepo) Get(ctx context.Context, bookingCode string) (*domain.Order, error) {
	const op = "postgresrepo.OrderRepo.Get"

	db := r.handle()

	o, err := scanOrder(db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.booking_code = $1`,
		bookingCode,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &o, nil
}

// GetForEmail retrieves an order only when the booking code and purchaser
// email match, which is how guests look up their orders.
func (r *OrderRepo) GetForEmail(ctx context.Context, bookingCode, email string) (*domain.Order, error) {
	const op = "postgresrepo.OrderRepo.GetForEmail"

	db := r.handle()

	o, err := scanOrder(db.QueryRow(ctx,
		`SELECT `+orderColumns+`
		 FROM orders o
		 WHERE o.booking_code = $1
		   AND (o.customer_email = $2 OR o.guest_email = $2)`,
		bookingCode, email,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &o, nil
}

// WithTickets retrieves an order, its flight and all tickets.
func (r *OrderRepo) WithTickets(ctx context.Context, bookingCode string) (*domain.OrderWithTickets, error) {
	const op = "postgresrepo.OrderRepo.WithTickets"

	db := r.handle()

	var out domain.OrderWithTickets

	o, err := scanOrder(db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.booking_code = $1`,
		bookingCode,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	out.Order = o

	err = db.QueryRow(ctx,
		`SELECT f.number, f.aircraft_id, f.origin, f.destination,
		        f.departure, f.duration_min, f.economy_cents, f.business_cents, f.status
		 FROM flights f WHERE f.number = $1`,
		o.FlightNumber,
	).Scan(&out.Flight.Number, &out.Flight.AircraftID, &out.Flight.Origin,
		&out.Flight.Destination, &out.Flight.Departure, &out.Flight.DurationMin,
		&out.Flight.EconomyCents, &out.Flight.BusinessCents, &out.Flight.Status)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT id, booking_code, flight_number, cabin, row_num, seat_letter, price_cents
		 FROM tickets
		 WHERE booking_code = $1
		 ORDER BY row_num, seat_letter`,
		bookingCode,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.BookingCode, &t.FlightNumber,
			&t.Cabin, &t.Row, &t.Letter, &t.PriceCents); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out.Tickets = append(out.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

type OrderSummary struct {
	domain.Order
	TicketCount int
}

// ListForPurchaser returns a customer's (or guest's) orders, newest first.
func (r *OrderRepo) ListForPurchaser(ctx context.Context, email string, status domain.OrderStatus) ([]OrderSummary, error) {
	const op = "postgresrepo.OrderRepo.ListForPurchaser"

	db := r.handle()

	sql := `SELECT ` + orderColumns + `, COUNT(t.id)
		FROM orders o
		LEFT JOIN tickets t ON o.booking_code = t.booking_code
		WHERE (o.customer_email = $1 OR o.guest_email = $1)`
	args := []any{email}

	if status != "" {
		args = append(args, string(status))
		sql += ` AND o.status = $` + itoa(len(args))
	}

	sql += ` GROUP BY o.booking_code ORDER BY o.created_at DESC`

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []OrderSummary
	for rows.Next() {
		var s OrderSummary
		var customer, guest *string
		if err := rows.Scan(&s.BookingCode, &s.FlightNumber, &customer, &guest,
			&s.PaidTotalCents, &s.Status, &s.CreatedAt, &s.TicketCount); err != nil {
			return nil, wrapDBErr(op, err)
		}
		if customer != nil {
			s.CustomerEmail = *customer
		}
		if guest != nil {
			s.GuestEmail = *guest
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// UpdateStatus sets an order's status, and its paid total when
// paidTotalCents is non-nil.
func (r *OrderRepo) UpdateStatus(
	ctx context.Context,
	bookingCode string,
	status domain.OrderStatus,
	paidTotalCents *int64,
) error {
	const op = "postgresrepo.OrderRepo.UpdateStatus"

	db := r.handle()

	var tag pgconn.CommandTag
	var err error
	if paidTotalCents != nil {
		tag, err = db.Exec(ctx,
			`UPDATE orders SET status = $1, paid_total_cents = $2 WHERE booking_code = $3`,
			string(status), *paidTotalCents, bookingCode,
		)
	} else {
		tag, err = db.Exec(ctx,
			`UPDATE orders SET status = $1 WHERE booking_code = $2`,
			string(status), bookingCode,
		)
	}
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// DeleteTickets frees every seat of the order.
func (r *OrderRepo) DeleteTickets(ctx context.Context, bookingCode string) error {
	const op = "postgresrepo.OrderRepo.DeleteTickets"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`DELETE FROM tickets WHERE booking_code = $1`, bookingCode,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// ActiveForFlight lists confirmed orders holding seats on the flight.
func (r *OrderRepo) ActiveForFlight(ctx context.Context, flightNumber string) ([]domain.Order, error) {
	const op = "postgresrepo.OrderRepo.ActiveForFlight"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders o
		 WHERE o.flight_number = $1 AND o.status = 'confirmed'`,
		flightNumber,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *OrderRepo) CountActiveForFlight(ctx context.Context, flightNumber string) (int, error) {
	const op = "postgresrepo.OrderRepo.CountActiveForFlight"

	db := r.handle()

	var n int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE flight_number = $1 AND status = 'confirmed'`,
		flightNumber,
	).Scan(&n)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

func (r *OrderRepo) BookingCodeExists(ctx context.Context, bookingCode string) (bool, error) {
	const op = "postgresrepo.OrderRepo.BookingCodeExists"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE booking_code = $1)`,
		bookingCode,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

func (r *OrderRepo) Count(ctx context.Context) (int, error) {
	const op = "postgresrepo.OrderRepo.Count"

	db := r.handle()

	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

func (r *OrderRepo) CountByStatus(ctx context.Context, status domain.OrderStatus) (int, error) {
	const op = "postgresrepo.OrderRepo.CountByStatus"

	db := r.handle()

	var n int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE status = $1`,
		string(status),
	).Scan(&n)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

// TotalRevenue sums paid totals over non-cancelled orders.
func (r *OrderRepo) TotalRevenue(ctx context.Context) (int64, error) {
	const op = "postgresrepo.OrderRepo.TotalRevenue"

	db := r.handle()

	var cents int64
	err := db.QueryRow(ctx,
		`SELECT COALESCE(SUM(paid_total_cents), 0)
		 FROM orders
		 WHERE status NOT IN ('customer_canceled', 'system_canceled')`,
	).Scan(&cents)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return cents, nil
}
