package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flytau/flytau/internal/domain"
)

// ReportRepo runs the canned management reports. Every report is a single
// aggregate query; shaping beyond GROUP BY stays in SQL so the handlers can
// render rows as-is.
type ReportRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReportRepo) With(db DB) *ReportRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReportRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Occupancy reports seat fill per completed flight.
func (r *ReportRepo) Occupancy(ctx context.Context) ([]domain.OccupancyRow, error) {
	const op = "postgresrepo.ReportRepo.Occupancy"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT f.number, f.departure, f.origin || '-' || f.destination, a.manufacturer,
		        COUNT(o.booking_code) AS sold,
		        a.economy_rows * a.economy_cols + a.business_rows * a.business_cols AS total,
		        ROUND(COUNT(o.booking_code) * 100.0 /
		              NULLIF(a.economy_rows * a.economy_cols + a.business_rows * a.business_cols, 0), 2)
		 FROM flights f
		 JOIN aircraft a ON f.aircraft_id = a.id
		 LEFT JOIN tickets t ON t.flight_number = f.number
		 LEFT JOIN orders o ON t.booking_code = o.booking_code
		       AND o.status NOT IN ('customer_canceled', 'system_canceled')
		 WHERE f.status = 'done'
		 GROUP BY f.number, f.departure, f.origin, f.destination, a.manufacturer,
		          a.economy_rows, a.economy_cols, a.business_rows, a.business_cols
		 ORDER BY f.departure DESC`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.OccupancyRow
	for rows.Next() {
		var row domain.OccupancyRow
		if err := rows.Scan(&row.FlightNumber, &row.Departure, &row.Route,
			&row.Manufacturer, &row.SoldSeats, &row.TotalSeats, &row.OccupancyPct); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Revenue reports ticket revenue grouped by aircraft manufacturer and cabin.
func (r *ReportRepo) Revenue(ctx context.Context) ([]domain.RevenueRow, error) {
	const op = "postgresrepo.ReportRepo.Revenue"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT a.manufacturer, t.cabin, SUM(t.price_cents), COUNT(t.id)
		 FROM tickets t
		 JOIN orders o ON t.booking_code = o.booking_code
		 JOIN flights f ON t.flight_number = f.number
		 JOIN aircraft a ON f.aircraft_id = a.id
		 WHERE o.status NOT IN ('customer_canceled', 'system_canceled')
		 GROUP BY a.manufacturer, t.cabin
		 ORDER BY a.manufacturer, t.cabin`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.RevenueRow
	for rows.Next() {
		var row domain.RevenueRow
		var cabin string
		if err := rows.Scan(&row.Manufacturer, &cabin, &row.RevenueCents, &row.TicketsSold); err != nil {
			return nil, wrapDBErr(op, err)
		}
		row.Cabin = domain.Cabin(cabin)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// CrewHours reports flown hours per crew member on completed flights,
// split at the long-flight threshold.
func (r *ReportRepo) CrewHours(ctx context.Context) ([]domain.CrewHoursRow, error) {
	const op = "postgresrepo.ReportRepo.CrewHours"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT name, role,
		        ROUND(SUM(CASE WHEN duration_min <= 360 THEN duration_min ELSE 0 END) / 60.0, 2) AS short_hours,
		        ROUND(SUM(CASE WHEN duration_min > 360 THEN duration_min ELSE 0 END) / 60.0, 2) AS long_hours,
		        ROUND(SUM(duration_min) / 60.0, 2) AS total_hours
		 FROM (
			SELECT p.first_name || ' ' || p.last_name AS name, 'pilot' AS role, f.duration_min
			FROM pilots p
			JOIN flight_pilots fp ON fp.pilot_id = p.id
			JOIN flights f ON fp.flight_number = f.number
			WHERE f.status = 'done'
			UNION ALL
			SELECT c.first_name || ' ' || c.last_name, 'attendant', f.duration_min
			FROM attendants c
			JOIN flight_attendants fa ON fa.attendant_id = c.id
			JOIN flights f ON fa.flight_number = f.number
			WHERE f.status = 'done'
		 ) AS legs
		 GROUP BY name, role
		 ORDER BY total_hours DESC, name`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.CrewHoursRow
	for rows.Next() {
		var row domain.CrewHoursRow
		var role string
		if err := rows.Scan(&row.CrewMember, &role,
			&row.ShortFlightHours, &row.LongFlightHours, &row.TotalHours); err != nil {
			return nil, wrapDBErr(op, err)
		}
		row.Role = domain.CrewRole(role)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// CancellationRate reports the monthly share of cancelled orders.
func (r *ReportRepo) CancellationRate(ctx context.Context) ([]domain.CancellationRateRow, error) {
	const op = "postgresrepo.ReportRepo.CancellationRate"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
		        COUNT(*),
		        COUNT(*) FILTER (WHERE status IN ('customer_canceled', 'system_canceled')),
		        ROUND(COUNT(*) FILTER (WHERE status IN ('customer_canceled', 'system_canceled')) * 100.0
		              / COUNT(*), 2)
		 FROM orders
		 GROUP BY month
		 ORDER BY month`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.CancellationRateRow
	for rows.Next() {
		var row domain.CancellationRateRow
		if err := rows.Scan(&row.Month, &row.TotalOrders,
			&row.CanceledOrders, &row.CancellationPct); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// AircraftActivity reports monthly flight counts per airframe with its
// most-flown route that month.
func (r *ReportRepo) AircraftActivity(ctx context.Context) ([]domain.AircraftActivityRow, error) {
	const op = "postgresrepo.ReportRepo.AircraftActivity"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT to_char(date_trunc('month', f.departure), 'YYYY-MM') AS month,
		        a.id, a.manufacturer,
		        COUNT(*) FILTER (WHERE f.status = 'done'),
		        COUNT(*) FILTER (WHERE f.status = 'cancelled'),
		        COUNT(*),
		        ROUND(COUNT(*) FILTER (WHERE f.status = 'done') * 100.0 / COUNT(*), 2),
		        (
			    SELECT f2.origin || '-' || f2.destination
			    FROM flights f2
			    WHERE f2.aircraft_id = a.id
			      AND date_trunc('month', f2.departure) = date_trunc('month', f.departure)
			    GROUP BY f2.origin, f2.destination
			    ORDER BY COUNT(*) DESC, f2.origin, f2.destination
			    LIMIT 1
		        )
		 FROM flights f
		 JOIN aircraft a ON f.aircraft_id = a.id
		 GROUP BY month, date_trunc('month', f.departure), a.id, a.manufacturer
		 ORDER BY month, a.id`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.AircraftActivityRow
	for rows.Next() {
		var row domain.AircraftActivityRow
		if err := rows.Scan(&row.Month, &row.AircraftID, &row.Manufacturer,
			&row.FlightsCompleted, &row.FlightsCanceled, &row.TotalFlights,
			&row.UtilizationPct, &row.MostCommonRoute); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
