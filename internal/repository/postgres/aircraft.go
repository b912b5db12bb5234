package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flytau/flytau/internal/domain"
)

type AircraftRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *AircraftRepo) With(db DB) *AircraftRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *AircraftRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Get retrieves an aircraft by its ID.
//
// Returns:
//   - *domain.Aircraft: the aircraft when found.
//   - error: repository.ErrNotFound if the aircraft is not found.
func (r *AircraftRepo) Get(ctx context.Context, id int64) (*domain.Aircraft, error) {
	const op = "postgresrepo.AircraftRepo.Get"

	db := r.handle()

	var a domain.Aircraft
	err := db.QueryRow(ctx,
		`SELECT id, manufacturer, purchase_date,
       	        economy_rows, economy_cols, business_rows, business_cols
       	 FROM aircraft WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Manufacturer, &a.PurchaseDate,
		&a.EconomyRows, &a.EconomyCols, &a.BusinessRows, &a.BusinessCols)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &a, nil
}

// List returns the whole fleet ordered by manufacturer.
func (r *AircraftRepo) List(ctx context.Context) ([]domain.Aircraft, error) {
	const op = "postgresrepo.AircraftRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, manufacturer, purchase_date,
       	        economy_rows, economy_cols, business_rows, business_cols
		 FROM aircraft
		 ORDER BY manufacturer, id`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Aircraft
	for rows.Next() {
		var a domain.Aircraft
		if err := rows.Scan(&a.ID, &a.Manufacturer, &a.PurchaseDate,
			&a.EconomyRows, &a.EconomyCols, &a.BusinessRows, &a.BusinessCols); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Available returns aircraft with no non-cancelled flight whose window
// overlaps [departure, arrival). A flight occupies its aircraft from
// departure until departure + duration.
func (r *AircraftRepo) Available(
	ctx context.Context,
	departure, arrival time.Time,
) ([]domain.Aircraft, error) {
	const op = "postgresrepo.AircraftRepo.Available"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT a.id, a.manufacturer, a.purchase_date,
       	        a.economy_rows, a.economy_cols, a.business_rows, a.business_cols
		 FROM aircraft a
		 WHERE a.id NOT IN (
		 	SELECT f.aircraft_id
		 	FROM flights f
		 	WHERE f.status != 'cancelled'
		 	  AND f.departure < $2
		 	  AND f.departure + make_interval(mins => f.duration_min) > $1
		 )
		 ORDER BY a.manufacturer, a.id`,
		departure, arrival,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Aircraft
	for rows.Next() {
		var a domain.Aircraft
		if err := rows.Scan(&a.ID, &a.Manufacturer, &a.PurchaseDate,
			&a.EconomyRows, &a.EconomyCols, &a.BusinessRows, &a.BusinessCols); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// LocationAt determines where an aircraft is at the given time: the
// destination of its latest flight landed by then, or the home base.
func (r *AircraftRepo) LocationAt(ctx context.Context, aircraftID int64, at time.Time) (string, error) {
	const op = "postgresrepo.AircraftRepo.LocationAt"

	db := r.handle()

	var dest string
	err := db.QueryRow(ctx,
		`SELECT f.destination
		 FROM flights f
		 WHERE f.aircraft_id = $1
		   AND f.status IN ('active', 'full', 'done')
		   AND f.departure + make_interval(mins => f.duration_min) <= $2
		 ORDER BY f.departure + make_interval(mins => f.duration_min) DESC
		 LIMIT 1`,
		aircraftID, at,
	).Scan(&dest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// no flight history: aircraft sits at home base
			return domain.HomeBaseAirport, nil
		}
		return "", wrapDBErr(op, err)
	}

	return dest, nil
}

func (r *AircraftRepo) Count(ctx context.Context) (int, error) {
	const op = "postgresrepo.AircraftRepo.Count"

	db := r.handle()

	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM aircraft`).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}
