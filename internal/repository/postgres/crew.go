package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flytau/flytau/internal/domain"
)

// CrewRepo covers pilots, attendants and their flight assignments. The two
// roles live in separate tables with identical shapes, so every query is
// written once and parameterized by table name from a fixed map.
type CrewRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CrewRepo) With(db DB) *CrewRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CrewRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

type crewTables struct {
	members     string
	assignments string
	memberFK    string
}

// tablesFor resolves table names from a fixed map, never from input, so the
// fmt.Sprintf-built SQL below stays injection-safe.
func tablesFor(role domain.CrewRole) (crewTables, error) {
	switch role {
	case domain.RolePilot:
		return crewTables{members: "pilots", assignments: "flight_pilots", memberFK: "pilot_id"}, nil
	case domain.RoleAttendant:
		return crewTables{members: "attendants", assignments: "flight_attendants", memberFK: "attendant_id"}, nil
	default:
		return crewTables{}, fmt.Errorf("unknown crew role %q", role)
	}
}

// Available lists crew of the given role with no assignment on a
// non-cancelled flight whose window overlaps [departure, arrival).
func (r *CrewRepo) Available(
	ctx context.Context,
	role domain.CrewRole,
	departure, arrival time.Time,
	longHaulOnly bool,
) ([]domain.CrewMember, error) {
	const op = "postgresrepo.CrewRepo.Available"

	t, err := tablesFor(role)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	db := r.handle()

	sql := fmt.Sprintf(
		`SELECT c.id, c.first_name, c.last_name, c.long_haul, c.joined_at, c.phone
		 FROM %s c
		 WHERE c.id NOT IN (
		 	SELECT x.%s
		 	FROM %s x
		 	JOIN flights f ON x.flight_number = f.number
		 	WHERE f.status != 'cancelled'
		 	  AND f.departure < $2
		 	  AND f.departure + make_interval(mins => f.duration_min) > $1
		 )`,
		t.members, t.memberFK, t.assignments,
	)
	if longHaulOnly {
		sql += ` AND c.long_haul`
	}
	sql += ` ORDER BY c.last_name, c.first_name`

	rows, err := db.Query(ctx, sql, departure, arrival)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	return collectCrew(rows, role, op)
}

// ForFlight lists crew of the given role assigned to a flight.
func (r *CrewRepo) ForFlight(ctx context.Context, role domain.CrewRole, flightNumber string) ([]domain.CrewMember, error) {
	const op = "postgresrepo.CrewRepo.ForFlight"

	t, err := tablesFor(role)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	db := r.handle()

	rows, err := db.Query(ctx, fmt.Sprintf(
		`SELECT c.id, c.first_name, c.last_name, c.long_haul, c.joined_at, c.phone
		 FROM %s c
		 JOIN %s x ON c.id = x.%s
		 WHERE x.flight_number = $1
		 ORDER BY c.last_name, c.first_name`,
		t.members, t.assignments, t.memberFK,
	), flightNumber)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	return collectCrew(rows, role, op)
}

// Assign books the crew members onto the flight in one batch.
//
// Returns:
//   - error: repository.ErrConflict if a member is already assigned.
func (r *CrewRepo) Assign(ctx context.Context, role domain.CrewRole, flightNumber string, memberIDs []int64) error {
	const op = "postgresrepo.CrewRepo.Assign"

	t, err := tablesFor(role)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	db := r.handle()

	batch := &pgx.Batch{}
	for _, id := range memberIDs {
		batch.Queue(fmt.Sprintf(
			`INSERT INTO %s(flight_number, %s) VALUES ($1, $2)`,
			t.assignments, t.memberFK,
		), flightNumber, id)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// RemoveAll clears every assignment of the given role from a flight.
func (r *CrewRepo) RemoveAll(ctx context.Context, role domain.CrewRole, flightNumber string) error {
	const op = "postgresrepo.CrewRepo.RemoveAll"

	t, err := tablesFor(role)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	db := r.handle()

	_, err = db.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE flight_number = $1`, t.assignments,
	), flightNumber)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// List returns the full roster for a role.
func (r *CrewRepo) List(ctx context.Context, role domain.CrewRole) ([]domain.CrewMember, error) {
	const op = "postgresrepo.CrewRepo.List"

	t, err := tablesFor(role)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	db := r.handle()

	rows, err := db.Query(ctx, fmt.Sprintf(
		`SELECT id, first_name, last_name, long_haul, joined_at, phone
		 FROM %s
		 ORDER BY last_name, first_name`,
		t.members,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	return collectCrew(rows, role, op)
}

func collectCrew(rows pgx.Rows, role domain.CrewRole, op string) ([]domain.CrewMember, error) {
	var out []domain.CrewMember
	for rows.Next() {
		var m domain.CrewMember
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.LongHaul, &m.JoinedAt, &m.Phone); err != nil {
			return nil, wrapDBErr(op, err)
		}
		m.Role = role
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
