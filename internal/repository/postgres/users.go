package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flytau/flytau/internal/domain"
	"github.com/flytau/flytau/internal/repository"
)

// UserRepo covers the three account tables: customers, guests and managers.
type UserRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// CreateCustomer registers a customer with a bcrypt password hash.
//
// Returns:
//   - error: repository.ErrEmailTaken if the email is already registered.
func (r *UserRepo) CreateCustomer(ctx context.Context, c domain.Customer, passwordHash string) error {
	const op = "postgresrepo.UserRepo.CreateCustomer"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO customers(email, password_hash, first_name, last_name, passport, birth_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.Email, passwordHash, c.FirstName, c.LastName, c.Passport, c.BirthDate,
	)
	if err != nil {
		var pge *pgconn.PgError
		if errors.As(err, &pge) && pge.Code == "23505" {
			return fmt.Errorf("%s:%w", op, repository.ErrEmailTaken)
		}
		return wrapDBErr(op, err)
	}

	return nil
}

// FindCustomer retrieves a customer and their password hash by email.
//
// Returns:
//   - error: repository.ErrNotFound if no such customer exists.
func (r *UserRepo) FindCustomer(ctx context.Context, email string) (*domain.Customer, string, error) {
	const op = "postgresrepo.UserRepo.FindCustomer"

	db := r.handle()

	var c domain.Customer
	var hash string
	err := db.QueryRow(ctx,
		`SELECT email, password_hash, first_name, last_name, passport, birth_date
		 FROM customers WHERE email = $1`,
		email,
	).Scan(&c.Email, &hash, &c.FirstName, &c.LastName, &c.Passport, &c.BirthDate)
	if err != nil {
		return nil, "", wrapDBErr(op, err)
	}

	return &c, hash, nil
}

// UpsertGuest records a guest purchaser, refreshing the name on repeat
// purchases with the same email.
func (r *UserRepo) UpsertGuest(ctx context.Context, g domain.Guest) error {
	const op = "postgresrepo.UserRepo.UpsertGuest"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO guests(email, first_name, last_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE
		 SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name`,
		g.Email, g.FirstName, g.LastName,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// FindGuest retrieves a guest by email.
func (r *UserRepo) FindGuest(ctx context.Context, email string) (*domain.Guest, error) {
	const op = "postgresrepo.UserRepo.FindGuest"

	db := r.handle()

	var g domain.Guest
	err := db.QueryRow(ctx,
		`SELECT email, first_name, last_name FROM guests WHERE email = $1`,
		email,
	).Scan(&g.Email, &g.FirstName, &g.LastName)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &g, nil
}

// FindManager retrieves a manager and their password hash by manager code.
//
// Returns:
//   - error: repository.ErrNotFound if no such manager exists.
func (r *UserRepo) FindManager(ctx context.Context, code string) (*domain.Manager, string, error) {
	const op = "postgresrepo.UserRepo.FindManager"

	db := r.handle()

	var m domain.Manager
	var hash string
	err := db.QueryRow(ctx,
		`SELECT code, password_hash, first_name, last_name, phone
		 FROM managers WHERE code = $1`,
		code,
	).Scan(&m.Code, &hash, &m.FirstName, &m.LastName, &m.Phone)
	if err != nil {
		return nil, "", wrapDBErr(op, err)
	}

	return &m, hash, nil
}

// RecordManagerEdit appends a row to the manager audit log.
func (r *UserRepo) RecordManagerEdit(ctx context.Context, managerCode, flightNumber, action string) error {
	const op = "postgresrepo.UserRepo.RecordManagerEdit"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO manager_edits(manager_code, flight_number, action)
		 VALUES ($1, $2, $3)`,
		managerCode, flightNumber, action,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}
