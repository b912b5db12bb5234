package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/flytau/flytau/internal/domain"
	"github.com/flytau/flytau/internal/repository"
	postgresrepo "github.com/flytau/flytau/internal/repository/postgres"
	redisrepo "github.com/flytau/flytau/internal/repository/redis"
)

const (
	RoleCustomer = "customer"
	RoleManager  = "manager"
)

const minPasswordLength = 8

// Claims is the JWT payload: Subject carries the customer email or the
// manager code depending on Role.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type Config struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	BcryptCost     int
}

type Service struct {
	store   *postgresrepo.Store
	limiter *redisrepo.SlidingWindowLimiter
	cfg     Config
}

func New(store *postgresrepo.Store, limiter *redisrepo.SlidingWindowLimiter, cfg Config) *Service {
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = time.Hour
	}

	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return &Service{
		store:   store,
		limiter: limiter,
		cfg:     cfg,
	}
}

// RegisterCustomer creates a customer account.
//
// Returns:
//   - error: auth.ErrEmailTaken if the email is already registered.
//   - error: auth.ErrWeakPassword if the password is under 8 characters.
func (s *Service) RegisterCustomer(ctx context.Context, c domain.Customer, password string) error {
	const op = "service.auth.RegisterCustomer"

	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return fmt.Errorf("%s: invalid email", op)
	}

	if len(password) < minPasswordLength {
		return fmt.Errorf("%s:%w", op, ErrWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := s.store.Users().CreateCustomer(ctx, c, string(hash)); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return fmt.Errorf("%s:%w", op, ErrEmailTaken)
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// LoginCustomer verifies a customer's password and issues an access token.
//
// Returns:
//   - string: the signed JWT.
//   - error: auth.ErrInvalidCredentials on a wrong email or password.
//   - error: auth.ErrRateLimited when the caller exceeded the login limit.
func (s *Service) LoginCustomer(ctx context.Context, email, password, rlKey string) (string, *domain.Customer, error) {
	const op = "service.auth.LoginCustomer"

	if err := s.allow(ctx, rlKey); err != nil {
		return "", nil, fmt.Errorf("%s:%w", op, err)
	}

	email = strings.ToLower(strings.TrimSpace(email))

	c, hash, err := s.store.Users().FindCustomer(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
		}

		return "", nil, fmt.Errorf("%s:%w", op, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", nil, fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
	}

	token, err := s.issueToken(c.Email, RoleCustomer, c.FirstName+" "+c.LastName)
	if err != nil {
		return "", nil, fmt.Errorf("%s:%w", op, err)
	}

	return token, c, nil
}

// LoginManager verifies a manager's password and issues an access token.
// Managers sign in with their manager code, not an email.
func (s *Service) LoginManager(ctx context.Context, code, password, rlKey string) (string, *domain.Manager, error) {
	const op = "service.auth.LoginManager"

	if err := s.allow(ctx, rlKey); err != nil {
		return "", nil, fmt.Errorf("%s:%w", op, err)
	}

	m, hash, err := s.store.Users().FindManager(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
		}

		return "", nil, fmt.Errorf("%s:%w", op, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", nil, fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
	}

	token, err := s.issueToken(m.Code, RoleManager, m.FirstName+" "+m.LastName)
	if err != nil {
		return "", nil, fmt.Errorf("%s:%w", op, err)
	}

	return token, m, nil
}

// ParseToken validates a JWT and returns its claims.
//
// Returns:
//   - error: auth.ErrInvalidToken on any signature, format or expiry problem.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	const op = "service.auth.ParseToken"

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(s.cfg.JWTSecret), nil
		},
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	return claims, nil
}

func (s *Service) issueToken(subject, role, name string) (string, error) {
	now := time.Now()

	claims := Claims{
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *Service) allow(ctx context.Context, rlKey string) error {
	if s.limiter == nil || rlKey == "" {
		return nil
	}

	ok, _, _, err := s.limiter.Allow(ctx, rlKey)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRateLimited
	}

	return nil
}
