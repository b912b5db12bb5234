package service

import (
	redisx "github.com/flytau/flytau/internal/redis"
	postgres "github.com/flytau/flytau/internal/repository/postgres"
	redis "github.com/flytau/flytau/internal/repository/redis"
	"github.com/flytau/flytau/internal/service/admin"
	"github.com/flytau/flytau/internal/service/auth"
	"github.com/flytau/flytau/internal/service/booking"
	"github.com/flytau/flytau/internal/service/flights"
	"github.com/flytau/flytau/internal/service/reports"
)

type Services struct {
	Auth    *auth.Service
	Flights *flights.Service
	Booking *booking.Service
	Admin   *admin.Service
	Reports *reports.Service
}

type Config struct {
	Auth    auth.Config
	Flights flights.Config
	Booking booking.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redisx.FlightsPubSub,
	loginLimiter *redis.SlidingWindowLimiter,
	checkoutLimiter *redis.SlidingWindowLimiter,
	idem *redis.IdempotencyStore,
	drafts *redis.DraftStore,
	cfg Config,
) *Services {
	return &Services{
		Auth:    auth.New(store, loginLimiter, cfg.Auth),
		Flights: flights.New(store, cache, cfg.Flights),
		Booking: booking.New(store, cache, pubsub, checkoutLimiter, idem, cfg.Booking),
		Admin:   admin.New(store, cache, pubsub, drafts),
		Reports: reports.New(store),
	}
}
