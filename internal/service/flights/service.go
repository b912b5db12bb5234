package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flytau/flytau/internal/domain"
	redisx "github.com/flytau/flytau/internal/redis"
	"github.com/flytau/flytau/internal/repository"
	postgresrepo "github.com/flytau/flytau/internal/repository/postgres"
	redisrepo "github.com/flytau/flytau/internal/repository/redis"
)

type Config struct {
	FlightDetailsTTL time.Duration
	AvailabilityTTL  time.Duration
	SeatMapTTL       time.Duration
	SearchTTL        time.Duration
	AirportsTTL      time.Duration
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.FlightDetailsTTL <= 0 {
		cfg.FlightDetailsTTL = 60 * time.Second
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	if cfg.SeatMapTTL <= 0 {
		cfg.SeatMapTTL = 15 * time.Second
	}

	if cfg.SearchTTL <= 0 {
		cfg.SearchTTL = 30 * time.Second
	}

	if cfg.AirportsTTL <= 0 {
		cfg.AirportsTTL = 10 * time.Minute
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// SearchResult is a bookable flight with how many seats remain per cabin.
type SearchResult struct {
	domain.FlightWithAircraft
	Availability domain.SeatAvailability
}

// Search lists bookable flights matching the filter. Only the fully
// specified date+origin+destination query is cached, which is the shape
// the search form submits.
func (s *Service) Search(
	ctx context.Context,
	departureDate *time.Time,
	origin, destination string,
) ([]SearchResult, error) {
	const op = "service.flights.Search"

	loader := func(ctx context.Context) ([]SearchResult, error) {
		return s.search(ctx, departureDate, origin, destination)
	}

	if departureDate != nil && origin != "" && destination != "" {
		key := redisx.KeySearch(departureDate.Format("2006-01-02"), origin, destination)

		results, err := redisrepo.GetOrSetJSON(ctx, s.cache, key, s.cfg.SearchTTL, loader)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return results, nil
	}

	results, err := loader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

func (s *Service) search(
	ctx context.Context,
	departureDate *time.Time,
	origin, destination string,
) ([]SearchResult, error) {
	found, err := s.store.Flights().Search(ctx, postgresrepo.SearchFilter{
		DepartureDate: departureDate,
		Origin:        origin,
		Destination:   destination,
	})
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(found))
	for _, fw := range found {
		if fw.Status != domain.FlightActive && fw.Status != domain.FlightFull {
			continue
		}

		avail, err := s.availability(ctx, fw)
		if err != nil {
			return nil, err
		}

		results = append(results, SearchResult{
			FlightWithAircraft: fw,
			Availability:       *avail,
		})
	}

	return results, nil
}

// Get retrieves a flight with its aircraft, through the cache.
//
// Returns:
//   - error: flights.ErrFlightNotFound if the flight does not exist.
func (s *Service) Get(ctx context.Context, number string) (*domain.FlightWithAircraft, error) {
	const op = "service.flights.Get"

	key := redisx.KeyFlightDetails(number)

	fw, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.FlightDetailsTTL,
		func(ctx context.Context) (domain.FlightWithAircraft, error) {
			f, err := s.store.Flights().Get(ctx, number)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.FlightWithAircraft{}, ErrFlightNotFound
				}

				return domain.FlightWithAircraft{}, err
			}

			return *f, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &fw, nil
}

// Availability reports remaining seats per cabin, through the cache.
func (s *Service) Availability(ctx context.Context, number string) (*domain.SeatAvailability, error) {
	const op = "service.flights.Availability"

	key := redisx.KeyFlightAvailability(number)

	avail, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) (domain.SeatAvailability, error) {
			fw, err := s.store.Flights().Get(ctx, number)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.SeatAvailability{}, ErrFlightNotFound
				}

				return domain.SeatAvailability{}, err
			}

			a, err := s.availability(ctx, *fw)
			if err != nil {
				return domain.SeatAvailability{}, err
			}

			return *a, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &avail, nil
}

func (s *Service) availability(ctx context.Context, fw domain.FlightWithAircraft) (*domain.SeatAvailability, error) {
	taken, err := s.store.Flights().TakenSeats(ctx, fw.Number)
	if err != nil {
		return nil, err
	}

	var takenEconomy, takenBusiness int
	for _, ts := range taken {
		if ts.Cabin == domain.CabinBusiness {
			takenBusiness++
		} else {
			takenEconomy++
		}
	}

	avail := domain.SeatAvailability{
		Economy: domain.ClassAvailability{
			Total:     fw.Aircraft.EconomySeats(),
			Taken:     takenEconomy,
			Available: fw.Aircraft.EconomySeats() - takenEconomy,
		},
		Business: domain.ClassAvailability{
			Total:     fw.Aircraft.BusinessSeats(),
			Taken:     takenBusiness,
			Available: fw.Aircraft.BusinessSeats() - takenBusiness,
		},
	}

	return &avail, nil
}

// SeatMap renders the aircraft's virtual seat grid for the flight with
// per-seat status and price, through the cache.
//
// Returns:
//   - error: flights.ErrFlightNotFound if the flight does not exist.
func (s *Service) SeatMap(ctx context.Context, number string) ([]domain.SeatWithStatus, error) {
	const op = "service.flights.SeatMap"

	key := redisx.KeyFlightSeatMap(number)

	seats, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.SeatMapTTL,
		func(ctx context.Context) ([]domain.SeatWithStatus, error) {
			fw, err := s.store.Flights().Get(ctx, number)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrFlightNotFound
				}

				return nil, err
			}

			taken, err := s.store.Flights().TakenSeats(ctx, number)
			if err != nil {
				return nil, err
			}

			return buildSeatMap(*fw, taken), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seats, nil
}

// buildSeatMap renders the flight's virtual grid, pricing each seat by its
// cabin and marking every seat held by a live ticket as taken.
func buildSeatMap(fw domain.FlightWithAircraft, taken []postgresrepo.TakenSeat) []domain.SeatWithStatus {
	takenSet := make(map[string]struct{}, len(taken))
	for _, ts := range taken {
		takenSet[domain.SeatCode(ts.Row, ts.Letter)] = struct{}{}
	}

	layout := domain.SeatLayout(fw.Aircraft)
	seats := make([]domain.SeatWithStatus, 0, len(layout))
	for _, seat := range layout {
		sw := domain.SeatWithStatus{
			Seat:       seat,
			Status:     domain.SeatAvailable,
			PriceCents: fw.EconomyCents,
		}
		if seat.Cabin == domain.CabinBusiness {
			sw.PriceCents = fw.BusinessCents
		}
		if _, ok := takenSet[seat.Code]; ok {
			sw.Status = domain.SeatTaken
		}
		seats = append(seats, sw)
	}

	return seats
}

// Airports lists every airport the airline serves, through the cache.
func (s *Service) Airports(ctx context.Context) ([]string, error) {
	const op = "service.flights.Airports"

	ports, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyAirports(),
		s.cfg.AirportsTTL,
		func(ctx context.Context) ([]string, error) {
			return s.store.Flights().Airports(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ports, nil
}

// Routes lists all distinct origin-destination pairs.
func (s *Service) Routes(ctx context.Context) ([]postgresrepo.Route, error) {
	const op = "service.flights.Routes"

	routes, err := s.store.Flights().Routes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return routes, nil
}
