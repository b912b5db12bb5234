package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flytau/flytau/internal/domain"
	redisx "github.com/flytau/flytau/internal/redis"
	"github.com/flytau/flytau/internal/repository"
	postgresrepo "github.com/flytau/flytau/internal/repository/postgres"
	redisrepo "github.com/flytau/flytau/internal/repository/redis"
	"github.com/flytau/flytau/internal/uow"
)

const flightNumberAttempts = 10

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.FlightsPubSub
	drafts *redisrepo.DraftStore
	uow    *uow.UoW

	now func() time.Time
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.FlightsPubSub,
	drafts *redisrepo.DraftStore,
) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		drafts: drafts,
		uow:    uow.NewUoW(store),
		now:    time.Now,
	}
}

// Dashboard aggregates the landing-page counters.
func (s *Service) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	const op = "service.admin.Dashboard"

	var stats domain.DashboardStats
	var err error

	if stats.TotalFlights, err = s.store.Flights().Count(ctx); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if stats.ActiveFlights, err = s.store.Flights().CountByStatus(ctx, domain.FlightActive); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if stats.TotalOrders, err = s.store.Orders().Count(ctx); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if stats.ConfirmedOrders, err = s.store.Orders().CountByStatus(ctx, domain.OrderConfirmed); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if stats.TotalAircraft, err = s.store.Aircraft().Count(ctx); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if stats.TotalRevenueCents, err = s.store.Orders().TotalRevenue(ctx); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &stats, nil
}

// ListFlights returns all flights, optionally filtered by status.
func (s *Service) ListFlights(ctx context.Context, status domain.FlightStatus) ([]domain.FlightWithAircraft, error) {
	const op = "service.admin.ListFlights"

	list, err := s.store.Flights().List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return list, nil
}

// FlightDetail is a flight with its assigned crew.
type FlightDetail struct {
	domain.FlightWithAircraft
	Pilots     []domain.CrewMember
	Attendants []domain.CrewMember
}

// GetFlight retrieves a flight together with its crew assignments.
//
// Returns:
//   - error: admin.ErrFlightNotFound if the flight does not exist.
func (s *Service) GetFlight(ctx context.Context, number string) (*FlightDetail, error) {
	const op = "service.admin.GetFlight"

	fw, err := s.store.Flights().Get(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrFlightNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	pilots, err := s.store.Crew().ForFlight(ctx, domain.RolePilot, number)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	attendants, err := s.store.Crew().ForFlight(ctx, domain.RoleAttendant, number)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &FlightDetail{
		FlightWithAircraft: *fw,
		Pilots:             pilots,
		Attendants:         attendants,
	}, nil
}

// StartDraft opens a flight creation draft with the route and schedule
// (wizard step one).
//
// Returns:
//   - error: admin.ErrSameAirports, ErrDepartureInPast or ErrInvalidDuration
//     on a bad step-one form.
func (s *Service) StartDraft(
	ctx context.Context,
	managerCode string,
	origin, destination string,
	departure time.Time,
	durationMin int,
) (*redisrepo.FlightDraft, error) {
	const op = "service.admin.StartDraft"

	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))

	if origin == "" || destination == "" || origin == destination {
		return nil, fmt.Errorf("%s:%w", op, ErrSameAirports)
	}

	if !departure.After(s.now()) {
		return nil, fmt.Errorf("%s:%w", op, ErrDepartureInPast)
	}

	if durationMin <= 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidDuration)
	}

	draft := redisrepo.FlightDraft{
		ID:          uuid.NewString(),
		ManagerCode: managerCode,
		Step:        1,
		Origin:      origin,
		Destination: destination,
		Departure:   departure,
		DurationMin: durationMin,
		CreatedAt:   s.now(),
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &draft, nil
}

// DraftOptions are the resources a manager may pick in wizard step two.
type DraftOptions struct {
	Draft      redisrepo.FlightDraft
	LongFlight bool
	Aircraft   []domain.Aircraft
	Pilots     []domain.CrewMember
	Attendants []domain.CrewMember
}

// Options lists the aircraft and crew free for the draft's window. Long
// flights only offer large aircraft and long-haul certified crew.
//
// Returns:
//   - error: admin.ErrDraftNotFound if the draft is missing or expired.
func (s *Service) Options(ctx context.Context, draftID string) (*DraftOptions, error) {
	const op = "service.admin.Options"

	draft, ok, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, ErrDraftNotFound)
	}

	opts, err := s.optionsFor(ctx, s.store.Aircraft(), s.store.Crew(), draft)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return opts, nil
}

func (s *Service) optionsFor(
	ctx context.Context,
	aircraftRepo *postgresrepo.AircraftRepo,
	crewRepo *postgresrepo.CrewRepo,
	draft redisrepo.FlightDraft,
) (*DraftOptions, error) {
	departure := draft.Departure
	arrival := departure.Add(time.Duration(draft.DurationMin) * time.Minute)
	long := domain.IsLongFlight(draft.DurationMin)

	aircraft, err := aircraftRepo.Available(ctx, departure, arrival)
	if err != nil {
		return nil, err
	}

	if long {
		large := aircraft[:0]
		for _, a := range aircraft {
			if a.Size() == domain.AircraftLarge {
				large = append(large, a)
			}
		}
		aircraft = large
	}

	pilots, err := crewRepo.Available(ctx, domain.RolePilot, departure, arrival, long)
	if err != nil {
		return nil, err
	}

	attendants, err := crewRepo.Available(ctx, domain.RoleAttendant, departure, arrival, long)
	if err != nil {
		return nil, err
	}

	return &DraftOptions{
		Draft:      draft,
		LongFlight: long,
		Aircraft:   aircraft,
		Pilots:     pilots,
		Attendants: attendants,
	}, nil
}

// SetResources records the aircraft and crew choice (wizard step two) after
// validating it against what is actually free for the window.
//
// Returns:
//   - error: admin.ErrAircraftUnavailable / ErrCrewUnavailable when a picked
//     resource is not in the offered set.
//   - error: admin.ErrCrewCount when the headcount does not fit the aircraft.
func (s *Service) SetResources(
	ctx context.Context,
	draftID string,
	aircraftID int64,
	pilotIDs, attendantIDs []int64,
) (*redisrepo.FlightDraft, error) {
	const op = "service.admin.SetResources"

	draft, ok, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, ErrDraftNotFound)
	}

	opts, err := s.optionsFor(ctx, s.store.Aircraft(), s.store.Crew(), draft)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var picked *domain.Aircraft
	for i := range opts.Aircraft {
		if opts.Aircraft[i].ID == aircraftID {
			picked = &opts.Aircraft[i]
			break
		}
	}
	if picked == nil {
		return nil, fmt.Errorf("%s:%w", op, ErrAircraftUnavailable)
	}

	if opts.LongFlight && picked.Size() != domain.AircraftLarge {
		return nil, fmt.Errorf("%s:%w", op, ErrLongHaulAircraft)
	}

	wantPilots, wantAttendants := domain.CrewRequirements(picked.Size())
	if len(pilotIDs) != wantPilots || len(attendantIDs) != wantAttendants {
		return nil, fmt.Errorf("%s:%w", op, ErrCrewCount)
	}

	if !allIn(pilotIDs, opts.Pilots) || !allIn(attendantIDs, opts.Attendants) {
		return nil, fmt.Errorf("%s:%w", op, ErrCrewUnavailable)
	}

	draft.Step = 2
	draft.AircraftID = aircraftID
	draft.PilotIDs = pilotIDs
	draft.AttendantIDs = attendantIDs

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &draft, nil
}

func allIn(ids []int64, members []domain.CrewMember) bool {
	set := make(map[int64]struct{}, len(members))
	for _, m := range members {
		set[m.ID] = struct{}{}
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}

	return true
}

// CommitDraft prices the flight (wizard step three) and creates it. The
// resource availability is re-checked inside the serializable transaction,
// so two managers racing for the same aircraft cannot both win.
//
// Returns:
//   - error: admin.ErrDraftIncomplete if step two was never completed.
//   - error: admin.ErrInvalidPrice / ErrBusinessPriceNeeded /
//     ErrBusinessPriceExtra on a bad pricing form.
func (s *Service) CommitDraft(
	ctx context.Context,
	draftID string,
	economyCents, businessCents int64,
) (*domain.Flight, error) {
	const op = "service.admin.CommitDraft"

	draft, ok, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, ErrDraftNotFound)
	}

	if draft.Step < 2 {
		return nil, fmt.Errorf("%s:%w", op, ErrDraftIncomplete)
	}

	if economyCents <= 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidPrice)
	}

	aircraft, err := s.store.Aircraft().Get(ctx, draft.AircraftID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if aircraft.BusinessSeats() > 0 && businessCents <= 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrBusinessPriceNeeded)
	}

	if aircraft.BusinessSeats() == 0 && businessCents > 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrBusinessPriceExtra)
	}

	var created domain.Flight

	err = s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		opts, err := s.optionsFor(ctx, s.store.Aircraft().With(tx), s.store.Crew().With(tx), draft)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		found := false
		for _, a := range opts.Aircraft {
			if a.ID == draft.AircraftID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s:%w", op, ErrAircraftUnavailable)
		}

		if !allIn(draft.PilotIDs, opts.Pilots) || !allIn(draft.AttendantIDs, opts.Attendants) {
			return fmt.Errorf("%s:%w", op, ErrCrewUnavailable)
		}

		number, err := s.freeFlightNumber(ctx, tx)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		flight := domain.Flight{
			Number:        number,
			AircraftID:    draft.AircraftID,
			Origin:        draft.Origin,
			Destination:   draft.Destination,
			Departure:     draft.Departure,
			DurationMin:   draft.DurationMin,
			EconomyCents:  economyCents,
			BusinessCents: businessCents,
			Status:        domain.FlightActive,
		}
		if err := s.store.Flights().With(tx).Create(ctx, flight); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Crew().With(tx).
			Assign(ctx, domain.RolePilot, number, draft.PilotIDs); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Crew().With(tx).
			Assign(ctx, domain.RoleAttendant, number, draft.AttendantIDs); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Users().With(tx).
			RecordManagerEdit(ctx, draft.ManagerCode, number, "create_flight"); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		created = flight

		after(func(ctx context.Context) {
			_ = s.drafts.Delete(ctx, draftID)
			_ = s.cache.Del(ctx, redisx.KeyAirports())
			_ = s.pubsub.PublishFlightChanged(ctx, number)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (s *Service) freeFlightNumber(ctx context.Context, tx postgresrepo.DB) (string, error) {
	for i := 0; i < flightNumberAttempts; i++ {
		number := domain.NewFlightNumber()

		exists, err := s.store.Flights().With(tx).NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}

	return "", errors.New("could not generate a unique flight number")
}

// CancelFlight cancels a flight more than 72 hours before departure. Every
// active order on it is system-cancelled with no refund and its seats are
// released.
//
// Returns:
//   - error: admin.ErrFlightNotFound if the flight does not exist.
//   - error: admin.ErrFlightNotCancellable inside the 72-hour window or when
//     the flight is already cancelled or flown.
func (s *Service) CancelFlight(ctx context.Context, managerCode, number string) error {
	const op = "service.admin.CancelFlight"

	return s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		fw, err := s.store.Flights().With(tx).Get(ctx, number)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrFlightNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if fw.Status != domain.FlightActive && fw.Status != domain.FlightFull {
			return fmt.Errorf("%s:%w", op, ErrFlightNotCancellable)
		}

		if !domain.CanCancelFlight(fw.Departure, s.now()) {
			return fmt.Errorf("%s:%w", op, ErrFlightNotCancellable)
		}

		if err := s.store.Flights().With(tx).
			UpdateStatus(ctx, number, domain.FlightCancelled); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		orders, err := s.store.Orders().With(tx).ActiveForFlight(ctx, number)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		// an airline cancellation refunds nothing, the order row records 0 paid
		zero := int64(0)
		for _, o := range orders {
			if err := s.store.Orders().With(tx).DeleteTickets(ctx, o.BookingCode); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			if err := s.store.Orders().With(tx).
				UpdateStatus(ctx, o.BookingCode, domain.OrderSystemCancel, &zero); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
		}

		if err := s.store.Users().With(tx).
			RecordManagerEdit(ctx, managerCode, number, "cancel_flight"); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateFlight(ctx, number)
			_ = s.pubsub.PublishFlightChanged(ctx, number)
		})

		return nil
	})
}

// AircraftInfo is a fleet row with its derived cabin numbers.
type AircraftInfo struct {
	domain.Aircraft
	EconomySeats  int
	BusinessSeats int
	TotalSeats    int
	Size          domain.AircraftSize
}

// ListAircraft returns the fleet with derived seat counts.
func (s *Service) ListAircraft(ctx context.Context) ([]AircraftInfo, error) {
	const op = "service.admin.ListAircraft"

	fleet, err := s.store.Aircraft().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out := make([]AircraftInfo, 0, len(fleet))
	for _, a := range fleet {
		out = append(out, AircraftInfo{
			Aircraft:      a,
			EconomySeats:  a.EconomySeats(),
			BusinessSeats: a.BusinessSeats(),
			TotalSeats:    a.TotalSeats(),
			Size:          a.Size(),
		})
	}

	return out, nil
}

// AircraftLocation reports where an aircraft is at the given time.
//
// Returns:
//   - error: admin.ErrAircraftNotFound if the aircraft does not exist.
func (s *Service) AircraftLocation(ctx context.Context, aircraftID int64, at time.Time) (string, error) {
	const op = "service.admin.AircraftLocation"

	if _, err := s.store.Aircraft().Get(ctx, aircraftID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%s:%w", op, ErrAircraftNotFound)
		}

		return "", fmt.Errorf("%s:%w", op, err)
	}

	location, err := s.store.Aircraft().LocationAt(ctx, aircraftID, at)
	if err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	return location, nil
}

// CrewRoster lists the company's crew for one role, or both when role is
// empty.
func (s *Service) CrewRoster(ctx context.Context, role domain.CrewRole) ([]domain.CrewMember, error) {
	const op = "service.admin.CrewRoster"

	if role != "" {
		members, err := s.store.Crew().List(ctx, role)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		return members, nil
	}

	pilots, err := s.store.Crew().List(ctx, domain.RolePilot)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	attendants, err := s.store.Crew().List(ctx, domain.RoleAttendant)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return append(pilots, attendants...), nil
}
