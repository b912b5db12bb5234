package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flytau/flytau/internal/domain"
	redisx "github.com/flytau/flytau/internal/redis"
	"github.com/flytau/flytau/internal/repository"
	postgresrepo "github.com/flytau/flytau/internal/repository/postgres"
	redisrepo "github.com/flytau/flytau/internal/repository/redis"
	"github.com/flytau/flytau/internal/uow"
)

const (
	// txAttempts bounds retries of the serializable checkout transaction
	// when two buyers race for the same flight.
	txAttempts = 3

	bookingCodeAttempts = 5

	checkoutLockTTL = 30 * time.Second
)

type Config struct {
	IdempotencyTTL time.Duration
}

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisx.FlightsPubSub
	limiter *redisrepo.SlidingWindowLimiter
	idem    *redisrepo.IdempotencyStore
	uow     *uow.UoW
	cfg     Config

	now func() time.Time
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.FlightsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	idem *redisrepo.IdempotencyStore,
	cfg Config,
) *Service {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		idem:    idem,
		uow:     uow.NewUoW(store),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Purchaser identifies who is buying: a registered customer by email, or a
// guest by email plus name. Exactly one of the two shapes is filled in.
type Purchaser struct {
	CustomerEmail string

	GuestEmail     string
	GuestFirstName string
	GuestLastName  string
}

func (p Purchaser) email() string {
	if p.CustomerEmail != "" {
		return p.CustomerEmail
	}
	return p.GuestEmail
}

type CheckoutInput struct {
	FlightNumber   string
	SeatCodes      []string
	Purchaser      Purchaser
	IdempotencyKey string
}

// Checkout books the selected seats in one serializable transaction. The
// seat grid is virtual, so "is this seat free" and "take it" collapse into
// a single INSERT guarded by the unique index on live tickets: a losing
// racer gets ErrSeatTaken instead of a double booking.
//
// When IdempotencyKey is set, a retry of an already completed checkout
// returns the original booking code instead of booking twice.
//
// Returns:
//   - error: booking.ErrSeatTaken if any selected seat is already held.
//   - error: booking.ErrFlightNotBookable if the flight is not active.
//   - error: booking.ErrInvalidSeat if a seat code is off the aircraft grid.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput, rlKey string) (*domain.OrderWithTickets, error) {
	const op = "service.booking.Checkout"

	if len(in.SeatCodes) == 0 {
		return nil, fmt.Errorf("%s: no seats selected", op)
	}

	if in.Purchaser.email() == "" {
		return nil, fmt.Errorf("%s: purchaser email required", op)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, _, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w", op, ErrRateLimited)
		}
	}

	var idemKey string
	if in.IdempotencyKey != "" {
		idemKey = redisrepo.KeyIdemCheckout(in.FlightNumber, in.IdempotencyKey)

		if code, ok, err := s.idem.GetResult(ctx, idemKey); err == nil && ok {
			return s.orderByCode(ctx, op, code)
		}

		acquired, err := s.idem.AcquireLock(ctx, idemKey, checkoutLockTTL)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !acquired {
			if code, ok, err := s.idem.GetResult(ctx, idemKey); err == nil && ok {
				return s.orderByCode(ctx, op, code)
			}
			return nil, fmt.Errorf("%s:%w", op, ErrCheckoutInProgress)
		}
	}

	bookingCode, err := s.checkoutTx(ctx, op, in)
	if err != nil {
		if idemKey != "" {
			_ = s.idem.Release(ctx, idemKey)
		}
		return nil, err
	}

	if idemKey != "" {
		_ = s.idem.SaveResult(ctx, idemKey, bookingCode)
	}

	return s.orderByCode(ctx, op, bookingCode)
}

func (s *Service) checkoutTx(ctx context.Context, op string, in CheckoutInput) (string, error) {
	var bookingCode string

	run := func() error {
		return s.uow.Do(ctx, func(
			ctx context.Context,
			tx postgresrepo.DB,
			after func(uow.AfterCommit),
		) error {
			fw, err := s.store.Flights().With(tx).Get(ctx, in.FlightNumber)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%s:%w", op, ErrFlightNotFound)
				}

				return fmt.Errorf("%s:%w", op, err)
			}

			if fw.Status != domain.FlightActive {
				return fmt.Errorf("%s:%w", op, ErrFlightNotBookable)
			}

			if !fw.Departure.After(s.now()) {
				return fmt.Errorf("%s:%w", op, ErrFlightNotBookable)
			}

			tickets, total, err := buildTickets(*fw, in.SeatCodes)
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			if in.Purchaser.CustomerEmail == "" {
				guest := domain.Guest{
					Email:     in.Purchaser.GuestEmail,
					FirstName: in.Purchaser.GuestFirstName,
					LastName:  in.Purchaser.GuestLastName,
				}
				if err := s.store.Users().With(tx).UpsertGuest(ctx, guest); err != nil {
					return fmt.Errorf("%s:%w", op, err)
				}
			}

			code, err := s.freeBookingCode(ctx, tx)
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			order := domain.Order{
				BookingCode:    code,
				FlightNumber:   fw.Number,
				CustomerEmail:  in.Purchaser.CustomerEmail,
				GuestEmail:     in.Purchaser.GuestEmail,
				PaidTotalCents: total,
				Status:         domain.OrderConfirmed,
			}
			if err := s.store.Orders().With(tx).Create(ctx, order); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			for i := range tickets {
				tickets[i].BookingCode = code
				if err := s.store.Orders().With(tx).CreateTicket(ctx, tickets[i]); err != nil {
					if errors.Is(err, repository.ErrSeatTaken) {
						return fmt.Errorf("%s:%w", op, ErrSeatTaken)
					}

					return fmt.Errorf("%s:%w", op, err)
				}
			}

			if err := s.markFullIfSoldOut(ctx, tx, *fw); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			bookingCode = code

			after(func(ctx context.Context) {
				_ = s.cache.InvalidateFlight(ctx, fw.Number)
				_ = s.pubsub.PublishFlightChanged(ctx, fw.Number)
			})

			return nil
		})
	}

	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		err = run()
		if err == nil || !postgresrepo.IsRetryable(err) {
			break
		}
	}
	if err != nil {
		return "", err
	}

	return bookingCode, nil
}

// buildTickets validates the seat codes against the aircraft grid and
// prices each one by cabin.
func buildTickets(fw domain.FlightWithAircraft, seatCodes []string) ([]domain.Ticket, int64, error) {
	seen := make(map[string]struct{}, len(seatCodes))
	tickets := make([]domain.Ticket, 0, len(seatCodes))

	var total int64
	for _, code := range seatCodes {
		row, letter, err := domain.ParseSeatCode(code)
		if err != nil {
			return nil, 0, ErrInvalidSeat
		}

		if !fw.Aircraft.SeatExists(row, letter) {
			return nil, 0, ErrInvalidSeat
		}

		normalized := domain.SeatCode(row, letter)
		if _, dup := seen[normalized]; dup {
			return nil, 0, ErrInvalidSeat
		}
		seen[normalized] = struct{}{}

		cabin, err := fw.Aircraft.CabinForRow(row)
		if err != nil {
			return nil, 0, ErrInvalidSeat
		}

		price := fw.EconomyCents
		if cabin == domain.CabinBusiness {
			price = fw.BusinessCents
		}

		tickets = append(tickets, domain.Ticket{
			ID:           uuid.New(),
			FlightNumber: fw.Number,
			Cabin:        cabin,
			Row:          row,
			Letter:       letter,
			PriceCents:   price,
		})
		total += price
	}

	return tickets, total, nil
}

func (s *Service) freeBookingCode(ctx context.Context, tx postgresrepo.DB) (string, error) {
	for i := 0; i < bookingCodeAttempts; i++ {
		code := domain.NewBookingCode()

		exists, err := s.store.Orders().With(tx).BookingCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "", errors.New("could not generate a unique booking code")
}

func (s *Service) markFullIfSoldOut(ctx context.Context, tx postgresrepo.DB, fw domain.FlightWithAircraft) error {
	taken, err := s.store.Flights().With(tx).TakenSeats(ctx, fw.Number)
	if err != nil {
		return err
	}

	if len(taken) >= fw.Aircraft.TotalSeats() {
		return s.store.Flights().With(tx).UpdateStatus(ctx, fw.Number, domain.FlightFull)
	}

	return nil
}

func (s *Service) orderByCode(ctx context.Context, op, code string) (*domain.OrderWithTickets, error) {
	owt, err := s.store.Orders().WithTickets(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return owt, nil
}

// CancelResult is what a customer cancellation settles to.
type CancelResult struct {
	BookingCode string
	FeeCents    int64
	RefundCents int64
}

// Cancel cancels a confirmed order on behalf of its purchaser. Allowed only
// while more than 36 hours remain before departure; a 5% fee is withheld
// from the refund and the order's paid total is rewritten to the refunded
// amount. Freed seats reopen the flight if it was full.
//
// Returns:
//   - error: booking.ErrOrderNotFound if the code+email pair matches nothing.
//   - error: booking.ErrNotConfirmed if the order is not in confirmed state.
//   - error: booking.ErrNotCancellable inside the 36-hour window.
func (s *Service) Cancel(ctx context.Context, bookingCode, email string) (*CancelResult, error) {
	const op = "service.booking.Cancel"

	var result CancelResult

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		order, err := s.store.Orders().With(tx).GetForEmail(ctx, bookingCode, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrOrderNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if order.Status != domain.OrderConfirmed {
			return fmt.Errorf("%s:%w", op, ErrNotConfirmed)
		}

		fw, err := s.store.Flights().With(tx).Get(ctx, order.FlightNumber)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if !domain.CanCancelOrder(fw.Departure, s.now()) {
			return fmt.Errorf("%s:%w", op, ErrNotCancellable)
		}

		fee, refund := domain.CancellationFee(order.PaidTotalCents)

		if err := s.store.Orders().With(tx).DeleteTickets(ctx, bookingCode); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Orders().With(tx).
			UpdateStatus(ctx, bookingCode, domain.OrderCustomerCancel, &refund); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if fw.Status == domain.FlightFull {
			if err := s.store.Flights().With(tx).
				UpdateStatus(ctx, fw.Number, domain.FlightActive); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
		}

		result = CancelResult{
			BookingCode: bookingCode,
			FeeCents:    fee,
			RefundCents: refund,
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateFlight(ctx, fw.Number)
			_ = s.pubsub.PublishFlightChanged(ctx, fw.Number)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ChangeSeats swaps the order's seats for a new selection on the same
// flight and reprices the paid total for the new selection. Subject to the
// same 36-hour window as cancellation.
func (s *Service) ChangeSeats(ctx context.Context, bookingCode, email string, seatCodes []string) (*domain.OrderWithTickets, error) {
	const op = "service.booking.ChangeSeats"

	run := func() error {
		return s.uow.Do(ctx, func(
			ctx context.Context,
			tx postgresrepo.DB,
			after func(uow.AfterCommit),
		) error {
			order, err := s.store.Orders().With(tx).GetForEmail(ctx, bookingCode, email)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%s:%w", op, ErrOrderNotFound)
				}

				return fmt.Errorf("%s:%w", op, err)
			}

			if order.Status != domain.OrderConfirmed {
				return fmt.Errorf("%s:%w", op, ErrNotConfirmed)
			}

			fw, err := s.store.Flights().With(tx).Get(ctx, order.FlightNumber)
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			if !domain.CanCancelOrder(fw.Departure, s.now()) {
				return fmt.Errorf("%s:%w", op, ErrNotCancellable)
			}

			newTickets, newTotal, err := buildTickets(*fw, seatCodes)
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			if err := s.store.Orders().With(tx).DeleteTickets(ctx, bookingCode); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			for i := range newTickets {
				newTickets[i].BookingCode = bookingCode
				if err := s.store.Orders().With(tx).CreateTicket(ctx, newTickets[i]); err != nil {
					if errors.Is(err, repository.ErrSeatTaken) {
						return fmt.Errorf("%s:%w", op, ErrSeatTaken)
					}

					return fmt.Errorf("%s:%w", op, err)
				}
			}

			if newTotal != order.PaidTotalCents {
				if err := s.store.Orders().With(tx).
					UpdateStatus(ctx, bookingCode, domain.OrderConfirmed, &newTotal); err != nil {
					return fmt.Errorf("%s:%w", op, err)
				}
			}

			after(func(ctx context.Context) {
				_ = s.cache.InvalidateFlight(ctx, fw.Number)
				_ = s.pubsub.PublishFlightChanged(ctx, fw.Number)
			})

			return nil
		})
	}

	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		err = run()
		if err == nil || !postgresrepo.IsRetryable(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	return s.orderByCode(ctx, op, bookingCode)
}

// Get retrieves an order with its tickets for its purchaser. Guests must
// present both the booking code and the email they bought with.
//
// Returns:
//   - error: booking.ErrOrderNotFound if the pair matches nothing.
func (s *Service) Get(ctx context.Context, bookingCode, email string) (*domain.OrderWithTickets, error) {
	const op = "service.booking.Get"

	if _, err := s.store.Orders().GetForEmail(ctx, bookingCode, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrOrderNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return s.orderByCode(ctx, op, bookingCode)
}

// List returns all orders of a purchaser, optionally filtered by status.
func (s *Service) List(ctx context.Context, email string, status domain.OrderStatus) ([]postgresrepo.OrderSummary, error) {
	const op = "service.booking.List"

	orders, err := s.store.Orders().ListForPurchaser(ctx, email, status)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return orders, nil
}
