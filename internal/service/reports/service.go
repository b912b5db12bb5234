package reports

import (
	"context"
	"fmt"

	"github.com/flytau/flytau/internal/domain"
	postgresrepo "github.com/flytau/flytau/internal/repository/postgres"
)

// Service exposes the canned management reports. Each one is a straight
// passthrough to its aggregate query.
type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Occupancy(ctx context.Context) ([]domain.OccupancyRow, error) {
	const op = "service.reports.Occupancy"

	rows, err := s.store.Reports().Occupancy(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return rows, nil
}

func (s *Service) Revenue(ctx context.Context) ([]domain.RevenueRow, error) {
	const op = "service.reports.Revenue"

	rows, err := s.store.Reports().Revenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return rows, nil
}

func (s *Service) CrewHours(ctx context.Context) ([]domain.CrewHoursRow, error) {
	const op = "service.reports.CrewHours"

	rows, err := s.store.Reports().CrewHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return rows, nil
}

func (s *Service) CancellationRate(ctx context.Context) ([]domain.CancellationRateRow, error) {
	const op = "service.reports.CancellationRate"

	rows, err := s.store.Reports().CancellationRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return rows, nil
}

func (s *Service) AircraftActivity(ctx context.Context) ([]domain.AircraftActivityRow, error) {
	const op = "service.reports.AircraftActivity"

	rows, err := s.store.Reports().AircraftActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return rows, nil
}
