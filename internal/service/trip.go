// Package service contains the business logic for the DriveBook API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/drivebook/backend/internal/domain"
	"github.com/drivebook/backend/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip. When miles is zero and both
// odometer readings are present with end greater than start, miles is derived
// as the difference before persisting.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip, err := normalizeTrip(trip)
	if err != nil {
		return domain.Trip{}, err
	}
	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if no trip with that ID exists.
func (s *TripService) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of trips, newest trip date first, plus the total
// record count. Always returns a non-nil slice so callers can safely range
// over it.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// GetPhoto returns the odometer photo stored with a trip.
// Returns domain.ErrNotFound if the trip does not exist or has no photo.
func (s *TripService) GetPhoto(ctx context.Context, id int64) ([]byte, error) {
	photo, err := s.repo.GetPhoto(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.GetPhoto: %w", err)
	}
	return photo, nil
}

// normalizeTrip enforces the trip business rules and fills in derived fields.
//   - trip_date must be set.
//   - miles and odometer readings must not be negative.
//   - a zero miles value is accepted only when both odometer readings are
//     present and end exceeds start; miles then becomes the difference.
func normalizeTrip(trip domain.Trip) (domain.Trip, error) {
	if trip.TripDate.IsZero() {
		return domain.Trip{}, fmt.Errorf("%w: trip_date is required", domain.ErrValidation)
	}
	if trip.Miles < 0 {
		return domain.Trip{}, fmt.Errorf("%w: miles must not be negative", domain.ErrValidation)
	}
	if trip.StartOdometer != nil && *trip.StartOdometer < 0 {
		return domain.Trip{}, fmt.Errorf("%w: start_odometer must not be negative", domain.ErrValidation)
	}
	if trip.EndOdometer != nil && *trip.EndOdometer < 0 {
		return domain.Trip{}, fmt.Errorf("%w: end_odometer must not be negative", domain.ErrValidation)
	}
	if trip.Miles == 0 {
		if trip.StartOdometer == nil || trip.EndOdometer == nil || *trip.EndOdometer <= *trip.StartOdometer {
			return domain.Trip{}, fmt.Errorf("%w: enter miles or valid odometer readings", domain.ErrValidation)
		}
		trip.Miles = *trip.EndOdometer - *trip.StartOdometer
	}
	return trip, nil
}
