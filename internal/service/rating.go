package service

import (
	"context"
	"errors"
	"time"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/repository"
)

// RatingService handles post-ride ratings.
type RatingService struct {
	rideRepo repository.RideRepository
}

// NewRatingService creates a new RatingService.
func NewRatingService(rideRepo repository.RideRepository) *RatingService {
	return &RatingService{rideRepo: rideRepo}
}

// RateRide attaches a rating to a completed ride.
//
// Only the ride's customer may rate, only once, and only after
// completion. The write is conditional on the ride being completed and
// unrated, so concurrent duplicate submissions cannot both land.
func (s *RatingService) RateRide(ctx context.Context, rideID, customerID string, rating int, comment string) (*domain.RideRequest, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.CustomerID != customerID {
		return nil, ErrNotRideCustomer
	}
	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrInvalidTransition
	}
	if ride.Rating != 0 {
		return nil, ErrRideAlreadyRated
	}

	err = s.rideRepo.SetRating(ctx, rideID, rating, comment, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost a race: re-read to tell a duplicate rating from a
			// state change.
			current, readErr := s.rideRepo.GetByID(ctx, rideID)
			if readErr != nil {
				return nil, readErr
			}
			if current.Rating != 0 {
				return nil, ErrRideAlreadyRated
			}
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	return s.rideRepo.GetByID(ctx, rideID)
}
