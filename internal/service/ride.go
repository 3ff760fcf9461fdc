package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/geo"
	"github.com/Manh-Duc-NT/GoRide/internal/redis"
	"github.com/Manh-Duc-NT/GoRide/internal/repository"
)

// CreateRideInput carries the fields of a ride request.
type CreateRideInput struct {
	CustomerID   string
	Pickup       domain.Location
	Dropoff      domain.Location
	ServiceClass domain.ServiceClass
}

// RideService handles ride creation, retrieval and cancellation.
type RideService struct {
	transactor repository.Transactor
	rideRepo   repository.RideRepository
	geocoder   Geocoder
	cacheStore redis.CacheStoreInterface
	notifier   *NotificationService
	log        *logrus.Logger
}

// NewRideService creates a new RideService. The geocoder, cache store
// and notifier are optional; a nil geocoder skips address resolution
// and a nil notifier skips push events.
func NewRideService(
	transactor repository.Transactor,
	rideRepo repository.RideRepository,
	geocoder Geocoder,
	cacheStore redis.CacheStoreInterface,
	notifier *NotificationService,
	log *logrus.Logger,
) *RideService {
	return &RideService{
		transactor: transactor,
		rideRepo:   rideRepo,
		geocoder:   geocoder,
		cacheStore: cacheStore,
		notifier:   notifier,
		log:        log,
	}
}

// CreateRide validates a request, prices it and persists it as pending.
//
// A customer can have at most one open (pending/accepted/ongoing) ride;
// a second request is rejected with ErrCustomerHasOpenRide. Estimates
// are computed once here and never silently recomputed afterwards.
func (s *RideService) CreateRide(ctx context.Context, in CreateRideInput) (*domain.RideRequest, error) {
	if in.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if !geo.ValidLocation(in.Pickup) {
		return nil, ErrInvalidPickupLocation
	}
	if !geo.ValidLocation(in.Dropoff) {
		return nil, ErrInvalidDropoffLocation
	}
	if _, ok := geo.FareFor(in.ServiceClass); !ok {
		return nil, ErrInvalidServiceClass
	}

	open, err := s.rideRepo.GetOpenByCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrCustomerHasOpenRide
	}

	in.Pickup.Address = s.resolveAddress(ctx, in.Pickup)
	in.Dropoff.Address = s.resolveAddress(ctx, in.Dropoff)

	distance := geo.HaversineBetween(in.Pickup, in.Dropoff)
	now := time.Now()

	ride := &domain.RideRequest{
		ID:                   uuid.New().String(),
		CustomerID:           in.CustomerID,
		Pickup:               in.Pickup,
		Dropoff:              in.Dropoff,
		ServiceClass:         in.ServiceClass,
		Status:               domain.RideStatusPending,
		EstimatedDistanceKm:  distance,
		EstimatedDurationMin: geo.EstimateDurationMin(distance),
		EstimatedPrice:       geo.EstimatePrice(distance, in.ServiceClass),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.RideRequested(ride)
	}
	return ride, nil
}

// resolveAddress fills in a missing address via reverse geocoding. The
// geocoder is best effort: on any failure the ride proceeds with a
// placeholder address rather than being rejected.
func (s *RideService) resolveAddress(ctx context.Context, loc domain.Location) string {
	if loc.Address != "" {
		return loc.Address
	}
	if s.geocoder == nil {
		return AddressUnavailable
	}

	addr, err := s.geocoder.ReverseGeocode(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).Warn("reverse geocoding failed, using placeholder")
		}
		return AddressUnavailable
	}
	return addr
}

// GetRide retrieves a ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.RideRequest, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByID(ctx, rideID)
}

// GetAllRides retrieves recent rides, newest first.
func (s *RideService) GetAllRides(ctx context.Context) ([]*domain.RideRequest, error) {
	return s.rideRepo.GetAll(ctx)
}

// ListCustomerRides retrieves a customer's ride history, newest first.
func (s *RideService) ListCustomerRides(ctx context.Context, customerID string) ([]*domain.RideRequest, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return s.rideRepo.ListByCustomer(ctx, customerID)
}

// GetOpenRide returns the customer's currently open ride, or nil when
// there is none.
func (s *RideService) GetOpenRide(ctx context.Context, customerID string) (*domain.RideRequest, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return s.rideRepo.GetOpenByCustomer(ctx, customerID)
}

// CancelRide cancels a ride on behalf of its customer or its assigned
// driver. Cancellation is allowed from any non-terminal state and wins
// any race against a concurrent transition, because every transition
// re-validates the ride's status.
func (s *RideService) CancelRide(ctx context.Context, rideID, actorID string) (*domain.RideRequest, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if actorID == "" {
		return nil, ErrInvalidCustomerID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if actorID != ride.CustomerID && actorID != ride.DriverID {
		return nil, ErrDriverNotAssigned
	}
	if !ride.Status.Active() {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	var cancelled *domain.RideRequest
	var driverOnline bool
	err = s.transactor.InTransaction(ctx, func(rides repository.RideRepository, drivers repository.DriverRepository) error {
		if err := rides.Cancel(ctx, rideID, actorID, now); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrInvalidTransition
			}
			return err
		}
		// Re-read inside the transaction: an acceptance may have landed
		// between the authorization check and the cancel, in which case
		// the now-assigned driver must be freed too.
		cancelled, err = rides.GetByID(ctx, rideID)
		if err != nil {
			return err
		}
		if cancelled.DriverID != "" {
			if err := drivers.ClearRide(ctx, cancelled.DriverID); err != nil {
				return err
			}
			driver, err := drivers.GetByID(ctx, cancelled.DriverID)
			if err != nil {
				return err
			}
			driverOnline = driver.IsOnline
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cancelled.DriverID != "" && s.cacheStore != nil {
		if err := s.cacheStore.InvalidateDriver(ctx, cancelled.DriverID); err != nil && s.log != nil {
			s.log.WithError(err).Warn("failed to invalidate driver cache")
		}
		// Only a still-online driver goes back into the available set.
		if driverOnline {
			if err := s.cacheStore.AddAvailableDriver(ctx, cancelled.DriverID); err != nil && s.log != nil {
				s.log.WithError(err).Warn("failed to update available driver set")
			}
		}
	}

	if s.notifier != nil {
		s.notifier.RideCancelled(cancelled, actorID)
	}
	return cancelled, nil
}
