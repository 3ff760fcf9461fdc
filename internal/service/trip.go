package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/geo"
	"github.com/Manh-Duc-NT/GoRide/internal/redis"
	"github.com/Manh-Duc-NT/GoRide/internal/repository"
)

// driverLockTTL bounds how long a driver's acceptance lock can outlive
// a crashed request.
const driverLockTTL = 10 * time.Second

// TripService drives the ride lifecycle from acceptance to completion.
//
// Every transition is a conditional update scoped to the expected
// current status, so concurrent callers race safely: exactly one
// acceptance wins, and a cancellation always beats a slower transition.
type TripService struct {
	transactor repository.Transactor
	rideRepo   repository.RideRepository
	driverRepo repository.DriverRepository
	lockStore  redis.LockStoreInterface
	cacheStore redis.CacheStoreInterface
	notifier   *NotificationService
	log        *logrus.Logger
}

// NewTripService creates a new TripService. The lock store, cache store
// and notifier are optional.
func NewTripService(
	transactor repository.Transactor,
	rideRepo repository.RideRepository,
	driverRepo repository.DriverRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	notifier *NotificationService,
	log *logrus.Logger,
) *TripService {
	return &TripService{
		transactor: transactor,
		rideRepo:   rideRepo,
		driverRepo: driverRepo,
		lockStore:  lockStore,
		cacheStore: cacheStore,
		notifier:   notifier,
		log:        log,
	}
}

// AcceptRide assigns a pending ride to an eligible driver.
//
// Eligibility is checked first (approved, not blocked, online, free,
// matching vehicle class), then the pending->accepted swap and the
// driver's current-ride pointer are written in one transaction. Losers
// of a concurrent race get ErrRideAlreadyTaken.
func (s *TripService) AcceptRide(ctx context.Context, rideID, driverID string) (*domain.RideRequest, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.Eligible() || !driver.IsOnline {
		return nil, ErrDriverNotEligible
	}
	if driver.CurrentRideID != "" {
		return nil, ErrDriverHasActiveRide
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if driver.VehicleClass != ride.ServiceClass {
		return nil, ErrDriverNotEligible
	}

	// Serialize acceptance attempts by the same driver. The database
	// predicates stay authoritative; the lock only shortcuts doomed
	// double-taps.
	if s.lockStore != nil {
		acquired, err := s.lockStore.AcquireDriverLock(ctx, driverID, driverLockTTL)
		if err == nil && !acquired {
			return nil, ErrDriverHasActiveRide
		}
		if err == nil {
			defer func() {
				if relErr := s.lockStore.ReleaseDriverLock(ctx, driverID); relErr != nil && s.log != nil {
					s.log.WithError(relErr).Warn("failed to release driver lock")
				}
			}()
		}
	}

	now := time.Now()
	asg := repository.Assignment{
		DriverID:    driverID,
		DriverName:  driver.Name,
		DriverPhone: driver.Phone,
		Vehicle: domain.VehicleSnapshot{
			Class: driver.VehicleClass,
			Name:  driver.VehicleName,
			Plate: driver.VehiclePlate,
		},
		DriverLocation: domain.DriverLocation{
			Latitude:  driver.Location.Latitude,
			Longitude: driver.Location.Longitude,
			Address:   driver.Location.Address,
			UpdatedAt: now,
		},
		AcceptedAt: now,
	}

	err = s.transactor.InTransaction(ctx, func(rides repository.RideRepository, drivers repository.DriverRepository) error {
		if err := rides.Accept(ctx, rideID, asg); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrRideAlreadyTaken
			}
			return err
		}
		if err := drivers.AssignRide(ctx, driverID, rideID, now); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrDriverHasActiveRide
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDriverCache(ctx, driverID)
	s.markAvailability(ctx, driverID, false)

	accepted, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.RideAccepted(accepted)
	}
	return accepted, nil
}

// ConfirmPickup moves an accepted ride to ongoing. Only the assigned
// driver may confirm.
func (s *TripService) ConfirmPickup(ctx context.Context, rideID, driverID string) (*domain.RideRequest, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	err := s.rideRepo.ConfirmPickup(ctx, rideID, driverID, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, s.classifyConflict(ctx, rideID, driverID)
		}
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.PickupConfirmed(ride)
	}
	return ride, nil
}

// CompleteRide moves an ongoing ride to completed and settles it.
//
// The actual distance is measured from the pickup point to the driver's
// final reported position, the final price is recomputed from it, and
// the ride row plus the driver's cumulative stats are written in one
// transaction.
func (s *TripService) CompleteRide(ctx context.Context, rideID, driverID string, finalPosition domain.Location) (*domain.RideRequest, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	if !geo.ValidLocation(finalPosition) {
		return nil, ErrInvalidLocation
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrDriverNotAssigned
	}

	distance := geo.HaversineBetween(ride.Pickup, finalPosition)
	now := time.Now()
	completion := repository.Completion{
		ActualDistanceKm:  distance,
		ActualDurationSec: geo.EstimateDurationMin(distance) * 60,
		FinalPrice:        geo.EstimatePrice(distance, ride.ServiceClass),
		EndTime:           now,
	}

	var driverOnline bool
	err = s.transactor.InTransaction(ctx, func(rides repository.RideRepository, drivers repository.DriverRepository) error {
		if err := rides.Complete(ctx, rideID, driverID, completion); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrInvalidTransition
			}
			return err
		}
		if err := drivers.SettleRide(ctx, driverID, completion.FinalPrice, now); err != nil {
			return err
		}
		driver, err := drivers.GetByID(ctx, driverID)
		if err != nil {
			return err
		}
		driverOnline = driver.IsOnline
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDriverCache(ctx, driverID)
	// A driver who went offline mid-ride must not re-enter the
	// available set.
	if driverOnline {
		s.markAvailability(ctx, driverID, true)
	}

	completed, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.RideCompleted(completed)
	}
	return completed, nil
}

// UpdateRideLocation records a driver position breadcrumb on an
// accepted or ongoing ride.
func (s *TripService) UpdateRideLocation(ctx context.Context, rideID, driverID string, lat, lng float64) error {
	if rideID == "" {
		return ErrInvalidRideID
	}
	if driverID == "" {
		return ErrInvalidDriverID
	}
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
		return ErrInvalidLocation
	}

	loc := domain.DriverLocation{
		Latitude:  lat,
		Longitude: lng,
		UpdatedAt: time.Now(),
	}
	err := s.rideRepo.UpdateDriverLocation(ctx, rideID, driverID, loc)
	if errors.Is(err, repository.ErrConflict) {
		return s.classifyConflict(ctx, rideID, driverID)
	}
	return err
}

// classifyConflict re-reads a ride after a failed conditional update to
// tell a wrong-driver rejection from a wrong-state one.
func (s *TripService) classifyConflict(ctx context.Context, rideID, driverID string) error {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.DriverID != driverID {
		return ErrDriverNotAssigned
	}
	return ErrInvalidTransition
}

func (s *TripService) invalidateDriverCache(ctx context.Context, driverID string) {
	if s.cacheStore == nil {
		return
	}
	if err := s.cacheStore.InvalidateDriver(ctx, driverID); err != nil && s.log != nil {
		s.log.WithError(err).Warn("failed to invalidate driver cache")
	}
}

func (s *TripService) markAvailability(ctx context.Context, driverID string, available bool) {
	if s.cacheStore == nil {
		return
	}
	var err error
	if available {
		err = s.cacheStore.AddAvailableDriver(ctx, driverID)
	} else {
		err = s.cacheStore.RemoveAvailableDriver(ctx, driverID)
	}
	if err != nil && s.log != nil {
		s.log.WithError(err).Warn("failed to update available driver set")
	}
}
