package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/geo"
	"github.com/Manh-Duc-NT/GoRide/internal/redis"
	"github.com/Manh-Duc-NT/GoRide/internal/repository"
)

// EarningsSummary aggregates a driver's completed rides over the usual
// reporting windows, plus lifetime totals.
type EarningsSummary struct {
	TodayEarnings int64
	TodayRides    int
	WeekEarnings  int64
	WeekRides     int
	MonthEarnings int64
	MonthRides    int
	TotalEarnings int64
	TotalRides    int64
}

// DriverService manages driver profiles and presence.
type DriverService struct {
	driverRepo    repository.DriverRepository
	rideRepo      repository.RideRepository
	locationStore redis.LocationStoreInterface
	cacheStore    redis.CacheStoreInterface
	geocoder      Geocoder
	log           *logrus.Logger
}

// NewDriverService creates a new DriverService. The location store,
// cache store and geocoder are optional.
func NewDriverService(
	driverRepo repository.DriverRepository,
	rideRepo repository.RideRepository,
	locationStore redis.LocationStoreInterface,
	cacheStore redis.CacheStoreInterface,
	geocoder Geocoder,
	log *logrus.Logger,
) *DriverService {
	return &DriverService{
		driverRepo:    driverRepo,
		rideRepo:      rideRepo,
		locationStore: locationStore,
		cacheStore:    cacheStore,
		geocoder:      geocoder,
		log:           log,
	}
}

// GetDriver retrieves a driver by ID.
func (s *DriverService) GetDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.driverRepo.GetByID(ctx, driverID)
}

// GoOnline marks a driver available at a location. Only approved,
// unblocked drivers may go online.
func (s *DriverService) GoOnline(ctx context.Context, driverID string, lat, lng float64) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
		return ErrInvalidLocation
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	if !driver.Eligible() {
		return ErrDriverNotEligible
	}

	loc := domain.Location{
		Latitude:  lat,
		Longitude: lng,
		Address:   s.reverseGeocode(ctx, lat, lng),
	}
	if err := s.driverRepo.SetOnline(ctx, driverID, loc, time.Now()); err != nil {
		return err
	}

	if s.locationStore != nil {
		if err := s.locationStore.UpdateLocation(ctx, driverID, lat, lng); err != nil && s.log != nil {
			s.log.WithError(err).Warn("failed to index driver location")
		}
	}
	if s.cacheStore != nil && driver.CurrentRideID == "" {
		if err := s.cacheStore.AddAvailableDriver(ctx, driverID); err != nil && s.log != nil {
			s.log.WithError(err).Warn("failed to update available driver set")
		}
	}
	s.invalidateCache(ctx, driverID)
	return nil
}

// GoOffline marks a driver offline and removes them from the live
// location index. An active ride is unaffected; the driver just stops
// receiving new candidates.
func (s *DriverService) GoOffline(ctx context.Context, driverID string) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}

	if err := s.driverRepo.SetOffline(ctx, driverID); err != nil {
		return err
	}

	if s.locationStore != nil {
		if err := s.locationStore.RemoveLocation(ctx, driverID); err != nil && s.log != nil {
			s.log.WithError(err).Warn("failed to remove driver from location index")
		}
	}
	if s.cacheStore != nil {
		if err := s.cacheStore.RemoveAvailableDriver(ctx, driverID); err != nil && s.log != nil {
			s.log.WithError(err).Warn("failed to update available driver set")
		}
	}
	s.invalidateCache(ctx, driverID)
	return nil
}

// UpdateLocation refreshes a driver's last known position in both the
// primary store and the live geo index.
func (s *DriverService) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
		return ErrInvalidLocation
	}

	loc := domain.Location{Latitude: lat, Longitude: lng}
	if err := s.driverRepo.UpdateLocation(ctx, driverID, loc, time.Now()); err != nil {
		return err
	}

	if s.locationStore != nil {
		if err := s.locationStore.UpdateLocation(ctx, driverID, lat, lng); err != nil && s.log != nil {
			s.log.WithError(err).Warn("failed to index driver location")
		}
	}
	return nil
}

// NearbyDrivers returns drivers within radiusKm of a point, nearest
// first, from the live geo index.
func (s *DriverService) NearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]redis.DriverLocation, error) {
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
		return nil, ErrInvalidLocation
	}
	if s.locationStore == nil {
		return []redis.DriverLocation{}, nil
	}
	return s.locationStore.FindNearbyDrivers(ctx, lat, lng, radiusKm)
}

// Earnings summarizes a driver's completed rides for today, the last 7
// days and the last 30 days, plus the lifetime totals carried on the
// driver record.
func (s *DriverService) Earnings(ctx context.Context, driverID string) (*EarningsSummary, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	rides, err := s.rideRepo.ListCompletedByDriver(ctx, driverID, monthAgo)
	if err != nil {
		return nil, err
	}

	summary := &EarningsSummary{
		TotalEarnings: driver.TotalEarnings,
		TotalRides:    driver.TotalRides,
	}
	for _, ride := range rides {
		summary.MonthEarnings += ride.FinalPrice
		summary.MonthRides++
		if ride.EndTime.After(weekAgo) {
			summary.WeekEarnings += ride.FinalPrice
			summary.WeekRides++
		}
		if !ride.EndTime.Before(startOfDay) {
			summary.TodayEarnings += ride.FinalPrice
			summary.TodayRides++
		}
	}
	return summary, nil
}

// SetVerification updates a driver's verification status.
func (s *DriverService) SetVerification(ctx context.Context, driverID string, status domain.VerificationStatus) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	switch status {
	case domain.VerificationPending, domain.VerificationApproved, domain.VerificationRejected:
	default:
		return ErrInvalidVerificationStatus
	}
	if err := s.driverRepo.SetVerification(ctx, driverID, status); err != nil {
		return err
	}
	s.invalidateCache(ctx, driverID)
	return nil
}

// SetBlocked blocks or unblocks a driver. Blocking does not interrupt
// an active ride; it takes effect at the next eligibility check.
func (s *DriverService) SetBlocked(ctx context.Context, driverID string, blocked bool) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	if err := s.driverRepo.SetBlocked(ctx, driverID, blocked); err != nil {
		return err
	}
	s.invalidateCache(ctx, driverID)
	return nil
}

func (s *DriverService) reverseGeocode(ctx context.Context, lat, lng float64) string {
	if s.geocoder == nil {
		return ""
	}
	addr, err := s.geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return ""
	}
	return addr
}

func (s *DriverService) invalidateCache(ctx context.Context, driverID string) {
	if s.cacheStore == nil {
		return
	}
	if err := s.cacheStore.InvalidateDriver(ctx, driverID); err != nil && s.log != nil {
		s.log.WithError(err).Warn("failed to invalidate driver cache")
	}
}
