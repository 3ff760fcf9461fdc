package service

import (
	"context"
	"sort"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/geo"
	"github.com/Manh-Duc-NT/GoRide/internal/repository"
)

// Candidate is a pending ride annotated with the driver's distance to
// its pickup point.
type Candidate struct {
	Ride       *domain.RideRequest
	DistanceKm float64 // driver's current position to pickup
	EtaMin     int     // time to reach the pickup
	PriceHint  int64   // fare for the approach leg, in the ride's class
}

// MatchingService builds the candidate ride list offered to a driver.
//
// Matching is pull based: drivers poll (or get pushed) the set of
// pending rides in their vehicle class, nearest pickup first, and race
// to accept. There is no dispatcher assigning rides.
type MatchingService struct {
	rideRepo   repository.RideRepository
	driverRepo repository.DriverRepository
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(rideRepo repository.RideRepository, driverRepo repository.DriverRepository) *MatchingService {
	return &MatchingService{rideRepo: rideRepo, driverRepo: driverRepo}
}

// Candidates returns the pending rides the driver may accept, ordered
// by distance from the driver's last known position to the pickup.
//
// A driver that is not eligible, offline, already serving a ride or
// without a known position gets an empty list, not an error: the
// candidate feed is advisory and refreshed continuously.
func (s *MatchingService) Candidates(ctx context.Context, driverID string) ([]Candidate, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.Eligible() || !driver.IsOnline || driver.CurrentRideID != "" {
		return []Candidate{}, nil
	}
	if driver.LocatedAt.IsZero() {
		return []Candidate{}, nil
	}

	pending, err := s.rideRepo.ListPendingByClass(ctx, driver.VehicleClass)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(pending))
	for _, ride := range pending {
		dist := geo.HaversineBetween(driver.Location, ride.Pickup)
		candidates = append(candidates, Candidate{
			Ride:       ride,
			DistanceKm: dist,
			EtaMin:     geo.EstimateDurationMin(dist),
			PriceHint:  geo.EstimatePrice(dist, ride.ServiceClass),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DistanceKm < candidates[j].DistanceKm
	})
	return candidates, nil
}
