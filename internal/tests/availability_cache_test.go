package tests

import (
	"context"
	"testing"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

func newTripServiceWithCache(rides *MockRideRepository, drivers *MockDriverRepository, cache *MockCacheStore) *service.TripService {
	return service.NewTripService(NewMockTransactor(rides, drivers), rides, drivers, NewMockLockStore(), cache, nil, nil)
}

func newRideServiceWithCache(rides *MockRideRepository, drivers *MockDriverRepository, cache *MockCacheStore) *service.RideService {
	return service.NewRideService(NewMockTransactor(rides, drivers), rides, nil, cache, nil, nil)
}

func TestCompleteRide_OnlineDriverReturnsToAvailableSet(t *testing.T) {
	rides := NewMockRideRepository()
	drivers := NewMockDriverRepository()
	cache := NewMockCacheStore()

	rides.AddRide(PendingRide("ride-1", "customer-1", domain.ServiceClassBike))
	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassBike, 21.0285, 105.8542))

	tripService := newTripServiceWithCache(rides, drivers, cache)
	ctx := context.Background()

	if _, err := tripService.AcceptRide(ctx, "ride-1", "d1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if cache.IsAvailable("d1") {
		t.Error("accepting a ride must remove the driver from the available set")
	}
	if _, err := tripService.ConfirmPickup(ctx, "ride-1", "d1"); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
	if _, err := tripService.CompleteRide(ctx, "ride-1", "d1", domain.Location{Latitude: 21.0378, Longitude: 105.8342}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if !cache.IsAvailable("d1") {
		t.Error("expected an online driver back in the available set after completion")
	}
}

func TestCompleteRide_OfflineDriverStaysOutOfAvailableSet(t *testing.T) {
	rides := NewMockRideRepository()
	drivers := NewMockDriverRepository()
	cache := NewMockCacheStore()

	rides.AddRide(PendingRide("ride-1", "customer-1", domain.ServiceClassBike))
	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassBike, 21.0285, 105.8542))

	tripService := newTripServiceWithCache(rides, drivers, cache)
	ctx := context.Background()

	if _, err := tripService.AcceptRide(ctx, "ride-1", "d1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := tripService.ConfirmPickup(ctx, "ride-1", "d1"); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}

	// The driver stops receiving work mid-ride; the active ride is
	// unaffected but completion must not re-list them.
	if err := drivers.SetOffline(ctx, "d1"); err != nil {
		t.Fatalf("offline failed: %v", err)
	}

	if _, err := tripService.CompleteRide(ctx, "ride-1", "d1", domain.Location{Latitude: 21.0378, Longitude: 105.8342}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if cache.IsAvailable("d1") {
		t.Error("an offline driver must not re-enter the available set on completion")
	}
}

func TestCancelRide_OfflineDriverStaysOutOfAvailableSet(t *testing.T) {
	rides := NewMockRideRepository()
	drivers := NewMockDriverRepository()
	cache := NewMockCacheStore()

	rides.AddRide(PendingRide("ride-1", "customer-1", domain.ServiceClassBike))
	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassBike, 21.0285, 105.8542))

	tripService := newTripServiceWithCache(rides, drivers, cache)
	rideService := newRideServiceWithCache(rides, drivers, cache)
	ctx := context.Background()

	if _, err := tripService.AcceptRide(ctx, "ride-1", "d1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if err := drivers.SetOffline(ctx, "d1"); err != nil {
		t.Fatalf("offline failed: %v", err)
	}

	if _, err := rideService.CancelRide(ctx, "ride-1", "customer-1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if cache.IsAvailable("d1") {
		t.Error("an offline driver must not re-enter the available set on cancellation")
	}
}

func TestCancelRide_OnlineDriverReturnsToAvailableSet(t *testing.T) {
	rides := NewMockRideRepository()
	drivers := NewMockDriverRepository()
	cache := NewMockCacheStore()

	rides.AddRide(PendingRide("ride-1", "customer-1", domain.ServiceClassBike))
	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassBike, 21.0285, 105.8542))

	tripService := newTripServiceWithCache(rides, drivers, cache)
	rideService := newRideServiceWithCache(rides, drivers, cache)
	ctx := context.Background()

	if _, err := tripService.AcceptRide(ctx, "ride-1", "d1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := rideService.CancelRide(ctx, "ride-1", "customer-1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if !cache.IsAvailable("d1") {
		t.Error("expected an online driver back in the available set after cancellation")
	}
}
