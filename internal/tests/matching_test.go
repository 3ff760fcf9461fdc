package tests

import (
	"context"
	"testing"
	"time"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

func TestCandidates_OrdersByPickupDistance(t *testing.T) {
	rides := NewMockRideRepository()
	drivers := NewMockDriverRepository()

	// Driver in Hoan Kiem.
	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassBike, 21.0285, 105.8542))

	near := PendingRide("ride-near", "c1", domain.ServiceClassBike)
	near.Pickup = domain.Location{Latitude: 21.0330, Longitude: 105.8500}
	far := PendingRide("ride-far", "c2", domain.ServiceClassBike)
	far.Pickup = domain.Location{Latitude: 21.2000, Longitude: 105.9000}
	mid := PendingRide("ride-mid", "c3", domain.ServiceClassBike)
	mid.Pickup = domain.Location{Latitude: 21.0700, Longitude: 105.8200}

	rides.AddRide(far)
	rides.AddRide(near)
	rides.AddRide(mid)

	matching := service.NewMatchingService(rides, drivers)

	candidates, err := matching.Candidates(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}

	gotOrder := []string{candidates[0].Ride.ID, candidates[1].Ride.ID, candidates[2].Ride.ID}
	wantOrder := []string{"ride-near", "ride-mid", "ride-far"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("expected order %v, got %v", wantOrder, gotOrder)
		}
	}

	for i := 1; i < len(candidates); i++ {
		if candidates[i].DistanceKm < candidates[i-1].DistanceKm {
			t.Errorf("distances not ascending: %v then %v", candidates[i-1].DistanceKm, candidates[i].DistanceKm)
		}
	}
}

func TestCandidates_FiltersByVehicleClass(t *testing.T) {
	rides := NewMockRideRepository()
	drivers := NewMockDriverRepository()

	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassBike, 21.03, 105.85))
	rides.AddRide(PendingRide("ride-bike", "c1", domain.ServiceClassBike))
	rides.AddRide(PendingRide("ride-car", "c2", domain.ServiceClassCar4))

	matching := service.NewMatchingService(rides, drivers)

	candidates, err := matching.Candidates(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Ride.ID != "ride-bike" {
		t.Errorf("expected only the bike ride, got %d candidates", len(candidates))
	}
}

func TestCandidates_ExcludesNonPendingRides(t *testing.T) {
	rides := NewMockRideRepository()
	drivers := NewMockDriverRepository()

	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassBike, 21.03, 105.85))

	taken := PendingRide("ride-taken", "c1", domain.ServiceClassBike)
	taken.Status = domain.RideStatusAccepted
	rides.AddRide(taken)
	rides.AddRide(PendingRide("ride-open", "c2", domain.ServiceClassBike))

	matching := service.NewMatchingService(rides, drivers)

	candidates, err := matching.Candidates(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Ride.ID != "ride-open" {
		t.Errorf("expected only the open ride, got %d candidates", len(candidates))
	}
}

func TestCandidates_EmptyForUnavailableDrivers(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*domain.Driver)
	}{
		{"offline", func(d *domain.Driver) { d.IsOnline = false }},
		{"blocked", func(d *domain.Driver) { d.IsBlocked = true }},
		{"unverified", func(d *domain.Driver) { d.VerificationStatus = domain.VerificationPending }},
		{"busy", func(d *domain.Driver) { d.CurrentRideID = "ride-0" }},
		{"no position", func(d *domain.Driver) { d.LocatedAt = time.Time{} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rides := NewMockRideRepository()
			drivers := NewMockDriverRepository()
			rides.AddRide(PendingRide("ride-1", "c1", domain.ServiceClassBike))

			driver := ApprovedDriver("d1", domain.ServiceClassBike, 21.03, 105.85)
			tc.mutate(driver)
			drivers.AddDriver(driver)

			matching := service.NewMatchingService(rides, drivers)

			candidates, err := matching.Candidates(context.Background(), "d1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(candidates) != 0 {
				t.Errorf("expected no candidates, got %d", len(candidates))
			}
		})
	}
}

func TestCandidates_AnnotatesDistanceAndEta(t *testing.T) {
	rides := NewMockRideRepository()
	drivers := NewMockDriverRepository()

	// Driver at the Ba Dinh point, pickup in Hoan Kiem: 2.3 km apart.
	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassBike, 21.0378, 105.8342))
	rides.AddRide(PendingRide("ride-1", "c1", domain.ServiceClassBike))

	matching := service.NewMatchingService(rides, drivers)

	candidates, err := matching.Candidates(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].DistanceKm != 2.3 {
		t.Errorf("expected distance 2.3, got %v", candidates[0].DistanceKm)
	}
	if candidates[0].EtaMin != 6 {
		t.Errorf("expected eta 6 min, got %d", candidates[0].EtaMin)
	}
	// Approach-leg fare in the ride's class: 15000 + 2.3 * 10000.
	if candidates[0].PriceHint != 38000 {
		t.Errorf("expected price hint 38000, got %d", candidates[0].PriceHint)
	}
}

func TestCandidates_PriceHintFollowsServiceClass(t *testing.T) {
	rides := NewMockRideRepository()
	drivers := NewMockDriverRepository()

	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassCar7, 21.0378, 105.8342))
	rides.AddRide(PendingRide("ride-1", "c1", domain.ServiceClassCar7))

	matching := service.NewMatchingService(rides, drivers)

	candidates, err := matching.Candidates(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	// 30000 + 2.3 * 20000 over the same 2.3 km approach.
	if candidates[0].PriceHint != 76000 {
		t.Errorf("expected price hint 76000, got %d", candidates[0].PriceHint)
	}
}
