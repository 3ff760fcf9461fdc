package tests

import (
	"context"
	"sync"
	"testing"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

func completedRide(id, customerID string) *domain.RideRequest {
	ride := PendingRide(id, customerID, domain.ServiceClassBike)
	ride.Status = domain.RideStatusCompleted
	ride.DriverID = "d1"
	ride.FinalPrice = 38000
	return ride
}

func TestRateRide_AttachesRating(t *testing.T) {
	rides := NewMockRideRepository()
	rides.AddRide(completedRide("ride-1", "customer-1"))

	ratingService := service.NewRatingService(rides)

	ride, err := ratingService.RateRide(context.Background(), "ride-1", "customer-1", 5, "great driver")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.Rating != 5 || ride.Comment != "great driver" {
		t.Errorf("rating not attached: rating=%d comment=%q", ride.Rating, ride.Comment)
	}
	if ride.RatedAt.IsZero() {
		t.Error("expected RatedAt to be set")
	}
}

func TestRateRide_ValidatesRatingRange(t *testing.T) {
	rides := NewMockRideRepository()
	rides.AddRide(completedRide("ride-1", "customer-1"))

	ratingService := service.NewRatingService(rides)

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := ratingService.RateRide(context.Background(), "ride-1", "customer-1", rating, "")
		if err != service.ErrInvalidRating {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestRateRide_OnlyCustomerMayRate(t *testing.T) {
	rides := NewMockRideRepository()
	rides.AddRide(completedRide("ride-1", "customer-1"))

	ratingService := service.NewRatingService(rides)

	_, err := ratingService.RateRide(context.Background(), "ride-1", "d1", 4, "")
	if err != service.ErrNotRideCustomer {
		t.Errorf("expected ErrNotRideCustomer, got %v", err)
	}
}

func TestRateRide_OnlyCompletedRides(t *testing.T) {
	for _, status := range []domain.RideStatus{
		domain.RideStatusPending,
		domain.RideStatusAccepted,
		domain.RideStatusOngoing,
		domain.RideStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			rides := NewMockRideRepository()
			ride := PendingRide("ride-1", "customer-1", domain.ServiceClassBike)
			ride.Status = status
			rides.AddRide(ride)

			ratingService := service.NewRatingService(rides)

			_, err := ratingService.RateRide(context.Background(), "ride-1", "customer-1", 4, "")
			if err != service.ErrInvalidTransition {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestRateRide_FirstRatingStands(t *testing.T) {
	rides := NewMockRideRepository()
	rides.AddRide(completedRide("ride-1", "customer-1"))

	ratingService := service.NewRatingService(rides)

	if _, err := ratingService.RateRide(context.Background(), "ride-1", "customer-1", 5, "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := ratingService.RateRide(context.Background(), "ride-1", "customer-1", 1, "second")
	if err != service.ErrRideAlreadyRated {
		t.Errorf("expected ErrRideAlreadyRated, got %v", err)
	}

	stored := rides.GetRide("ride-1")
	if stored.Rating != 5 || stored.Comment != "first" {
		t.Errorf("first rating must stand, got rating=%d comment=%q", stored.Rating, stored.Comment)
	}
}

func TestRateRide_ConcurrentDuplicatesOnlyOneLands(t *testing.T) {
	rides := NewMockRideRepository()
	rides.AddRide(completedRide("ride-1", "customer-1"))

	ratingService := service.NewRatingService(rides)

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ratingService.RateRide(context.Background(), "ride-1", "customer-1", 3, "")
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch err {
		case nil:
			wins++
		case service.ErrRideAlreadyRated:
		default:
			t.Errorf("attempt %d: unexpected error %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly 1 rating to land, got %d", wins)
	}
}
