package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

func newRideService(rides *MockRideRepository, drivers *MockDriverRepository, geocoder service.Geocoder) *service.RideService {
	return service.NewRideService(NewMockTransactor(rides, drivers), rides, geocoder, nil, nil, nil)
}

func validCreateInput(customerID string) service.CreateRideInput {
	return service.CreateRideInput{
		CustomerID:   customerID,
		Pickup:       domain.Location{Latitude: 21.0285, Longitude: 105.8542, Address: "Hoan Kiem"},
		Dropoff:      domain.Location{Latitude: 21.0378, Longitude: 105.8342, Address: "Ba Dinh"},
		ServiceClass: domain.ServiceClassBike,
	}
}

func TestCreateRide_ValidatesCustomerID(t *testing.T) {
	rideService := newRideService(NewMockRideRepository(), NewMockDriverRepository(), nil)

	in := validCreateInput("")
	_, err := rideService.CreateRide(context.Background(), in)

	if err != service.ErrInvalidCustomerID {
		t.Errorf("expected ErrInvalidCustomerID, got %v", err)
	}
}

func TestCreateRide_ValidatesPickupCoordinates(t *testing.T) {
	rideService := newRideService(NewMockRideRepository(), NewMockDriverRepository(), nil)

	testCases := []struct {
		name string
		lat  float64
		lng  float64
	}{
		{"lat too low", -91.0, 105.8},
		{"lat too high", 91.0, 105.8},
		{"lng too low", 21.0, -181.0},
		{"lng too high", 21.0, 181.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput("customer-1")
			in.Pickup = domain.Location{Latitude: tc.lat, Longitude: tc.lng}

			_, err := rideService.CreateRide(context.Background(), in)
			if err != service.ErrInvalidPickupLocation {
				t.Errorf("expected ErrInvalidPickupLocation for (%f, %f), got %v", tc.lat, tc.lng, err)
			}
		})
	}
}

func TestCreateRide_ValidatesDropoffCoordinates(t *testing.T) {
	rideService := newRideService(NewMockRideRepository(), NewMockDriverRepository(), nil)

	in := validCreateInput("customer-1")
	in.Dropoff = domain.Location{Latitude: -100.0, Longitude: 105.8}

	_, err := rideService.CreateRide(context.Background(), in)
	if err != service.ErrInvalidDropoffLocation {
		t.Errorf("expected ErrInvalidDropoffLocation, got %v", err)
	}
}

func TestCreateRide_ValidatesServiceClass(t *testing.T) {
	rideService := newRideService(NewMockRideRepository(), NewMockDriverRepository(), nil)

	in := validCreateInput("customer-1")
	in.ServiceClass = "helicopter"

	_, err := rideService.CreateRide(context.Background(), in)
	if err != service.ErrInvalidServiceClass {
		t.Errorf("expected ErrInvalidServiceClass, got %v", err)
	}
}

func TestCreateRide_ComputesEstimates(t *testing.T) {
	rides := NewMockRideRepository()
	rideService := newRideService(rides, NewMockDriverRepository(), nil)

	// Hoan Kiem -> Ba Dinh is 2.3 km by great-circle distance.
	ride, err := rideService.CreateRide(context.Background(), validCreateInput("customer-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.EstimatedDistanceKm != 2.3 {
		t.Errorf("expected distance 2.3, got %v", ride.EstimatedDistanceKm)
	}
	if ride.EstimatedPrice != 38000 {
		t.Errorf("expected price 38000, got %d", ride.EstimatedPrice)
	}
	if ride.EstimatedDurationMin != 6 {
		t.Errorf("expected duration 6 min, got %d", ride.EstimatedDurationMin)
	}
	if ride.Status != domain.RideStatusPending {
		t.Errorf("expected pending status, got %s", ride.Status)
	}
	if ride.ID == "" {
		t.Error("expected a generated ride ID")
	}

	if stored := rides.GetRide(ride.ID); stored == nil {
		t.Error("ride was not persisted")
	}
}

func TestCreateRide_RejectsSecondOpenRide(t *testing.T) {
	rides := NewMockRideRepository()
	rideService := newRideService(rides, NewMockDriverRepository(), nil)

	if _, err := rideService.CreateRide(context.Background(), validCreateInput("customer-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := rideService.CreateRide(context.Background(), validCreateInput("customer-1"))
	if err != service.ErrCustomerHasOpenRide {
		t.Errorf("expected ErrCustomerHasOpenRide, got %v", err)
	}
}

func TestCreateRide_AllowsNewRideAfterCancellation(t *testing.T) {
	rides := NewMockRideRepository()
	rideService := newRideService(rides, NewMockDriverRepository(), nil)

	first, err := rideService.CreateRide(context.Background(), validCreateInput("customer-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := rideService.CancelRide(context.Background(), first.ID, "customer-1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := rideService.CreateRide(context.Background(), validCreateInput("customer-1")); err != nil {
		t.Errorf("expected new ride after cancellation, got %v", err)
	}
}

func TestCreateRide_FillsMissingAddresses(t *testing.T) {
	geocoder := &MockGeocoder{Address: "12 Hang Bai, Hoan Kiem"}
	rideService := newRideService(NewMockRideRepository(), NewMockDriverRepository(), geocoder)

	in := validCreateInput("customer-1")
	in.Pickup.Address = ""
	in.Dropoff.Address = ""

	ride, err := rideService.CreateRide(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Pickup.Address != "12 Hang Bai, Hoan Kiem" {
		t.Errorf("expected geocoded pickup address, got %q", ride.Pickup.Address)
	}
	if geocoder.ReverseCallCount != 2 {
		t.Errorf("expected 2 reverse geocode calls, got %d", geocoder.ReverseCallCount)
	}
}

func TestCreateRide_DegradesWhenGeocodingFails(t *testing.T) {
	geocoder := &MockGeocoder{Err: service.ErrUpstreamUnavailable}
	rideService := newRideService(NewMockRideRepository(), NewMockDriverRepository(), geocoder)

	in := validCreateInput("customer-1")
	in.Pickup.Address = ""

	ride, err := rideService.CreateRide(context.Background(), in)
	if err != nil {
		t.Fatalf("geocoding failure must not fail the ride, got %v", err)
	}
	if ride.Pickup.Address != service.AddressUnavailable {
		t.Errorf("expected placeholder address, got %q", ride.Pickup.Address)
	}
	// The provided dropoff address is kept untouched.
	if ride.Dropoff.Address != "Ba Dinh" {
		t.Errorf("expected dropoff address preserved, got %q", ride.Dropoff.Address)
	}
}

func TestCreateRide_PropagatesStorageErrors(t *testing.T) {
	rides := NewMockRideRepository()
	rides.CreateError = errors.New("connection reset")
	rideService := newRideService(rides, NewMockDriverRepository(), nil)

	_, err := rideService.CreateRide(context.Background(), validCreateInput("customer-1"))
	if err == nil || err.Error() != "connection reset" {
		t.Errorf("expected storage error to propagate, got %v", err)
	}
}

func TestEstimatesPerServiceClass(t *testing.T) {
	testCases := []struct {
		class domain.ServiceClass
		price int64
	}{
		{domain.ServiceClassBike, 38000},
		{domain.ServiceClassCar4, 59500},
		{domain.ServiceClassCar7, 76000},
	}

	for _, tc := range testCases {
		t.Run(string(tc.class), func(t *testing.T) {
			rideService := newRideService(NewMockRideRepository(), NewMockDriverRepository(), nil)

			in := validCreateInput("customer-" + string(tc.class))
			in.ServiceClass = tc.class

			ride, err := rideService.CreateRide(context.Background(), in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ride.EstimatedPrice != tc.price {
				t.Errorf("expected price %d for %s, got %d", tc.price, tc.class, ride.EstimatedPrice)
			}
		})
	}
}
