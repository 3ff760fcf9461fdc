package tests

import (
	"context"
	"testing"
	"time"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

func newDriverService(drivers *MockDriverRepository, rides *MockRideRepository, locations *MockLocationStore) *service.DriverService {
	return service.NewDriverService(drivers, rides, locations, nil, nil, nil)
}

func TestGoOnline_IndexesLocation(t *testing.T) {
	drivers := NewMockDriverRepository()
	locations := NewMockLocationStore()

	driver := ApprovedDriver("d1", domain.ServiceClassBike, 0, 0)
	driver.IsOnline = false
	driver.IsAvailable = false
	drivers.AddDriver(driver)

	driverService := newDriverService(drivers, NewMockRideRepository(), locations)

	if err := driverService.GoOnline(context.Background(), "d1", 21.03, 105.85); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := drivers.GetDriver("d1")
	if !stored.IsOnline || !stored.IsAvailable {
		t.Errorf("expected online and available, got online=%v available=%v", stored.IsOnline, stored.IsAvailable)
	}
	if stored.Location.Latitude != 21.03 {
		t.Errorf("location not recorded: %+v", stored.Location)
	}
	if !locations.HasLocation("d1") {
		t.Error("expected driver in the geo index")
	}
}

func TestGoOnline_RequiresApproval(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*domain.Driver)
	}{
		{"pending verification", func(d *domain.Driver) { d.VerificationStatus = domain.VerificationPending }},
		{"rejected", func(d *domain.Driver) { d.VerificationStatus = domain.VerificationRejected }},
		{"blocked", func(d *domain.Driver) { d.IsBlocked = true }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			drivers := NewMockDriverRepository()
			driver := ApprovedDriver("d1", domain.ServiceClassBike, 0, 0)
			tc.mutate(driver)
			drivers.AddDriver(driver)

			driverService := newDriverService(drivers, NewMockRideRepository(), NewMockLocationStore())

			err := driverService.GoOnline(context.Background(), "d1", 21.03, 105.85)
			if err != service.ErrDriverNotEligible {
				t.Errorf("expected ErrDriverNotEligible, got %v", err)
			}
		})
	}
}

func TestGoOffline_RemovesFromIndex(t *testing.T) {
	drivers := NewMockDriverRepository()
	locations := NewMockLocationStore()
	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassBike, 21.03, 105.85))

	driverService := newDriverService(drivers, NewMockRideRepository(), locations)

	if err := driverService.GoOnline(context.Background(), "d1", 21.03, 105.85); err != nil {
		t.Fatalf("online failed: %v", err)
	}
	if err := driverService.GoOffline(context.Background(), "d1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := drivers.GetDriver("d1")
	if stored.IsOnline || stored.IsAvailable {
		t.Errorf("expected offline and unavailable, got online=%v available=%v", stored.IsOnline, stored.IsAvailable)
	}
	if locations.HasLocation("d1") {
		t.Error("expected driver removed from the geo index")
	}
}

func TestUpdateLocation_ValidatesCoordinates(t *testing.T) {
	drivers := NewMockDriverRepository()
	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassBike, 21.03, 105.85))

	driverService := newDriverService(drivers, NewMockRideRepository(), NewMockLocationStore())

	err := driverService.UpdateLocation(context.Background(), "d1", 95.0, 105.85)
	if err != service.ErrInvalidLocation {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestEarnings_BucketsByWindow(t *testing.T) {
	drivers := NewMockDriverRepository()
	rides := NewMockRideRepository()

	driver := ApprovedDriver("d1", domain.ServiceClassBike, 21.03, 105.85)
	driver.TotalRides = 40
	driver.TotalEarnings = 2000000
	drivers.AddDriver(driver)

	now := time.Now()
	addCompleted := func(id string, end time.Time, price int64) {
		ride := completedRide(id, "c-"+id)
		ride.EndTime = end
		ride.FinalPrice = price
		rides.AddRide(ride)
	}
	addCompleted("ride-today", now.Add(-1*time.Minute), 38000)
	addCompleted("ride-week", now.AddDate(0, 0, -3), 59500)
	addCompleted("ride-month", now.AddDate(0, 0, -20), 76000)
	addCompleted("ride-old", now.AddDate(0, 0, -60), 100000) // outside every window

	driverService := newDriverService(drivers, rides, NewMockLocationStore())

	summary, err := driverService.Earnings(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TodayEarnings != 38000 || summary.TodayRides != 1 {
		t.Errorf("today: expected (38000, 1), got (%d, %d)", summary.TodayEarnings, summary.TodayRides)
	}
	if summary.WeekEarnings != 38000+59500 || summary.WeekRides != 2 {
		t.Errorf("week: expected (97500, 2), got (%d, %d)", summary.WeekEarnings, summary.WeekRides)
	}
	if summary.MonthEarnings != 38000+59500+76000 || summary.MonthRides != 3 {
		t.Errorf("month: expected (173500, 3), got (%d, %d)", summary.MonthEarnings, summary.MonthRides)
	}
	if summary.TotalEarnings != 2000000 || summary.TotalRides != 40 {
		t.Errorf("totals: expected (2000000, 40), got (%d, %d)", summary.TotalEarnings, summary.TotalRides)
	}
}

func TestCompleteRide_FeedsEarnings(t *testing.T) {
	rides := NewMockRideRepository()
	drivers := NewMockDriverRepository()
	rides.AddRide(PendingRide("ride-1", "customer-1", domain.ServiceClassBike))
	drivers.AddDriver(ApprovedDriver("d1", domain.ServiceClassBike, 21.03, 105.85))

	tripService := newTripService(rides, drivers, NewMockLockStore())
	driverService := newDriverService(drivers, rides, NewMockLocationStore())

	if _, err := tripService.AcceptRide(context.Background(), "ride-1", "d1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := tripService.ConfirmPickup(context.Background(), "ride-1", "d1"); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
	if _, err := tripService.CompleteRide(context.Background(), "ride-1", "d1", domain.Location{Latitude: 21.0378, Longitude: 105.8342}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	summary, err := driverService.Earnings(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TodayEarnings != 38000 || summary.TodayRides != 1 {
		t.Errorf("expected today (38000, 1), got (%d, %d)", summary.TodayEarnings, summary.TodayRides)
	}
}
