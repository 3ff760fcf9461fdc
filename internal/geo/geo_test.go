package geo

import (
	"testing"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
)

func TestHaversineKm_IdentityIsZero(t *testing.T) {
	t.Parallel()

	points := [][2]float64{
		{0, 0},
		{21.0285, 105.8542},
		{-33.8688, 151.2093},
		{90, 0},
	}

	for _, p := range points {
		if d := HaversineKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("HaversineKm(%v, %v, same point) = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	t.Parallel()

	pairs := [][4]float64{
		{21.0285, 105.8542, 21.0378, 105.8342},
		{10.8231, 106.6297, 21.0278, 105.8342},
		{-1.2921, 36.8219, 51.5074, -0.1278},
	}

	for _, p := range pairs {
		ab := HaversineKm(p[0], p[1], p[2], p[3])
		ba := HaversineKm(p[2], p[3], p[0], p[1])
		if ab != ba {
			t.Errorf("HaversineKm not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestHaversineKm_HanoiShortHop(t *testing.T) {
	t.Parallel()

	// Pickup near Hoan Kiem, dropoff near the diplomatic quarter.
	d := HaversineKm(21.0285, 105.8542, 21.0378, 105.8342)
	if d != 2.3 {
		t.Errorf("expected 2.3 km, got %v", d)
	}
}

func TestEstimateDurationMin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		distanceKm float64
		want       int
	}{
		{0, 0},
		{-1, 0},
		{2.3, 6},  // 5.52 min rounds up
		{5, 12},   // exactly 12
		{25, 60},  // one hour at average speed
		{0.1, 0},  // 0.24 min rounds down
		{10.4, 25}, // 24.96 min rounds up
	}

	for _, tt := range tests {
		if got := EstimateDurationMin(tt.distanceKm); got != tt.want {
			t.Errorf("EstimateDurationMin(%v) = %d, want %d", tt.distanceKm, got, tt.want)
		}
	}
}

func TestEstimatePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		distanceKm float64
		class      domain.ServiceClass
		want       int64
	}{
		{"bike short hop", 2.3, domain.ServiceClassBike, 38000},
		{"bike zero distance is base fare", 0, domain.ServiceClassBike, 15000},
		{"car4 five km", 5, domain.ServiceClassCar4, 100000},
		{"car7 five km", 5, domain.ServiceClassCar7, 130000},
		{"unknown class", 5, domain.ServiceClass("tuk_tuk"), 0},
		{"negative distance", -2, domain.ServiceClassBike, 0},
	}

	for _, tt := range tests {
		if got := EstimatePrice(tt.distanceKm, tt.class); got != tt.want {
			t.Errorf("%s: EstimatePrice(%v, %s) = %d, want %d", tt.name, tt.distanceKm, tt.class, got, tt.want)
		}
	}
}

func TestEstimatePrice_MonotonicInDistance(t *testing.T) {
	t.Parallel()

	classes := []domain.ServiceClass{
		domain.ServiceClassBike,
		domain.ServiceClassCar4,
		domain.ServiceClassCar7,
	}
	distances := []float64{0, 0.5, 1, 2.3, 5, 12.7, 42, 100}

	for _, class := range classes {
		for i := 1; i < len(distances); i++ {
			lo := EstimatePrice(distances[i-1], class)
			hi := EstimatePrice(distances[i], class)
			if lo > hi {
				t.Errorf("%s: price not monotonic: %d km -> %d, %v km -> %d",
					class, int64(distances[i-1]), lo, distances[i], hi)
			}
		}
	}
}

func TestFareFor(t *testing.T) {
	t.Parallel()

	f, ok := FareFor(domain.ServiceClassBike)
	if !ok || f.Base != 15000 || f.PerKm != 10000 {
		t.Errorf("unexpected bike fare: %+v ok=%v", f, ok)
	}

	if _, ok := FareFor(domain.ServiceClass("boat")); ok {
		t.Error("expected unknown class to be rejected")
	}
}

func TestValidLocation(t *testing.T) {
	t.Parallel()

	if !ValidLocation(domain.Location{Latitude: 21.0285, Longitude: 105.8542}) {
		t.Error("valid location rejected")
	}
	if ValidLocation(domain.Location{Latitude: 91, Longitude: 0}) {
		t.Error("latitude out of range accepted")
	}
	if ValidLocation(domain.Location{Latitude: 0, Longitude: -181}) {
		t.Error("longitude out of range accepted")
	}
}
