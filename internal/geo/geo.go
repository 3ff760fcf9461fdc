// Package geo provides the pure geospatial and pricing primitives the
// ride lifecycle is built on: great-circle distance, ETA estimation and
// fare calculation. Everything here is deterministic and side-effect
// free so it can be tested in isolation from storage.
package geo

import (
	"math"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
)

const (
	earthRadiusKm = 6371

	// AverageSpeedKmh is the assumed average urban travel speed used
	// for all duration estimates.
	AverageSpeedKmh = 25
)

// Fare holds the pricing coefficients for one service class, both in
// minor currency units (VND).
type Fare struct {
	Base  int64
	PerKm int64
}

// fareTable maps each service class to its pricing coefficients.
var fareTable = map[domain.ServiceClass]Fare{
	domain.ServiceClassBike: {Base: 15000, PerKm: 10000},
	domain.ServiceClassCar4: {Base: 25000, PerKm: 15000},
	domain.ServiceClassCar7: {Base: 30000, PerKm: 20000},
}

// FareFor returns the pricing coefficients for a service class.
// The second return value is false for an unknown class.
func FareFor(class domain.ServiceClass) (Fare, bool) {
	f, ok := fareTable[class]
	return f, ok
}

// HaversineKm returns the great-circle distance between two points in
// kilometers, rounded to one decimal place.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKm*c*10) / 10
}

// HaversineBetween is HaversineKm over two locations.
func HaversineBetween(from, to domain.Location) float64 {
	return HaversineKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
}

// EstimateDurationMin returns the estimated travel time in whole
// minutes for the given distance at AverageSpeedKmh.
func EstimateDurationMin(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	return int(math.Round(distanceKm / AverageSpeedKmh * 60))
}

// EstimatePrice returns the fare for the given distance and service
// class, rounded to the nearest minor currency unit. Unknown classes
// price at zero.
func EstimatePrice(distanceKm float64, class domain.ServiceClass) int64 {
	f, ok := fareTable[class]
	if !ok || distanceKm < 0 {
		return 0
	}
	return int64(math.Round(float64(f.Base) + distanceKm*float64(f.PerKm)))
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// ValidLatitude reports whether lat is a usable latitude.
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lng is a usable longitude.
func ValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// ValidLocation reports whether the location carries usable coordinates.
func ValidLocation(loc domain.Location) bool {
	return ValidLatitude(loc.Latitude) && ValidLongitude(loc.Longitude)
}
