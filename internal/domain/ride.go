package domain

import "time"

// RideStatus represents the current status of a ride request.
type RideStatus string

const (
	RideStatusPending   RideStatus = "pending"
	RideStatusAccepted  RideStatus = "accepted"
	RideStatusOngoing   RideStatus = "ongoing"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// Active reports whether the status is a non-terminal state.
func (s RideStatus) Active() bool {
	return s == RideStatusPending || s == RideStatusAccepted || s == RideStatusOngoing
}

// ServiceClass represents the vehicle tier requested for a ride.
// It fixes the pricing table and driver matching eligibility.
type ServiceClass string

const (
	ServiceClassBike ServiceClass = "bike"  // two-wheeler
	ServiceClassCar4 ServiceClass = "car_4" // 4-seat car
	ServiceClassCar7 ServiceClass = "car_7" // 7-seat car
)

// Location is a geographic point with an optional human-readable address.
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// DriverLocation is a driver position breadcrumb recorded on a ride
// while it is accepted or ongoing.
type DriverLocation struct {
	Latitude  float64
	Longitude float64
	Address   string
	UpdatedAt time.Time
}

// VehicleSnapshot is the driver's vehicle info copied onto a ride at
// acceptance time, so the record stays meaningful if the profile changes.
type VehicleSnapshot struct {
	Class ServiceClass
	Name  string
	Plate string
}

// RideRequest is the central entity of the ride lifecycle.
//
// Pickup and Dropoff are immutable once the ride leaves pending.
// Estimated* fields are advisory, computed at request time from
// pickup->dropoff. Actual* fields are set exactly once at completion.
type RideRequest struct {
	ID         string
	CustomerID string
	DriverID   string // empty until accepted

	Pickup       Location
	Dropoff      Location
	ServiceClass ServiceClass
	Status       RideStatus

	EstimatedDistanceKm  float64
	EstimatedDurationMin int
	EstimatedPrice       int64 // minor currency units

	ActualDistanceKm  float64
	ActualDurationSec int
	FinalPrice        int64

	// Driver snapshot, copied at acceptance.
	DriverName     string
	DriverPhone    string
	Vehicle        VehicleSnapshot
	DriverLocation DriverLocation

	Rating  int // 0 = unset, otherwise 1..5
	Comment string

	CreatedAt   time.Time
	AcceptedAt  time.Time
	StartTime   time.Time // pickup confirmed
	EndTime     time.Time
	RatedAt     time.Time
	CancelledAt time.Time
	CancelledBy string
	UpdatedAt   time.Time
}
