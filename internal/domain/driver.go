package domain

import "time"

// VerificationStatus represents a driver's document verification state.
// Only approved drivers may go online.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Driver represents a driver profile together with its live presence
// projection (online/available flags, last known location, and the
// denormalized pointer to the ride the driver is currently serving).
type Driver struct {
	ID           string
	Name         string
	Phone        string
	VehicleClass ServiceClass
	VehicleName  string
	VehiclePlate string

	VerificationStatus VerificationStatus
	IsBlocked          bool

	IsOnline    bool
	IsAvailable bool
	Location    Location
	LocatedAt   time.Time

	// CurrentRideID duplicates the active ride assignment for fast
	// "what am I doing" lookups. It is mutated in the same transaction
	// as the ride transition that changes it.
	CurrentRideID string

	TotalRides    int64
	TotalEarnings int64 // minor currency units
	LastRideAt    time.Time
	CreatedAt     time.Time
}

// Eligible reports whether the driver may be offered or accept rides.
func (d *Driver) Eligible() bool {
	return d.VerificationStatus == VerificationApproved && !d.IsBlocked
}
