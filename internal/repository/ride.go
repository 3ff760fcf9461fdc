package repository

import (
	"context"
	"time"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
)

// Assignment carries the fields written onto a ride when a driver
// accepts it.
type Assignment struct {
	DriverID       string
	DriverName     string
	DriverPhone    string
	Vehicle        domain.VehicleSnapshot
	DriverLocation domain.DriverLocation
	AcceptedAt     time.Time
}

// Completion carries the fields written onto a ride at completion.
type Completion struct {
	ActualDistanceKm  float64
	ActualDurationSec int
	FinalPrice        int64
	EndTime           time.Time
}

// RideRepository defines the persistence operations for ride requests.
//
// All state transitions are conditional updates: the write succeeds only
// if the ride is still in the expected status (and, where relevant,
// assigned to the expected driver). A failed predicate yields
// ErrConflict, never a silent overwrite.
type RideRepository interface {
	// Create persists a new pending ride.
	Create(ctx context.Context, ride *domain.RideRequest) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.RideRequest, error)

	// GetAll retrieves recent rides, newest first.
	GetAll(ctx context.Context) ([]*domain.RideRequest, error)

	// ListPendingByClass retrieves all pending rides of a service class.
	ListPendingByClass(ctx context.Context, class domain.ServiceClass) ([]*domain.RideRequest, error)

	// ListByCustomer retrieves a customer's rides, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.RideRequest, error)

	// ListCompletedByDriver retrieves rides a driver completed since
	// the given time.
	ListCompletedByDriver(ctx context.Context, driverID string, since time.Time) ([]*domain.RideRequest, error)

	// GetOpenByCustomer returns the customer's ride in
	// pending/accepted/ongoing, or (nil, nil) when there is none.
	GetOpenByCustomer(ctx context.Context, customerID string) (*domain.RideRequest, error)

	// Accept performs the pending->accepted swap. Exactly one of any
	// number of concurrent callers succeeds; the rest get ErrConflict.
	Accept(ctx context.Context, rideID string, asg Assignment) error

	// ConfirmPickup performs the accepted->ongoing swap for the
	// assigned driver.
	ConfirmPickup(ctx context.Context, rideID, driverID string, at time.Time) error

	// Complete performs the ongoing->completed swap for the assigned
	// driver.
	Complete(ctx context.Context, rideID, driverID string, c Completion) error

	// Cancel moves a ride in any non-terminal state to cancelled.
	Cancel(ctx context.Context, rideID, actorID string, at time.Time) error

	// SetRating attaches a rating to a completed, not-yet-rated ride.
	SetRating(ctx context.Context, rideID string, rating int, comment string, at time.Time) error

	// UpdateDriverLocation records a driver position breadcrumb on an
	// accepted or ongoing ride.
	UpdateDriverLocation(ctx context.Context, rideID, driverID string, loc domain.DriverLocation) error
}
