package repository

import (
	"context"
	"time"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
)

// DriverRepository defines the persistence operations for drivers and
// their presence projection.
type DriverRepository interface {
	// Create adds a new driver with verification pending.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByPhone retrieves a driver by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.Driver, error)

	// GetAll retrieves all drivers.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// SetOnline marks the driver online and available at a location.
	SetOnline(ctx context.Context, id string, loc domain.Location, at time.Time) error

	// SetOffline marks the driver offline and unavailable.
	SetOffline(ctx context.Context, id string) error

	// UpdateLocation refreshes the driver's last known position.
	UpdateLocation(ctx context.Context, id string, loc domain.Location, at time.Time) error

	// AssignRide sets the denormalized current-ride pointer and flips
	// availability off. Conditional on no ride being assigned yet, so a
	// driver owns at most one active ride; ErrConflict otherwise.
	AssignRide(ctx context.Context, driverID, rideID string, at time.Time) error

	// ClearRide drops the current-ride pointer and restores
	// availability (cancellation path).
	ClearRide(ctx context.Context, driverID string) error

	// SettleRide drops the current-ride pointer, restores availability
	// and accrues the completed ride into the driver's cumulative
	// stats, all in one write.
	SettleRide(ctx context.Context, driverID string, earnings int64, at time.Time) error

	// SetVerification updates the driver's verification status.
	SetVerification(ctx context.Context, id string, status domain.VerificationStatus) error

	// SetBlocked blocks or unblocks a driver.
	SetBlocked(ctx context.Context, id string, blocked bool) error
}
