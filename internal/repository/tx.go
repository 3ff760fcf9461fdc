package repository

import "context"

// Transactor runs a function against transaction-scoped repositories.
// Ride and driver mutations that must land together (acceptance,
// completion, cancellation of an assigned ride) go through here so the
// denormalized driver pointer can never drift from the ride record.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(rides RideRepository, drivers DriverRepository) error) error
}
