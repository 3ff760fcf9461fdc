package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `
	id, customer_id, driver_id,
	pickup_lat, pickup_lng, pickup_address,
	dropoff_lat, dropoff_lng, dropoff_address,
	service_class, status,
	est_distance_km, est_duration_min, est_price,
	actual_distance_km, actual_duration_sec, final_price,
	driver_name, driver_phone, vehicle_class, vehicle_name, vehicle_plate,
	driver_lat, driver_lng, driver_address, driver_located_at,
	rating, comment,
	created_at, accepted_at, start_time, end_time, rated_at,
	cancelled_at, cancelled_by, updated_at`

// Create persists a new pending ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.RideRequest) error {
	query := `
		INSERT INTO rides (
			id, customer_id,
			pickup_lat, pickup_lng, pickup_address,
			dropoff_lat, dropoff_lng, dropoff_address,
			service_class, status,
			est_distance_km, est_duration_min, est_price,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.CustomerID,
		ride.Pickup.Latitude,
		ride.Pickup.Longitude,
		ride.Pickup.Address,
		ride.Dropoff.Latitude,
		ride.Dropoff.Longitude,
		ride.Dropoff.Address,
		ride.ServiceClass,
		ride.Status,
		ride.EstimatedDistanceKm,
		ride.EstimatedDurationMin,
		ride.EstimatedPrice,
		ride.CreatedAt,
		ride.UpdatedAt,
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.RideRequest, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// GetAll retrieves recent rides, newest first.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.RideRequest, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC LIMIT 100`
	return r.queryRides(ctx, query)
}

// ListPendingByClass retrieves all pending rides of a service class.
func (r *RideRepository) ListPendingByClass(ctx context.Context, class domain.ServiceClass) ([]*domain.RideRequest, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE status = 'pending' AND service_class = $1 ORDER BY created_at`
	return r.queryRides(ctx, query, class)
}

// ListByCustomer retrieves a customer's rides, newest first.
func (r *RideRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.RideRequest, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.queryRides(ctx, query, customerID)
}

// ListCompletedByDriver retrieves rides a driver completed since the given time.
func (r *RideRepository) ListCompletedByDriver(ctx context.Context, driverID string, since time.Time) ([]*domain.RideRequest, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1 AND status = 'completed' AND end_time >= $2 ORDER BY end_time DESC`
	return r.queryRides(ctx, query, driverID, since)
}

// GetOpenByCustomer returns the customer's ride in pending/accepted/ongoing,
// or (nil, nil) when there is none.
func (r *RideRepository) GetOpenByCustomer(ctx context.Context, customerID string) (*domain.RideRequest, error) {
	query := `SELECT ` + rideColumns + ` FROM rides
		WHERE customer_id = $1 AND status IN ('pending', 'accepted', 'ongoing')
		ORDER BY created_at DESC LIMIT 1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ride, nil
}

// Accept performs the pending->accepted swap. The status predicate in
// the WHERE clause is what guarantees exactly one winner under
// concurrent acceptance.
func (r *RideRepository) Accept(ctx context.Context, rideID string, asg repository.Assignment) error {
	query := `
		UPDATE rides
		SET status = 'accepted', driver_id = $2,
			driver_name = $3, driver_phone = $4,
			vehicle_class = $5, vehicle_name = $6, vehicle_plate = $7,
			driver_lat = $8, driver_lng = $9, driver_address = $10, driver_located_at = $11,
			accepted_at = $12, updated_at = $12
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID,
		asg.DriverID,
		asg.DriverName,
		asg.DriverPhone,
		asg.Vehicle.Class,
		asg.Vehicle.Name,
		asg.Vehicle.Plate,
		asg.DriverLocation.Latitude,
		asg.DriverLocation.Longitude,
		asg.DriverLocation.Address,
		asg.DriverLocation.UpdatedAt,
		asg.AcceptedAt,
	)
	if err != nil {
		return err
	}

	return r.conflictIfUnchanged(ctx, result, rideID)
}

// ConfirmPickup performs the accepted->ongoing swap for the assigned driver.
func (r *RideRepository) ConfirmPickup(ctx context.Context, rideID, driverID string, at time.Time) error {
	query := `
		UPDATE rides
		SET status = 'ongoing', start_time = $3, updated_at = $3
		WHERE id = $1 AND driver_id = $2 AND status = 'accepted'
	`

	result, err := r.q.ExecContext(ctx, query, rideID, driverID, at)
	if err != nil {
		return err
	}

	return r.conflictIfUnchanged(ctx, result, rideID)
}

// Complete performs the ongoing->completed swap for the assigned driver.
func (r *RideRepository) Complete(ctx context.Context, rideID, driverID string, c repository.Completion) error {
	query := `
		UPDATE rides
		SET status = 'completed',
			actual_distance_km = $3, actual_duration_sec = $4, final_price = $5,
			end_time = $6, updated_at = $6
		WHERE id = $1 AND driver_id = $2 AND status = 'ongoing'
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, driverID,
		c.ActualDistanceKm, c.ActualDurationSec, c.FinalPrice,
		c.EndTime,
	)
	if err != nil {
		return err
	}

	return r.conflictIfUnchanged(ctx, result, rideID)
}

// Cancel moves a ride in any non-terminal state to cancelled.
func (r *RideRepository) Cancel(ctx context.Context, rideID, actorID string, at time.Time) error {
	query := `
		UPDATE rides
		SET status = 'cancelled', cancelled_at = $3, cancelled_by = $2, updated_at = $3
		WHERE id = $1 AND status IN ('pending', 'accepted', 'ongoing')
	`

	result, err := r.q.ExecContext(ctx, query, rideID, actorID, at)
	if err != nil {
		return err
	}

	return r.conflictIfUnchanged(ctx, result, rideID)
}

// SetRating attaches a rating to a completed, not-yet-rated ride.
func (r *RideRepository) SetRating(ctx context.Context, rideID string, rating int, comment string, at time.Time) error {
	query := `
		UPDATE rides
		SET rating = $2, comment = $3, rated_at = $4, updated_at = $4
		WHERE id = $1 AND status = 'completed' AND rating IS NULL
	`

	result, err := r.q.ExecContext(ctx, query, rideID, rating, comment, at)
	if err != nil {
		return err
	}

	return r.conflictIfUnchanged(ctx, result, rideID)
}

// UpdateDriverLocation records a driver position breadcrumb on an
// accepted or ongoing ride.
func (r *RideRepository) UpdateDriverLocation(ctx context.Context, rideID, driverID string, loc domain.DriverLocation) error {
	query := `
		UPDATE rides
		SET driver_lat = $3, driver_lng = $4, driver_address = $5,
			driver_located_at = $6, updated_at = $6
		WHERE id = $1 AND driver_id = $2 AND status IN ('accepted', 'ongoing')
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, driverID,
		loc.Latitude, loc.Longitude, loc.Address, loc.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return r.conflictIfUnchanged(ctx, result, rideID)
}

// conflictIfUnchanged distinguishes "lost the predicate race" from
// "ride does not exist" after a conditional update touched no rows.
func (r *RideRepository) conflictIfUnchanged(ctx context.Context, result sql.Result, rideID string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, rideID); err != nil {
		return err // repository.ErrNotFound or storage failure
	}
	return repository.ErrConflict
}

func (r *RideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*domain.RideRequest, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.RideRequest
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.RideRequest, error) {
	var ride domain.RideRequest
	var (
		driverID, driverName, driverPhone      sql.NullString
		vehicleClass, vehicleName, vehiclePlate sql.NullString
		driverLat, driverLng                   sql.NullFloat64
		driverAddress                          sql.NullString
		driverLocatedAt                        sql.NullTime
		rating                                 sql.NullInt64
		comment                                sql.NullString
		actualDistance                         sql.NullFloat64
		actualDuration, finalPrice             sql.NullInt64
		acceptedAt, startTime, endTime         sql.NullTime
		ratedAt, cancelledAt                   sql.NullTime
		cancelledBy                            sql.NullString
	)

	err := row.Scan(
		&ride.ID,
		&ride.CustomerID,
		&driverID,
		&ride.Pickup.Latitude,
		&ride.Pickup.Longitude,
		&ride.Pickup.Address,
		&ride.Dropoff.Latitude,
		&ride.Dropoff.Longitude,
		&ride.Dropoff.Address,
		&ride.ServiceClass,
		&ride.Status,
		&ride.EstimatedDistanceKm,
		&ride.EstimatedDurationMin,
		&ride.EstimatedPrice,
		&actualDistance,
		&actualDuration,
		&finalPrice,
		&driverName,
		&driverPhone,
		&vehicleClass,
		&vehicleName,
		&vehiclePlate,
		&driverLat,
		&driverLng,
		&driverAddress,
		&driverLocatedAt,
		&rating,
		&comment,
		&ride.CreatedAt,
		&acceptedAt,
		&startTime,
		&endTime,
		&ratedAt,
		&cancelledAt,
		&cancelledBy,
		&ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ride.DriverID = driverID.String
	ride.DriverName = driverName.String
	ride.DriverPhone = driverPhone.String
	ride.Vehicle = domain.VehicleSnapshot{
		Class: domain.ServiceClass(vehicleClass.String),
		Name:  vehicleName.String,
		Plate: vehiclePlate.String,
	}
	if driverLat.Valid {
		ride.DriverLocation = domain.DriverLocation{
			Latitude:  driverLat.Float64,
			Longitude: driverLng.Float64,
			Address:   driverAddress.String,
			UpdatedAt: driverLocatedAt.Time,
		}
	}
	ride.Rating = int(rating.Int64)
	ride.Comment = comment.String
	ride.ActualDistanceKm = actualDistance.Float64
	ride.ActualDurationSec = int(actualDuration.Int64)
	ride.FinalPrice = finalPrice.Int64
	ride.AcceptedAt = acceptedAt.Time
	ride.StartTime = startTime.Time
	ride.EndTime = endTime.Time
	ride.RatedAt = ratedAt.Time
	ride.CancelledAt = cancelledAt.Time
	ride.CancelledBy = cancelledBy.String

	return &ride, nil
}
