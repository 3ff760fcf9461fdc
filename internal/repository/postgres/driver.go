package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

const driverColumns = `
	id, COALESCE(name, ''), COALESCE(phone, ''),
	vehicle_class, COALESCE(vehicle_name, ''), COALESCE(vehicle_plate, ''),
	verification_status, is_blocked, is_online, is_available,
	lat, lng, COALESCE(address, ''), located_at,
	current_ride_id, total_rides, total_earnings, last_ride_at, created_at`

// Create adds a new driver with verification pending.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (
			id, name, phone, vehicle_class, vehicle_name, vehicle_plate,
			verification_status, is_blocked, is_online, is_available, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, FALSE, FALSE, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		driver.ID, driver.Name, driver.Phone,
		driver.VehicleClass, driver.VehicleName, driver.VehiclePlate,
		driver.VerificationStatus, driver.CreatedAt,
	)
	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return driver, nil
}

// GetByPhone retrieves a driver by phone number.
func (r *DriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE phone = $1`

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return driver, nil
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

// SetOnline marks the driver online at a location. Availability follows
// the current-ride pointer so going online mid-ride cannot double-book.
func (r *DriverRepository) SetOnline(ctx context.Context, id string, loc domain.Location, at time.Time) error {
	query := `
		UPDATE drivers
		SET is_online = TRUE, is_available = (current_ride_id IS NULL),
			lat = $2, lng = $3, address = $4, located_at = $5
		WHERE id = $1
	`
	result, err := r.q.ExecContext(ctx, query, id, loc.Latitude, loc.Longitude, loc.Address, at)
	if err != nil {
		return err
	}
	return notFoundIfUnchanged(result)
}

// SetOffline marks the driver offline and unavailable.
func (r *DriverRepository) SetOffline(ctx context.Context, id string) error {
	query := `UPDATE drivers SET is_online = FALSE, is_available = FALSE WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return notFoundIfUnchanged(result)
}

// UpdateLocation refreshes the driver's last known position.
func (r *DriverRepository) UpdateLocation(ctx context.Context, id string, loc domain.Location, at time.Time) error {
	query := `UPDATE drivers SET lat = $2, lng = $3, address = $4, located_at = $5 WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, id, loc.Latitude, loc.Longitude, loc.Address, at)
	if err != nil {
		return err
	}
	return notFoundIfUnchanged(result)
}

// AssignRide sets the current-ride pointer. The IS NULL predicate keeps
// a driver on at most one active ride even under concurrent accepts.
func (r *DriverRepository) AssignRide(ctx context.Context, driverID, rideID string, at time.Time) error {
	query := `
		UPDATE drivers
		SET current_ride_id = $2, is_available = FALSE, last_ride_at = $3
		WHERE id = $1 AND current_ride_id IS NULL
	`
	result, err := r.q.ExecContext(ctx, query, driverID, rideID, at)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, driverID); err != nil {
		return err
	}
	return repository.ErrConflict
}

// ClearRide drops the current-ride pointer and restores availability.
func (r *DriverRepository) ClearRide(ctx context.Context, driverID string) error {
	query := `
		UPDATE drivers
		SET current_ride_id = NULL, is_available = is_online
		WHERE id = $1
	`
	result, err := r.q.ExecContext(ctx, query, driverID)
	if err != nil {
		return err
	}
	return notFoundIfUnchanged(result)
}

// SettleRide clears the pointer and accrues the ride into the driver's
// cumulative stats in a single write.
func (r *DriverRepository) SettleRide(ctx context.Context, driverID string, earnings int64, at time.Time) error {
	query := `
		UPDATE drivers
		SET current_ride_id = NULL, is_available = is_online,
			total_rides = total_rides + 1,
			total_earnings = total_earnings + $2,
			last_ride_at = $3
		WHERE id = $1
	`
	result, err := r.q.ExecContext(ctx, query, driverID, earnings, at)
	if err != nil {
		return err
	}
	return notFoundIfUnchanged(result)
}

// SetVerification updates the driver's verification status.
func (r *DriverRepository) SetVerification(ctx context.Context, id string, status domain.VerificationStatus) error {
	query := `UPDATE drivers SET verification_status = $2 WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	return notFoundIfUnchanged(result)
}

// SetBlocked blocks or unblocks a driver.
func (r *DriverRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	query := `UPDATE drivers SET is_blocked = $2 WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, id, blocked)
	if err != nil {
		return err
	}
	return notFoundIfUnchanged(result)
}

func notFoundIfUnchanged(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var driver domain.Driver
	var (
		lat, lng      sql.NullFloat64
		address       sql.NullString
		locatedAt     sql.NullTime
		currentRideID sql.NullString
		lastRideAt    sql.NullTime
	)

	err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&driver.VehicleClass,
		&driver.VehicleName,
		&driver.VehiclePlate,
		&driver.VerificationStatus,
		&driver.IsBlocked,
		&driver.IsOnline,
		&driver.IsAvailable,
		&lat,
		&lng,
		&address,
		&locatedAt,
		&currentRideID,
		&driver.TotalRides,
		&driver.TotalEarnings,
		&lastRideAt,
		&driver.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid {
		driver.Location = domain.Location{
			Latitude:  lat.Float64,
			Longitude: lng.Float64,
			Address:   address.String,
		}
		driver.LocatedAt = locatedAt.Time
	}
	driver.CurrentRideID = currentRideID.String
	driver.LastRideAt = lastRideAt.Time

	return &driver, nil
}
