package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/redis"
	"github.com/Manh-Duc-NT/GoRide/internal/repository"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is an in-memory RideRepository. Its transition
// methods enforce the same status predicates as the SQL implementation
// so concurrency tests exercise the real conflict behavior.
type MockRideRepository struct {
	mu    sync.Mutex
	rides map[string]*domain.RideRequest

	// Counters for verification
	CreateCallCount int32
	AcceptCallCount int32

	// Error injection
	CreateError error
	AcceptError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.RideRequest),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.RideRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

// GetRide returns the stored ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.RideRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rides[id]
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.RideRequest) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetAll(ctx context.Context) ([]*domain.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.RideRequest, 0, len(m.rides))
	for _, r := range m.rides {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRideRepository) ListPendingByClass(ctx context.Context, class domain.ServiceClass) ([]*domain.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.RideRequest, 0)
	for _, r := range m.rides {
		if r.Status == domain.RideStatusPending && r.ServiceClass == class {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.RideRequest, 0)
	for _, r := range m.rides {
		if r.CustomerID == customerID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) ListCompletedByDriver(ctx context.Context, driverID string, since time.Time) ([]*domain.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.RideRequest, 0)
	for _, r := range m.rides {
		if r.Status == domain.RideStatusCompleted && r.DriverID == driverID && r.EndTime.After(since) {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) GetOpenByCustomer(ctx context.Context, customerID string) (*domain.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rides {
		if r.CustomerID == customerID && r.Status.Active() {
			copy := *r
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockRideRepository) Accept(ctx context.Context, rideID string, asg repository.Assignment) error {
	atomic.AddInt32(&m.AcceptCallCount, 1)
	if m.AcceptError != nil {
		return m.AcceptError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusPending {
		return repository.ErrConflict
	}
	ride.Status = domain.RideStatusAccepted
	ride.DriverID = asg.DriverID
	ride.DriverName = asg.DriverName
	ride.DriverPhone = asg.DriverPhone
	ride.Vehicle = asg.Vehicle
	ride.DriverLocation = asg.DriverLocation
	ride.AcceptedAt = asg.AcceptedAt
	ride.UpdatedAt = asg.AcceptedAt
	return nil
}

func (m *MockRideRepository) ConfirmPickup(ctx context.Context, rideID, driverID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusAccepted || ride.DriverID != driverID {
		return repository.ErrConflict
	}
	ride.Status = domain.RideStatusOngoing
	ride.StartTime = at
	ride.UpdatedAt = at
	return nil
}

func (m *MockRideRepository) Complete(ctx context.Context, rideID, driverID string, c repository.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusOngoing || ride.DriverID != driverID {
		return repository.ErrConflict
	}
	ride.Status = domain.RideStatusCompleted
	ride.ActualDistanceKm = c.ActualDistanceKm
	ride.ActualDurationSec = c.ActualDurationSec
	ride.FinalPrice = c.FinalPrice
	ride.EndTime = c.EndTime
	ride.UpdatedAt = c.EndTime
	return nil
}

func (m *MockRideRepository) Cancel(ctx context.Context, rideID, actorID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if !ride.Status.Active() {
		return repository.ErrConflict
	}
	ride.Status = domain.RideStatusCancelled
	ride.CancelledAt = at
	ride.CancelledBy = actorID
	ride.UpdatedAt = at
	return nil
}

func (m *MockRideRepository) SetRating(ctx context.Context, rideID string, rating int, comment string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusCompleted || ride.Rating != 0 {
		return repository.ErrConflict
	}
	ride.Rating = rating
	ride.Comment = comment
	ride.RatedAt = at
	ride.UpdatedAt = at
	return nil
}

func (m *MockRideRepository) UpdateDriverLocation(ctx context.Context, rideID, driverID string, loc domain.DriverLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.DriverID != driverID || (ride.Status != domain.RideStatusAccepted && ride.Status != domain.RideStatusOngoing) {
		return repository.ErrConflict
	}
	ride.DriverLocation = loc
	ride.UpdatedAt = loc.UpdatedAt
	return nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is an in-memory DriverRepository with the same
// conditional-assignment behavior as the SQL implementation.
type MockDriverRepository struct {
	mu      sync.Mutex
	drivers map[string]*domain.Driver

	// Counters for verification
	AssignRideCallCount int32
	SettleRideCallCount int32

	// Error injection
	AssignRideError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

// GetDriver returns the stored driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drivers[id]
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.drivers {
		if d.Phone == phone {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) SetOnline(ctx context.Context, id string, loc domain.Location, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.IsOnline = true
	driver.IsAvailable = driver.CurrentRideID == ""
	driver.Location = loc
	driver.LocatedAt = at
	return nil
}

func (m *MockDriverRepository) SetOffline(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.IsOnline = false
	driver.IsAvailable = false
	return nil
}

func (m *MockDriverRepository) UpdateLocation(ctx context.Context, id string, loc domain.Location, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Location = loc
	driver.LocatedAt = at
	return nil
}

func (m *MockDriverRepository) AssignRide(ctx context.Context, driverID, rideID string, at time.Time) error {
	atomic.AddInt32(&m.AssignRideCallCount, 1)
	if m.AssignRideError != nil {
		return m.AssignRideError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[driverID]
	if !ok {
		return repository.ErrNotFound
	}
	if driver.CurrentRideID != "" {
		return repository.ErrConflict
	}
	driver.CurrentRideID = rideID
	driver.IsAvailable = false
	return nil
}

func (m *MockDriverRepository) ClearRide(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[driverID]
	if !ok {
		return repository.ErrNotFound
	}
	driver.CurrentRideID = ""
	driver.IsAvailable = driver.IsOnline
	return nil
}

func (m *MockDriverRepository) SettleRide(ctx context.Context, driverID string, earnings int64, at time.Time) error {
	atomic.AddInt32(&m.SettleRideCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[driverID]
	if !ok {
		return repository.ErrNotFound
	}
	driver.CurrentRideID = ""
	driver.IsAvailable = driver.IsOnline
	driver.TotalRides++
	driver.TotalEarnings += earnings
	driver.LastRideAt = at
	return nil
}

func (m *MockDriverRepository) SetVerification(ctx context.Context, id string, status domain.VerificationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.VerificationStatus = status
	return nil
}

func (m *MockDriverRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.IsBlocked = blocked
	return nil
}

// ──────────────────────────────────────────────
// MOCK CUSTOMER REPOSITORY
// ──────────────────────────────────────────────

// MockCustomerRepository is an in-memory CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.Mutex
	customers map[string]*domain.Customer
}

// NewMockCustomerRepository creates a new mock customer repository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
	}
}

// AddCustomer adds a customer to the mock repository.
func (m *MockCustomerRepository) AddCustomer(customer *domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *customer
	return &copy, nil
}

func (m *MockCustomerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.Phone == phone {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockCustomerRepository) GetAll(ctx context.Context) ([]*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK TRANSACTOR
// ──────────────────────────────────────────────

// MockTransactor runs the transactional function directly against the
// shared mocks. A mutex serializes transactions the way row locks do
// in the real database, so concurrent lifecycle operations cannot
// interleave mid-transaction.
type MockTransactor struct {
	mu      sync.Mutex
	Rides   *MockRideRepository
	Drivers *MockDriverRepository

	// Error injection
	BeginError error
}

// NewMockTransactor creates a new mock transactor over the given mocks.
func NewMockTransactor(rides *MockRideRepository, drivers *MockDriverRepository) *MockTransactor {
	return &MockTransactor{Rides: rides, Drivers: drivers}
}

func (m *MockTransactor) InTransaction(ctx context.Context, fn func(rides repository.RideRepository, drivers repository.DriverRepository) error) error {
	if m.BeginError != nil {
		return m.BeginError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.Rides, m.Drivers)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireDriverLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:driver:" + driverID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseDriverLock(ctx context.Context, driverID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:driver:"+driverID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStore.
type MockLocationStore struct {
	mu        sync.Mutex
	locations []redis.DriverLocation

	// Error injection
	UpdateLocationError    error
	FindNearbyDriversError error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make([]redis.DriverLocation, 0),
	}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	if m.UpdateLocationError != nil {
		return m.UpdateLocationError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.locations {
		if loc.DriverID == driverID {
			m.locations[i].Lat = lat
			m.locations[i].Lng = lng
			return nil
		}
	}
	m.locations = append(m.locations, redis.DriverLocation{
		DriverID: driverID,
		Lat:      lat,
		Lng:      lng,
	})
	return nil
}

func (m *MockLocationStore) FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]redis.DriverLocation, error) {
	if m.FindNearbyDriversError != nil {
		return nil, m.FindNearbyDriversError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// The mock skips real geo filtering.
	result := make([]redis.DriverLocation, len(m.locations))
	copy(result, m.locations)
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.locations {
		if loc.DriverID == driverID {
			m.locations = append(m.locations[:i], m.locations[i+1:]...)
			return nil
		}
	}
	return nil
}

// HasLocation reports whether a driver is in the index.
func (m *MockLocationStore) HasLocation(driverID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, loc := range m.locations {
		if loc.DriverID == driverID {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────
// MOCK GEOCODER
// ──────────────────────────────────────────────

// MockGeocoder is a canned-response Geocoder.
type MockGeocoder struct {
	Address string
	Err     error

	ReverseCallCount int32
}

func (m *MockGeocoder) Autocomplete(ctx context.Context, query string) ([]service.PlaceSuggestion, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return []service.PlaceSuggestion{{Description: m.Address, PlaceID: "place-1"}}, nil
}

func (m *MockGeocoder) PlaceDetail(ctx context.Context, placeID string) (domain.Location, error) {
	if m.Err != nil {
		return domain.Location{}, m.Err
	}
	return domain.Location{Latitude: 21.0285, Longitude: 105.8542, Address: m.Address}, nil
}

func (m *MockGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	atomic.AddInt32(&m.ReverseCallCount, 1)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Address, nil
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStore tracking the
// available-driver set in memory.
type MockCacheStore struct {
	mu        sync.Mutex
	available map[string]struct{}

	// Counters
	InvalidateCallCount int32

	// Error injection
	AddAvailableError error
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		available: make(map[string]struct{}),
	}
}

func (m *MockCacheStore) InvalidateDriver(ctx context.Context, driverID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	return nil
}

func (m *MockCacheStore) AddAvailableDriver(ctx context.Context, driverID string) error {
	if m.AddAvailableError != nil {
		return m.AddAvailableError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available[driverID] = struct{}{}
	return nil
}

func (m *MockCacheStore) RemoveAvailableDriver(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.available, driverID)
	return nil
}

func (m *MockCacheStore) GetAvailableDrivers(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, 0, len(m.available))
	for id := range m.available {
		result = append(result, id)
	}
	return result, nil
}

// IsAvailable reports whether a driver is in the available set.
func (m *MockCacheStore) IsAvailable(driverID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.available[driverID]
	return ok
}

// ──────────────────────────────────────────────
// TEST FIXTURES
// ──────────────────────────────────────────────

// ApprovedDriver returns an online, approved bike driver at the given
// position.
func ApprovedDriver(id string, class domain.ServiceClass, lat, lng float64) *domain.Driver {
	return &domain.Driver{
		ID:                 id,
		Name:               "Driver " + id,
		Phone:              "09" + id,
		VehicleClass:       class,
		VehicleName:        "Honda Wave",
		VehiclePlate:       "29-" + id,
		VerificationStatus: domain.VerificationApproved,
		IsOnline:           true,
		IsAvailable:        true,
		Location:           domain.Location{Latitude: lat, Longitude: lng},
		LocatedAt:          time.Now(),
		CreatedAt:          time.Now(),
	}
}

// PendingRide returns a pending ride for the given customer and class.
func PendingRide(id, customerID string, class domain.ServiceClass) *domain.RideRequest {
	return &domain.RideRequest{
		ID:           id,
		CustomerID:   customerID,
		Pickup:       domain.Location{Latitude: 21.0285, Longitude: 105.8542, Address: "Hoan Kiem"},
		Dropoff:      domain.Location{Latitude: 21.0378, Longitude: 105.8342, Address: "Ba Dinh"},
		ServiceClass: class,
		Status:       domain.RideStatusPending,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}
