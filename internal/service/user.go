package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/geo"
	"github.com/Manh-Duc-NT/GoRide/internal/repository"
)

// UserService manages customer and driver registration.
type UserService struct {
	customerRepo repository.CustomerRepository
	driverRepo   repository.DriverRepository
}

// NewUserService creates a new UserService.
func NewUserService(customerRepo repository.CustomerRepository, driverRepo repository.DriverRepository) *UserService {
	return &UserService{customerRepo: customerRepo, driverRepo: driverRepo}
}

// RegisterCustomer creates a customer account. Phone numbers are
// unique; a duplicate registration returns the existing account's
// rejection rather than a second record.
func (s *UserService) RegisterCustomer(ctx context.Context, name, phone string) (*domain.Customer, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if phone == "" {
		return nil, ErrInvalidPhone
	}

	existing, err := s.customerRepo.GetByPhone(ctx, phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneAlreadyRegistered
	}

	customer := &domain.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Now(),
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (s *UserService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return s.customerRepo.GetByID(ctx, customerID)
}

// RegisterDriverInput carries a driver registration.
type RegisterDriverInput struct {
	Name         string
	Phone        string
	VehicleClass domain.ServiceClass
	VehicleName  string
	VehiclePlate string
}

// RegisterDriver creates a driver account with verification pending.
// The driver cannot go online until an operator approves them.
func (s *UserService) RegisterDriver(ctx context.Context, in RegisterDriverInput) (*domain.Driver, error) {
	if in.Name == "" {
		return nil, ErrInvalidName
	}
	if in.Phone == "" {
		return nil, ErrInvalidPhone
	}
	if _, ok := geo.FareFor(in.VehicleClass); !ok {
		return nil, ErrInvalidServiceClass
	}

	existing, err := s.driverRepo.GetByPhone(ctx, in.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneAlreadyRegistered
	}

	driver := &domain.Driver{
		ID:                 uuid.New().String(),
		Name:               in.Name,
		Phone:              in.Phone,
		VehicleClass:       in.VehicleClass,
		VehicleName:        in.VehicleName,
		VehiclePlate:       in.VehiclePlate,
		VerificationStatus: domain.VerificationPending,
		CreatedAt:          time.Now(),
	}
	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}
