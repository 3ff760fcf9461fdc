package tests

import (
	"context"
	"testing"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

func TestRegisterCustomer_CreatesAccount(t *testing.T) {
	customers := NewMockCustomerRepository()
	userService := service.NewUserService(customers, NewMockDriverRepository())

	customer, err := userService.RegisterCustomer(context.Background(), "Nguyen Van A", "0901234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.ID == "" {
		t.Error("expected a generated customer ID")
	}
	if customer.Name != "Nguyen Van A" || customer.Phone != "0901234567" {
		t.Errorf("unexpected customer: %+v", customer)
	}
}

func TestRegisterCustomer_RejectsDuplicatePhone(t *testing.T) {
	customers := NewMockCustomerRepository()
	userService := service.NewUserService(customers, NewMockDriverRepository())

	if _, err := userService.RegisterCustomer(context.Background(), "Nguyen Van A", "0901234567"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := userService.RegisterCustomer(context.Background(), "Tran Thi B", "0901234567")
	if err != service.ErrPhoneAlreadyRegistered {
		t.Errorf("expected ErrPhoneAlreadyRegistered, got %v", err)
	}
}

func TestRegisterCustomer_ValidatesInput(t *testing.T) {
	userService := service.NewUserService(NewMockCustomerRepository(), NewMockDriverRepository())

	if _, err := userService.RegisterCustomer(context.Background(), "", "0901"); err != service.ErrInvalidName {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
	if _, err := userService.RegisterCustomer(context.Background(), "A", ""); err != service.ErrInvalidPhone {
		t.Errorf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestRegisterDriver_StartsUnverified(t *testing.T) {
	drivers := NewMockDriverRepository()
	userService := service.NewUserService(NewMockCustomerRepository(), drivers)

	driver, err := userService.RegisterDriver(context.Background(), service.RegisterDriverInput{
		Name:         "Le Van C",
		Phone:        "0912345678",
		VehicleClass: domain.ServiceClassCar4,
		VehicleName:  "Toyota Vios",
		VehiclePlate: "30A-12345",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if driver.VerificationStatus != domain.VerificationPending {
		t.Errorf("expected pending verification, got %s", driver.VerificationStatus)
	}
	if driver.IsOnline || driver.IsAvailable {
		t.Error("new driver must start offline")
	}

	// And cannot go online until approved.
	driverService := newDriverService(drivers, NewMockRideRepository(), NewMockLocationStore())
	if err := driverService.GoOnline(context.Background(), driver.ID, 21.03, 105.85); err != service.ErrDriverNotEligible {
		t.Errorf("expected ErrDriverNotEligible before approval, got %v", err)
	}

	if err := driverService.SetVerification(context.Background(), driver.ID, domain.VerificationApproved); err != nil {
		t.Fatalf("approval failed: %v", err)
	}
	if err := driverService.GoOnline(context.Background(), driver.ID, 21.03, 105.85); err != nil {
		t.Errorf("expected online after approval, got %v", err)
	}
}

func TestRegisterDriver_ValidatesVehicleClass(t *testing.T) {
	userService := service.NewUserService(NewMockCustomerRepository(), NewMockDriverRepository())

	_, err := userService.RegisterDriver(context.Background(), service.RegisterDriverInput{
		Name:         "Le Van C",
		Phone:        "0912345678",
		VehicleClass: "tuk_tuk",
	})
	if err != service.ErrInvalidServiceClass {
		t.Errorf("expected ErrInvalidServiceClass, got %v", err)
	}
}
