package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

// UserHandler handles HTTP requests for customer and driver accounts.
type UserHandler struct {
	userService *service.UserService
	rideService *service.RideService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, rideService *service.RideService) *UserHandler {
	return &UserHandler{
		userService: userService,
		rideService: rideService,
	}
}

// RegisterCustomerRequest is the HTTP request body for customer registration.
type RegisterCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	VehicleClass string `json:"vehicle_class"`
	VehicleName  string `json:"vehicle_name,omitempty"`
	VehiclePlate string `json:"vehicle_plate,omitempty"`
}

// CustomerResponse is the HTTP representation of a customer.
type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RegisterCustomer handles POST /v1/customers
func (h *UserHandler) RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	customer, err := h.userService.RegisterCustomer(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, CustomerResponse{
		ID:    customer.ID,
		Name:  customer.Name,
		Phone: customer.Phone,
	})
}

// GetCustomer handles GET /v1/customers/:id
func (h *UserHandler) GetCustomer(c *gin.Context) {
	customer, err := h.userService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, CustomerResponse{
		ID:    customer.ID,
		Name:  customer.Name,
		Phone: customer.Phone,
	})
}

// CustomerRides handles GET /v1/customers/:id/rides
func (h *UserHandler) CustomerRides(c *gin.Context) {
	rides, err := h.rideService.ListCustomerRides(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// OpenRide handles GET /v1/customers/:id/rides/open
func (h *UserHandler) OpenRide(c *gin.Context) {
	ride, err := h.rideService.GetOpenRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if ride == nil {
		c.Status(http.StatusNoContent)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// RegisterDriver handles POST /v1/drivers
func (h *UserHandler) RegisterDriver(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.userService.RegisterDriver(c.Request.Context(), service.RegisterDriverInput{
		Name:         req.Name,
		Phone:        req.Phone,
		VehicleClass: domain.ServiceClass(req.VehicleClass),
		VehicleName:  req.VehicleName,
		VehiclePlate: req.VehiclePlate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}
