package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/repository"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDropoffLocation),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidServiceClass),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidVerificationStatus):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrCustomerHasOpenRide),
		errors.Is(err, service.ErrDriverHasActiveRide),
		errors.Is(err, service.ErrRideAlreadyTaken),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrRideAlreadyRated),
		errors.Is(err, service.ErrPhoneAlreadyRegistered):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrDriverNotEligible),
		errors.Is(err, service.ErrDriverNotAssigned),
		errors.Is(err, service.ErrNotRideCustomer):
		return http.StatusForbidden

	// Dependency failures
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// LocationDTO is a geographic point in request/response bodies.
type LocationDTO struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID           string      `json:"id"`
	CustomerID   string      `json:"customer_id"`
	DriverID     string      `json:"driver_id,omitempty"`
	Pickup       LocationDTO `json:"pickup"`
	Dropoff      LocationDTO `json:"dropoff"`
	ServiceClass string      `json:"service_class"`
	Status       string      `json:"status"`

	EstimatedDistanceKm  float64 `json:"estimated_distance_km"`
	EstimatedDurationMin int     `json:"estimated_duration_min"`
	EstimatedPrice       int64   `json:"estimated_price"`

	ActualDistanceKm  float64 `json:"actual_distance_km,omitempty"`
	ActualDurationSec int     `json:"actual_duration_sec,omitempty"`
	FinalPrice        int64   `json:"final_price,omitempty"`

	DriverName     string       `json:"driver_name,omitempty"`
	DriverPhone    string       `json:"driver_phone,omitempty"`
	VehicleClass   string       `json:"vehicle_class,omitempty"`
	VehicleName    string       `json:"vehicle_name,omitempty"`
	VehiclePlate   string       `json:"vehicle_plate,omitempty"`
	DriverLocation *LocationDTO `json:"driver_location,omitempty"`

	Rating  int    `json:"rating,omitempty"`
	Comment string `json:"comment,omitempty"`

	CreatedAt   string `json:"created_at"`
	AcceptedAt  string `json:"accepted_at,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	CancelledAt string `json:"cancelled_at,omitempty"`
	CancelledBy string `json:"cancelled_by,omitempty"`
}

func toRideResponse(ride *domain.RideRequest) RideResponse {
	resp := RideResponse{
		ID:         ride.ID,
		CustomerID: ride.CustomerID,
		DriverID:   ride.DriverID,
		Pickup: LocationDTO{
			Lat:     ride.Pickup.Latitude,
			Lng:     ride.Pickup.Longitude,
			Address: ride.Pickup.Address,
		},
		Dropoff: LocationDTO{
			Lat:     ride.Dropoff.Latitude,
			Lng:     ride.Dropoff.Longitude,
			Address: ride.Dropoff.Address,
		},
		ServiceClass:         string(ride.ServiceClass),
		Status:               string(ride.Status),
		EstimatedDistanceKm:  ride.EstimatedDistanceKm,
		EstimatedDurationMin: ride.EstimatedDurationMin,
		EstimatedPrice:       ride.EstimatedPrice,
		ActualDistanceKm:     ride.ActualDistanceKm,
		ActualDurationSec:    ride.ActualDurationSec,
		FinalPrice:           ride.FinalPrice,
		DriverName:           ride.DriverName,
		DriverPhone:          ride.DriverPhone,
		VehicleClass:         string(ride.Vehicle.Class),
		VehicleName:          ride.Vehicle.Name,
		VehiclePlate:         ride.Vehicle.Plate,
		Rating:               ride.Rating,
		Comment:              ride.Comment,
		CreatedAt:            ride.CreatedAt.Format(timeLayout),
		CancelledBy:          ride.CancelledBy,
	}

	if !ride.DriverLocation.UpdatedAt.IsZero() {
		resp.DriverLocation = &LocationDTO{
			Lat:     ride.DriverLocation.Latitude,
			Lng:     ride.DriverLocation.Longitude,
			Address: ride.DriverLocation.Address,
		}
	}
	resp.AcceptedAt = formatOptionalTime(ride.AcceptedAt)
	resp.StartTime = formatOptionalTime(ride.StartTime)
	resp.EndTime = formatOptionalTime(ride.EndTime)
	resp.CancelledAt = formatOptionalTime(ride.CancelledAt)
	return resp
}

func toRideResponses(rides []*domain.RideRequest) []RideResponse {
	responses := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		responses = append(responses, toRideResponse(r))
	}
	return responses
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
