package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

// TripHandler handles HTTP requests for ride lifecycle transitions.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// AcceptRideRequest is the HTTP request body for accepting a ride.
type AcceptRideRequest struct {
	DriverID string `json:"driver_id"`
}

// ConfirmPickupRequest is the HTTP request body for confirming pickup.
type ConfirmPickupRequest struct {
	DriverID string `json:"driver_id"`
}

// CompleteRideRequest is the HTTP request body for completing a ride.
type CompleteRideRequest struct {
	DriverID string  `json:"driver_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// UpdateRideLocationRequest is the HTTP request body for a driver
// position update on a ride.
type UpdateRideLocationRequest struct {
	DriverID string  `json:"driver_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// AcceptRide handles POST /v1/rides/:id/accept
func (h *TripHandler) AcceptRide(c *gin.Context) {
	var req AcceptRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.tripService.AcceptRide(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// ConfirmPickup handles POST /v1/rides/:id/pickup
func (h *TripHandler) ConfirmPickup(c *gin.Context) {
	var req ConfirmPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.tripService.ConfirmPickup(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CompleteRide handles POST /v1/rides/:id/complete
func (h *TripHandler) CompleteRide(c *gin.Context) {
	var req CompleteRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.tripService.CompleteRide(c.Request.Context(), c.Param("id"), req.DriverID, domain.Location{
		Latitude:  req.Lat,
		Longitude: req.Lng,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// UpdateLocation handles POST /v1/rides/:id/location
func (h *TripHandler) UpdateLocation(c *gin.Context) {
	var req UpdateRideLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.tripService.UpdateRideLocation(c.Request.Context(), c.Param("id"), req.DriverID, req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
