package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService   *service.RideService
	ratingService *service.RatingService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService, ratingService *service.RatingService) *RideHandler {
	return &RideHandler{
		rideService:   rideService,
		ratingService: ratingService,
	}
}

// CreateRideRequest is the HTTP request body for creating a ride.
type CreateRideRequest struct {
	CustomerID   string      `json:"customer_id"`
	Pickup       LocationDTO `json:"pickup"`
	Dropoff      LocationDTO `json:"dropoff"`
	ServiceClass string      `json:"service_class"`
}

// CancelRideRequest is the HTTP request body for cancelling a ride.
type CancelRideRequest struct {
	ActorID string `json:"actor_id"`
}

// RateRideRequest is the HTTP request body for rating a ride.
type RateRideRequest struct {
	CustomerID string `json:"customer_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), service.CreateRideInput{
		CustomerID: req.CustomerID,
		Pickup: domain.Location{
			Latitude:  req.Pickup.Lat,
			Longitude: req.Pickup.Lng,
			Address:   req.Pickup.Address,
		},
		Dropoff: domain.Location{
			Latitude:  req.Dropoff.Lat,
			Longitude: req.Dropoff.Lng,
			Address:   req.Dropoff.Address,
		},
		ServiceClass: domain.ServiceClass(req.ServiceClass),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// GetAll handles GET /v1/rides
func (h *RideHandler) GetAll(c *gin.Context) {
	rides, err := h.rideService.GetAllRides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	var req CancelRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.CancelRide(c.Request.Context(), c.Param("id"), req.ActorID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// RateRide handles POST /v1/rides/:id/rating
func (h *RideHandler) RateRide(c *gin.Context) {
	var req RateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.ratingService.RateRide(c.Request.Context(), c.Param("id"), req.CustomerID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponse(ride))
}
