package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

// DriverHandler handles HTTP requests for driver presence and matching.
type DriverHandler struct {
	driverService   *service.DriverService
	matchingService *service.MatchingService
	defaultRadiusKm float64
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService, matchingService *service.MatchingService, defaultRadiusKm float64) *DriverHandler {
	return &DriverHandler{
		driverService:   driverService,
		matchingService: matchingService,
		defaultRadiusKm: defaultRadiusKm,
	}
}

// GoOnlineRequest is the HTTP request body for going online.
type GoOnlineRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocationRequest is the HTTP request body for a location update.
type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SetVerificationRequest is the HTTP request body for a verification update.
type SetVerificationRequest struct {
	Status string `json:"status"`
}

// SetBlockedRequest is the HTTP request body for blocking a driver.
type SetBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

// DriverResponse is the HTTP representation of a driver.
type DriverResponse struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Phone         string       `json:"phone"`
	VehicleClass  string       `json:"vehicle_class"`
	VehicleName   string       `json:"vehicle_name,omitempty"`
	VehiclePlate  string       `json:"vehicle_plate,omitempty"`
	Verification  string       `json:"verification"`
	IsBlocked     bool         `json:"is_blocked"`
	IsOnline      bool         `json:"is_online"`
	IsAvailable   bool         `json:"is_available"`
	Location      *LocationDTO `json:"location,omitempty"`
	CurrentRideID string       `json:"current_ride_id,omitempty"`
	TotalRides    int64        `json:"total_rides"`
	TotalEarnings int64        `json:"total_earnings"`
}

// CandidateResponse is one entry in the candidate ride feed.
type CandidateResponse struct {
	Ride       RideResponse `json:"ride"`
	DistanceKm float64      `json:"distance_km"`
	EtaMin     int          `json:"eta_min"`
	PriceHint  int64        `json:"price_hint"`
}

// NearbyDriverResponse is one entry in the nearby drivers list.
type NearbyDriverResponse struct {
	DriverID string  `json:"driver_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

func toDriverResponse(d *domain.Driver) DriverResponse {
	resp := DriverResponse{
		ID:            d.ID,
		Name:          d.Name,
		Phone:         d.Phone,
		VehicleClass:  string(d.VehicleClass),
		VehicleName:   d.VehicleName,
		VehiclePlate:  d.VehiclePlate,
		Verification:  string(d.VerificationStatus),
		IsBlocked:     d.IsBlocked,
		IsOnline:      d.IsOnline,
		IsAvailable:   d.IsAvailable,
		CurrentRideID: d.CurrentRideID,
		TotalRides:    d.TotalRides,
		TotalEarnings: d.TotalEarnings,
	}
	if !d.LocatedAt.IsZero() {
		resp.Location = &LocationDTO{
			Lat:     d.Location.Latitude,
			Lng:     d.Location.Longitude,
			Address: d.Location.Address,
		}
	}
	return resp
}

// GetDriver handles GET /v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.driverService.GetDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// GoOnline handles POST /v1/drivers/:id/online
func (h *DriverHandler) GoOnline(c *gin.Context) {
	var req GoOnlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.GoOnline(c.Request.Context(), c.Param("id"), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GoOffline handles POST /v1/drivers/:id/offline
func (h *DriverHandler) GoOffline(c *gin.Context) {
	if err := h.driverService.GoOffline(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateLocation handles POST /v1/drivers/:id/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.UpdateLocation(c.Request.Context(), c.Param("id"), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Candidates handles GET /v1/drivers/:id/candidates
func (h *DriverHandler) Candidates(c *gin.Context) {
	candidates, err := h.matchingService.Candidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]CandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		responses = append(responses, CandidateResponse{
			Ride:       toRideResponse(cand.Ride),
			DistanceKm: cand.DistanceKm,
			EtaMin:     cand.EtaMin,
			PriceHint:  cand.PriceHint,
		})
	}
	respondJSON(c, http.StatusOK, responses)
}

// Earnings handles GET /v1/drivers/:id/earnings
func (h *DriverHandler) Earnings(c *gin.Context) {
	summary, err := h.driverService.Earnings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{
		"today_earnings": summary.TodayEarnings,
		"today_rides":    summary.TodayRides,
		"week_earnings":  summary.WeekEarnings,
		"week_rides":     summary.WeekRides,
		"month_earnings": summary.MonthEarnings,
		"month_rides":    summary.MonthRides,
		"total_earnings": summary.TotalEarnings,
		"total_rides":    summary.TotalRides,
	})
}

// Nearby handles GET /v1/drivers/nearby?lat=&lng=&radius_km=
func (h *DriverHandler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lat"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lng"})
		return
	}

	radiusKm := h.defaultRadiusKm
	if raw := c.Query("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid radius_km"})
			return
		}
	}

	locations, err := h.driverService.NearbyDrivers(c.Request.Context(), lat, lng, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]NearbyDriverResponse, 0, len(locations))
	for _, loc := range locations {
		responses = append(responses, NearbyDriverResponse{
			DriverID: loc.DriverID,
			Lat:      loc.Lat,
			Lng:      loc.Lng,
		})
	}
	respondJSON(c, http.StatusOK, responses)
}

// SetVerification handles PUT /v1/drivers/:id/verification
func (h *DriverHandler) SetVerification(c *gin.Context) {
	var req SetVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.SetVerification(c.Request.Context(), c.Param("id"), domain.VerificationStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetBlocked handles PUT /v1/drivers/:id/blocked
func (h *DriverHandler) SetBlocked(c *gin.Context) {
	var req SetBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.SetBlocked(c.Request.Context(), c.Param("id"), req.Blocked); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
