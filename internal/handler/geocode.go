package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

// GeocodeHandler handles HTTP requests for place search and address
// resolution.
type GeocodeHandler struct {
	geocoder service.Geocoder
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(geocoder service.Geocoder) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

// SuggestionResponse is one autocomplete result.
type SuggestionResponse struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

// Autocomplete handles GET /v1/places/autocomplete?q=
func (h *GeocodeHandler) Autocomplete(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing query"})
		return
	}
	if h.geocoder == nil {
		respondError(c, service.ErrUpstreamUnavailable)
		return
	}

	suggestions, err := h.geocoder.Autocomplete(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		responses = append(responses, SuggestionResponse{
			Description: s.Description,
			PlaceID:     s.PlaceID,
		})
	}
	respondJSON(c, http.StatusOK, responses)
}

// PlaceDetail handles GET /v1/places/:place_id
func (h *GeocodeHandler) PlaceDetail(c *gin.Context) {
	if h.geocoder == nil {
		respondError(c, service.ErrUpstreamUnavailable)
		return
	}

	loc, err := h.geocoder.PlaceDetail(c.Request.Context(), c.Param("place_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, LocationDTO{
		Lat:     loc.Latitude,
		Lng:     loc.Longitude,
		Address: loc.Address,
	})
}

// ReverseGeocode handles GET /v1/places/reverse?lat=&lng=
func (h *GeocodeHandler) ReverseGeocode(c *gin.Context) {
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
	if h.geocoder == nil {
		respondError(c, service.ErrUpstreamUnavailable)
		return
	}

	address, err := h.geocoder.ReverseGeocode(c.Request.Context(), lat, lng)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"address": address})
}
