package service

import (
	"context"

	"googlemaps.github.io/maps"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
)

// AddressUnavailable is the placeholder used when geocoding fails.
// The geocoder is a rate-limited external dependency and must never be
// able to break the ride flow.
const AddressUnavailable = "address unavailable"

// PlaceSuggestion is one autocomplete result.
type PlaceSuggestion struct {
	Description string
	PlaceID     string
}

// Geocoder translates between addresses and coordinates.
type Geocoder interface {
	Autocomplete(ctx context.Context, query string) ([]PlaceSuggestion, error)
	PlaceDetail(ctx context.Context, placeID string) (domain.Location, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// GeocodingService implements Geocoder on top of the Google Maps API.
type GeocodingService struct {
	client *maps.Client
}

// NewGeocodingService creates a new GeocodingService.
func NewGeocodingService(apiKey string) (*GeocodingService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeocodingService{client: client}, nil
}

var _ Geocoder = (*GeocodingService)(nil)

// Autocomplete returns place suggestions for a partial query.
func (s *GeocodingService) Autocomplete(ctx context.Context, query string) ([]PlaceSuggestion, error) {
	resp, err := s.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input: query,
	})
	if err != nil {
		return nil, ErrUpstreamUnavailable
	}

	suggestions := make([]PlaceSuggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		suggestions = append(suggestions, PlaceSuggestion{
			Description: p.Description,
			PlaceID:     p.PlaceID,
		})
	}
	return suggestions, nil
}

// PlaceDetail resolves a place ID to coordinates and an address.
func (s *GeocodingService) PlaceDetail(ctx context.Context, placeID string) (domain.Location, error) {
	resp, err := s.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
	})
	if err != nil {
		return domain.Location{}, ErrUpstreamUnavailable
	}

	return domain.Location{
		Latitude:  resp.Geometry.Location.Lat,
		Longitude: resp.Geometry.Location.Lng,
		Address:   resp.FormattedAddress,
	}, nil
}

// ReverseGeocode resolves coordinates to a human-readable address.
func (s *GeocodingService) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	results, err := s.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	if err != nil {
		return "", ErrUpstreamUnavailable
	}
	if len(results) == 0 {
		return AddressUnavailable, nil
	}
	return results[0].FormattedAddress, nil
}
