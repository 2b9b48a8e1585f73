package geolocation

import (
	"context"
	"fmt"
	"strings"

	"github.com/medzoshop/medzo-backend/internal/domain/providers"
)

// MockGeolocationProvider implements a mock geolocation provider for local
// development, where no Google Maps API key is configured
type MockGeolocationProvider struct{}

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() providers.GeolocationProvider {
	return &MockGeolocationProvider{}
}

var mockCityCoordinates = map[string]providers.Coordinates{
	"Delhi":     {Latitude: 28.6139, Longitude: 77.2090},
	"Mumbai":    {Latitude: 19.0760, Longitude: 72.8777},
	"Bangalore": {Latitude: 12.9716, Longitude: 77.5946},
	"Chennai":   {Latitude: 13.0827, Longitude: 80.2707},
	"Kolkata":   {Latitude: 22.5726, Longitude: 88.3639},
	"Hyderabad": {Latitude: 17.3850, Longitude: 78.4867},
	"Pune":      {Latitude: 18.5204, Longitude: 73.8567},
}

// Geocode converts an address to coordinates (mock implementation)
func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	for city, coords := range mockCityCoordinates {
		if strings.Contains(strings.ToLower(address), strings.ToLower(city)) {
			c := coords
			return &c, nil
		}
	}

	// Default to Delhi for unrecognized addresses
	c := mockCityCoordinates["Delhi"]
	return &c, nil
}

// ReverseGeocode converts coordinates to an address (mock implementation)
func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	return &providers.GeocodedAddress{
		FormattedAddress: fmt.Sprintf("%f, %f", lat, lon),
		Street:           "12 MG Road",
		City:             "Delhi",
		State:            "Delhi",
		ZipCode:          "110001",
		Country:          "India",
		Coordinates: providers.Coordinates{
			Latitude:  lat,
			Longitude: lon,
		},
	}, nil
}
