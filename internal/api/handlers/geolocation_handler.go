package handlers

import (
	"net/http"
	"strconv"

	"github.com/medzoshop/medzo-backend/internal/domain/providers"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

// GeolocationHandler exposes address resolution as a pass-through to the
// configured geolocation provider
type GeolocationHandler struct {
	geocoder providers.GeolocationProvider
}

// NewGeolocationHandler creates a new geolocation handler
func NewGeolocationHandler(geocoder providers.GeolocationProvider) *GeolocationHandler {
	return &GeolocationHandler{
		geocoder: geocoder,
	}
}

// Geocode handles GET /api/geocode?address=...
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		respondWithError(w, http.StatusBadRequest, "address is required")
		return
	}

	coords, err := h.geocoder.Geocode(r.Context(), address)
	if err != nil {
		respondWithServiceError(w, r, apperrors.NewExternalError("failed to geocode address", err))
		return
	}

	respondWithJSON(w, http.StatusOK, coords)
}

// ReverseGeocode handles GET /api/reverse-geocode?lat=...&lng=...
func (h *GeolocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		respondWithError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}

	address, err := h.geocoder.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		respondWithServiceError(w, r, apperrors.NewExternalError("failed to reverse geocode", err))
		return
	}

	respondWithJSON(w, http.StatusOK, address)
}
