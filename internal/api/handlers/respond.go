package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/observability"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithServiceError maps application error types onto HTTP statuses.
// Internal details are never leaked to the client.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeLocationRequired:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeConflict, apperrors.ErrorTypeInsufficientStock, apperrors.ErrorTypeDuplicateReview:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeExternal:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("upstream failure")
		respondWithError(w, http.StatusBadGateway, "upstream service failure")
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseLocation reads lat/lng query parameters. Both absent yields nil (the
// services decide whether location is required); a half-specified or
// malformed pair is a client error.
func parseLocation(r *http.Request) (*entities.Location, error) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")

	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, apperrors.NewValidationError("lat and lng must be provided together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid lat")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid lng")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}

	return &entities.Location{Latitude: lat, Longitude: lng}, nil
}

// parseRadius reads the radius_km query parameter; zero means "use the default"
func parseRadius(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("radius_km")
	if raw == "" {
		return 0, nil
	}
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil || radius <= 0 {
		return 0, apperrors.NewValidationError("radius_km must be a positive number")
	}
	return radius, nil
}
