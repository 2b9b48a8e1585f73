package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/medzoshop/medzo-backend/internal/application/services"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
)

// PharmacyHandler handles pharmacy-related HTTP requests
type PharmacyHandler struct {
	pharmacies *services.PharmacyService
	reviews    *services.ReviewService
}

// NewPharmacyHandler creates a new pharmacy handler
func NewPharmacyHandler(pharmacies *services.PharmacyService, reviews *services.ReviewService) *PharmacyHandler {
	return &PharmacyHandler{
		pharmacies: pharmacies,
		reviews:    reviews,
	}
}

// RegisterPharmacy handles POST /api/pharmacies
func (h *PharmacyHandler) RegisterPharmacy(w http.ResponseWriter, r *http.Request) {
	var pharmacy entities.Pharmacy
	if err := json.NewDecoder(r.Body).Decode(&pharmacy); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.pharmacies.Register(r.Context(), &pharmacy); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, pharmacy)
}

// GetPharmacy handles GET /api/pharmacies/{id}
func (h *PharmacyHandler) GetPharmacy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "pharmacy ID is required")
		return
	}

	pharmacy, err := h.pharmacies.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, pharmacy)
}

// ListPharmacies handles GET /api/pharmacies
func (h *PharmacyHandler) ListPharmacies(w http.ResponseWriter, r *http.Request) {
	filter := repositories.PharmacyFilter{
		Verification: entities.VerificationStatus(r.URL.Query().Get("verification")),
		Limit:        30,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	pharmacies, err := h.pharmacies.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pharmacies": pharmacies,
		"count":      len(pharmacies),
	})
}

// GetNearbyPharmacies handles GET /api/pharmacies/nearby
func (h *PharmacyHandler) GetNearbyPharmacies(w http.ResponseWriter, r *http.Request) {
	location, err := parseLocation(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	radius, err := parseRadius(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	nearby, err := h.pharmacies.RankNearby(r.Context(), location, radius)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pharmacies": nearby,
		"count":      len(nearby),
	})
}

// UpdateVerification handles PATCH /api/pharmacies/{id}/verification
func (h *PharmacyHandler) UpdateVerification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "pharmacy ID is required")
		return
	}

	var body struct {
		Verification entities.VerificationStatus `json:"verification"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.pharmacies.UpdateVerification(r.Context(), id, body.Verification); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"id":           id,
		"verification": string(body.Verification),
	})
}

// UpdateLocation handles PUT /api/pharmacies/{id}/location
func (h *PharmacyHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "pharmacy ID is required")
		return
	}

	var location entities.Location
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.pharmacies.UpdateLocation(r.Context(), id, location); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, location)
}

// ListReviews handles GET /api/pharmacies/{id}/reviews
func (h *PharmacyHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "pharmacy ID is required")
		return
	}

	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	reviews, err := h.reviews.ListByPharmacy(r.Context(), id, limit, offset)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
