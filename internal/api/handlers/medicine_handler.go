package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/medzoshop/medzo-backend/internal/application/services"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
)

// MedicineHandler handles availability, catalog and suggestion requests
type MedicineHandler struct {
	availability *services.AvailabilityService
	catalog      *services.CatalogService
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(availability *services.AvailabilityService, catalog *services.CatalogService) *MedicineHandler {
	return &MedicineHandler{
		availability: availability,
		catalog:      catalog,
	}
}

// GetAvailability handles GET /api/medicines/availability
func (h *MedicineHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
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
	sortKey := entities.AvailabilitySortKey(r.URL.Query().Get("sort"))

	records, err := h.availability.GetMedicineAvailability(r.Context(), name, location, radius, sortKey)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"medicine":     name,
		"availability": records,
		"count":        len(records),
	})
}

// GetCatalog handles GET /api/medicines/catalog
func (h *MedicineHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
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

	entries, err := h.catalog.AggregateCatalog(r.Context(), location, radius)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"catalog": entries,
		"count":   len(entries),
	})
}

// Suggest handles GET /api/medicines/suggest
func (h *MedicineHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	suggestions, err := h.catalog.Suggest(r.Context(), query, limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// CreateListing handles POST /api/listings
func (h *MedicineHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var listing entities.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalog.CreateListing(r.Context(), &listing); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, listing)
}

// ListPharmacyListings handles GET /api/pharmacies/{id}/listings
func (h *MedicineHandler) ListPharmacyListings(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "pharmacy ID is required")
		return
	}

	listings, err := h.catalog.ListByPharmacy(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	})
}
