package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/medzoshop/medzo-backend/internal/application/services"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
)

// PrescriptionHandler handles prescription matching requests
type PrescriptionHandler struct {
	prescriptions *services.PrescriptionService
}

// NewPrescriptionHandler creates a new prescription handler
func NewPrescriptionHandler(prescriptions *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptions: prescriptions,
	}
}

type matchPrescriptionRequest struct {
	Items    []entities.PrescriptionItem `json:"items"`
	Location *entities.Location          `json:"location"`
	RadiusKm float64                     `json:"radius_km"`
}

// MatchPrescription handles POST /api/prescriptions/match
func (h *PrescriptionHandler) MatchPrescription(w http.ResponseWriter, r *http.Request) {
	var body matchPrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	matches, err := h.prescriptions.MatchPrescription(
		r.Context(),
		entities.PrescriptionRequest{Items: body.Items},
		body.Location,
		body.RadiusKm,
	)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}
