package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/medzoshop/medzo-backend/internal/application/services"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
)

// SaleHandler handles sale and order HTTP requests
type SaleHandler struct {
	sales *services.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(sales *services.SaleService) *SaleHandler {
	return &SaleHandler{
		sales: sales,
	}
}

// CommitSale handles POST /api/sales
func (h *SaleHandler) CommitSale(w http.ResponseWriter, r *http.Request) {
	var order entities.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	committed, err := h.sales.CommitSale(r.Context(), &order)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, committed)
}

// GetOrder handles GET /api/sales/{id}
func (h *SaleHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "order ID is required")
		return
	}

	order, err := h.sales.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /api/sales/{id}/status
func (h *SaleHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "order ID is required")
		return
	}

	var body struct {
		Status entities.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sales.UpdateStatus(r.Context(), id, body.Status); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"id":     id,
		"status": string(body.Status),
	})
}

// ListPharmacyOrders handles GET /api/pharmacies/{id}/orders
func (h *SaleHandler) ListPharmacyOrders(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "pharmacy ID is required")
		return
	}

	filter := repositories.OrderFilter{
		Status: entities.OrderStatus(r.URL.Query().Get("status")),
		Limit:  30,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = &from
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = &to
		}
	}

	orders, err := h.sales.ListByPharmacy(r.Context(), id, filter)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}
