package routes

import (
	"net/http"

	"github.com/medzoshop/medzo-backend/internal/api/handlers"
	"github.com/medzoshop/medzo-backend/internal/api/middleware"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	pharmacyHandler     *handlers.PharmacyHandler
	medicineHandler     *handlers.MedicineHandler
	prescriptionHandler *handlers.PrescriptionHandler
	saleHandler         *handlers.SaleHandler
	reviewHandler       *handlers.ReviewHandler
	geolocationHandler  *handlers.GeolocationHandler
	sseHandler          *handlers.SSEHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	pharmacyHandler *handlers.PharmacyHandler,
	medicineHandler *handlers.MedicineHandler,
	prescriptionHandler *handlers.PrescriptionHandler,
	saleHandler *handlers.SaleHandler,
	reviewHandler *handlers.ReviewHandler,
	geolocationHandler *handlers.GeolocationHandler,
	sseHandler *handlers.SSEHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		pharmacyHandler:     pharmacyHandler,
		medicineHandler:     medicineHandler,
		prescriptionHandler: prescriptionHandler,
		saleHandler:         saleHandler,
		reviewHandler:       reviewHandler,
		geolocationHandler:  geolocationHandler,
		sseHandler:          sseHandler,
		metrics:             metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Pharmacy endpoints
	r.mux.HandleFunc("POST /api/pharmacies", r.pharmacyHandler.RegisterPharmacy)
	r.mux.HandleFunc("GET /api/pharmacies", r.pharmacyHandler.ListPharmacies)
	r.mux.HandleFunc("GET /api/pharmacies/nearby", r.pharmacyHandler.GetNearbyPharmacies)
	r.mux.HandleFunc("GET /api/pharmacies/{id}", r.pharmacyHandler.GetPharmacy)
	r.mux.HandleFunc("PATCH /api/pharmacies/{id}/verification", r.pharmacyHandler.UpdateVerification)
	r.mux.HandleFunc("PUT /api/pharmacies/{id}/location", r.pharmacyHandler.UpdateLocation)
	r.mux.HandleFunc("GET /api/pharmacies/{id}/reviews", r.pharmacyHandler.ListReviews)
	r.mux.HandleFunc("GET /api/pharmacies/{id}/listings", r.medicineHandler.ListPharmacyListings)
	r.mux.HandleFunc("GET /api/pharmacies/{id}/orders", r.saleHandler.ListPharmacyOrders)

	// Medicine endpoints
	r.mux.HandleFunc("GET /api/medicines/availability", r.medicineHandler.GetAvailability)
	r.mux.HandleFunc("GET /api/medicines/catalog", r.medicineHandler.GetCatalog)
	r.mux.HandleFunc("GET /api/medicines/suggest", r.medicineHandler.Suggest)
	r.mux.HandleFunc("POST /api/listings", r.medicineHandler.CreateListing)

	// Prescription endpoints
	r.mux.HandleFunc("POST /api/prescriptions/match", r.prescriptionHandler.MatchPrescription)

	// Sale endpoints
	r.mux.HandleFunc("POST /api/sales", r.saleHandler.CommitSale)
	r.mux.HandleFunc("GET /api/sales/{id}", r.saleHandler.GetOrder)
	r.mux.HandleFunc("PATCH /api/sales/{id}/status", r.saleHandler.UpdateOrderStatus)

	// Review endpoints
	r.mux.HandleFunc("POST /api/reviews", r.reviewHandler.SubmitReview)

	// Geolocation endpoints
	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)
	r.mux.HandleFunc("GET /api/reverse-geocode", r.geolocationHandler.ReverseGeocode)

	// Event stream endpoints
	r.mux.HandleFunc("GET /api/stream/pharmacies", r.sseHandler.StreamAllUpdates)
	r.mux.HandleFunc("GET /api/stream/pharmacies/{id}", r.sseHandler.StreamPharmacyUpdates)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also carry CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
