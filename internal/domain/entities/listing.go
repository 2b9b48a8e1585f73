package entities

import (
	"time"
)

// StockStatus classifies a listing's quantity on hand
type StockStatus string

const (
	StockStatusInStock  StockStatus = "In Stock"
	StockStatusLowStock StockStatus = "Low Stock"
)

// lowStockThreshold is the inclusive upper bound for the Low Stock band.
const lowStockThreshold = 10

// StockStatusForQuantity derives the stock status band for a positive quantity.
// Listings with quantity 0 are never surfaced, so no status exists for them.
func StockStatusForQuantity(quantity int) StockStatus {
	if quantity > lowStockThreshold {
		return StockStatusInStock
	}
	return StockStatusLowStock
}

// Listing is a single pharmacy's stock record for one medicine
type Listing struct {
	ID           string    `json:"id" db:"id"`
	PharmacyID   string    `json:"pharmacy_id" db:"pharmacy_id"`
	MedicineName string    `json:"medicine_name" db:"medicine_name"`
	Brand        string    `json:"brand,omitempty" db:"brand"`
	Category     string    `json:"category,omitempty" db:"category"`
	UnitPrice    float64   `json:"unit_price" db:"unit_price"`
	Quantity     int       `json:"quantity" db:"quantity"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// StockedListing is a listing joined with its pharmacy's identity and coordinates,
// as returned by geo-scoped availability queries.
type StockedListing struct {
	Listing
	PharmacyName         string             `json:"pharmacy_name"`
	PharmacyLocation     *Location          `json:"pharmacy_location,omitempty"`
	PharmacyRating       float64            `json:"pharmacy_rating"`
	PharmacyReviewCount  int                `json:"pharmacy_review_count"`
	PharmacyVerification VerificationStatus `json:"pharmacy_verification"`
}

// CatalogEntry is one deduplicated medicine across all in-range pharmacies
type CatalogEntry struct {
	MedicineName    string  `json:"medicine_name"`
	Brand           string  `json:"brand,omitempty"`
	Category        string  `json:"category,omitempty"`
	Price           float64 `json:"price"`
	AvailableStores int     `json:"available_stores"`
}
