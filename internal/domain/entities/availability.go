package entities

// AvailabilitySortKey selects the ordering of availability results
type AvailabilitySortKey string

const (
	SortByNearest  AvailabilitySortKey = "nearest"
	SortByCheapest AvailabilitySortKey = "cheapest"
	SortByRating   AvailabilitySortKey = "rating"
)

// ValidSortKey reports whether key names a supported ordering.
func ValidSortKey(key AvailabilitySortKey) bool {
	switch key {
	case SortByNearest, SortByCheapest, SortByRating:
		return true
	}
	return false
}

// AvailabilityRecord is one pharmacy's stock answer for a medicine query
type AvailabilityRecord struct {
	PharmacyID   string             `json:"pharmacy_id"`
	PharmacyName string             `json:"pharmacy_name"`
	DistanceKm   float64            `json:"distance_km"`
	Rating       float64            `json:"rating"`
	ReviewCount  int                `json:"review_count"`
	Verification VerificationStatus `json:"verification"`
	ListingID    string             `json:"listing_id"`
	MedicineName string             `json:"medicine_name"`
	UnitPrice    float64            `json:"unit_price"`
	Quantity     int                `json:"quantity"`
	StockStatus  StockStatus        `json:"stock_status"`
}
