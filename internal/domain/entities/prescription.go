package entities

// PrescriptionItem is one requested medicine with its quantity
type PrescriptionItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PrescriptionRequest is the ordered set of items a customer needs filled
type PrescriptionRequest struct {
	Items []PrescriptionItem `json:"items"`
}

// MatchedItem is one prescription item priced at a specific pharmacy
type MatchedItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// PharmacyMatch is a pharmacy able to fill an entire prescription.
// Fulfillment is all-or-nothing: a pharmacy short on any item never appears.
type PharmacyMatch struct {
	PharmacyID   string        `json:"pharmacy_id"`
	PharmacyName string        `json:"pharmacy_name"`
	DistanceKm   float64       `json:"distance_km"`
	Rating       float64       `json:"rating"`
	ReviewCount  int           `json:"review_count"`
	TotalCost    float64       `json:"total_cost"`
	Items        []MatchedItem `json:"items"`
}
