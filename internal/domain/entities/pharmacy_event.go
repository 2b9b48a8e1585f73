package entities

import (
	"encoding/json"
	"time"
)

// PharmacyEventType identifies the kind of change an event describes
type PharmacyEventType string

const (
	// EventTypeStockChanged is published after a committed sale mutates stock
	EventTypeStockChanged PharmacyEventType = "stock.changed"

	// EventTypeRatingUpdated is published after an accepted review updates the aggregate
	EventTypeRatingUpdated PharmacyEventType = "rating.updated"
)

// PharmacyEvent is a change notification fanned out to storefront dashboards
type PharmacyEvent struct {
	ID         string            `json:"id"`
	Type       PharmacyEventType `json:"type"`
	PharmacyID string            `json:"pharmacy_id"`
	Payload    json.RawMessage   `json:"payload,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// StockChangedPayload describes listing quantities after a sale
type StockChangedPayload struct {
	OrderID   string         `json:"order_id"`
	Invoice   string         `json:"invoice"`
	Remaining map[string]int `json:"remaining"`
}

// RatingUpdatedPayload describes the aggregate after a review
type RatingUpdatedPayload struct {
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}
