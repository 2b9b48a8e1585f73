package entities

import (
	"time"
)

// Review is a single customer rating of a pharmacy, tied to a booking.
// A booking can be reviewed at most once.
type Review struct {
	ID         string    `json:"id" db:"id"`
	BookingID  string    `json:"booking_id" db:"booking_id"`
	PharmacyID string    `json:"pharmacy_id" db:"pharmacy_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// RatingSummary is a pharmacy's aggregate rating after an update
type RatingSummary struct {
	PharmacyID  string  `json:"pharmacy_id"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}
