package entities

import (
	"time"
)

// VerificationStatus represents the document-verification state of a pharmacy
type VerificationStatus string

const (
	VerificationStatusUnverified    VerificationStatus = "unverified"
	VerificationStatusPendingReview VerificationStatus = "pending_review"
	VerificationStatusVerified      VerificationStatus = "verified"
	VerificationStatusRejected      VerificationStatus = "rejected"
)

// Pharmacy represents a registered pharmacy shop
type Pharmacy struct {
	ID           string             `json:"id" db:"id"`
	Name         string             `json:"name" db:"name"`
	Address      Address            `json:"address" db:"-"`
	Location     *Location          `json:"location,omitempty" db:"-"`
	PhoneNumber  string             `json:"phone_number" db:"phone_number"`
	Email        string             `json:"email" db:"email"`
	Verification VerificationStatus `json:"verification" db:"verification"`
	Rating       float64            `json:"rating" db:"rating"`
	ReviewCount  int                `json:"review_count" db:"review_count"`
	IsActive     bool               `json:"is_active" db:"is_active"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
}

// HasRating reports whether the aggregate rating is meaningful.
// A pharmacy with zero reviews carries no rating.
func (p *Pharmacy) HasRating() bool {
	return p.ReviewCount > 0
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code" db:"zip_code"`
	Country string `json:"country" db:"country"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// NearbyPharmacy is a pharmacy enriched with the distance from the searcher
type NearbyPharmacy struct {
	PharmacyID   string             `json:"pharmacy_id"`
	Name         string             `json:"name"`
	Address      Address            `json:"address"`
	Location     Location           `json:"location"`
	DistanceKm   float64            `json:"distance_km"`
	Rating       float64            `json:"rating"`
	ReviewCount  int                `json:"review_count"`
	Verification VerificationStatus `json:"verification"`
}
