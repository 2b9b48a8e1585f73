package repositories

import (
	"context"

	"github.com/medzoshop/medzo-backend/internal/domain/entities"
)

// PharmacyRepository defines the interface for pharmacy data operations
type PharmacyRepository interface {
	// Create creates a new pharmacy
	Create(ctx context.Context, pharmacy *entities.Pharmacy) error

	// GetByID retrieves a pharmacy by ID
	GetByID(ctx context.Context, id string) (*entities.Pharmacy, error)

	// List retrieves active pharmacies with filters
	List(ctx context.Context, filter PharmacyFilter) ([]*entities.Pharmacy, error)

	// UpdateVerification transitions a pharmacy's verification state
	UpdateVerification(ctx context.Context, id string, status entities.VerificationStatus) error

	// UpdateLocation sets a pharmacy's coordinates
	UpdateLocation(ctx context.Context, id string, location entities.Location) error
}

// PharmacyFilter defines filters for listing pharmacies
type PharmacyFilter struct {
	Verification entities.VerificationStatus
	// WithLocation restricts results to pharmacies whose coordinates are set.
	WithLocation bool
	Limit        int
	Offset       int
}
