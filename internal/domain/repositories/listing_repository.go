package repositories

import (
	"context"

	"github.com/medzoshop/medzo-backend/internal/domain/entities"
)

// ListingRepository defines the interface for medicine stock records.
// All Find methods return only positive-quantity listings: a listing at
// quantity zero is invisible to availability queries by contract.
type ListingRepository interface {
	// Create creates a new listing
	Create(ctx context.Context, listing *entities.Listing) error

	// GetByID retrieves a listing by ID
	GetByID(ctx context.Context, id string) (*entities.Listing, error)

	// FindByMedicineName returns in-stock listings whose medicine name matches
	// (case-insensitive exact match), joined with pharmacy identity and coordinates
	FindByMedicineName(ctx context.Context, name string) ([]*entities.StockedListing, error)

	// FindByMedicineNames returns in-stock listings for any of the given names,
	// joined with pharmacy identity and coordinates
	FindByMedicineNames(ctx context.Context, names []string) ([]*entities.StockedListing, error)

	// ListByPharmacy returns a pharmacy's listings, including out-of-stock ones,
	// for inventory screens
	ListByPharmacy(ctx context.Context, pharmacyID string) ([]*entities.Listing, error)

	// ListInStock returns every positive-quantity listing joined with pharmacy
	// identity and coordinates, for catalog aggregation and search indexing
	ListInStock(ctx context.Context) ([]*entities.StockedListing, error)
}

// MedicineSearchRepository defines the interface for the medicine suggestion
// index (e.g. Typesense). Availability queries never consult it; exact-match
// stock answers always come from the relational store.
type MedicineSearchRepository interface {
	// Index upserts a listing's medicine into the suggestion index
	Index(ctx context.Context, listing *entities.Listing) error

	// Suggest returns medicine names matching a partial query
	Suggest(ctx context.Context, query string, limit int) ([]entities.CatalogEntry, error)

	// Delete removes a listing's document from the index
	Delete(ctx context.Context, listingID string) error
}
