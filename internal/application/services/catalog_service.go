package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/geo"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/observability"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

// CatalogService owns the deduplicated medicine catalog and the listings
// behind it
type CatalogService struct {
	listings repositories.ListingRepository
	search   repositories.MedicineSearchRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(listings repositories.ListingRepository, search repositories.MedicineSearchRepository) *CatalogService {
	return &CatalogService{
		listings: listings,
		search:   search,
	}
}

// CreateListing records a pharmacy's stock of a medicine and indexes it for
// suggestions. Index failures are logged, not surfaced; the suggestion index
// catches up on the next indexer run.
func (s *CatalogService) CreateListing(ctx context.Context, listing *entities.Listing) error {
	if listing.PharmacyID == "" {
		return apperrors.NewValidationError("pharmacy id is required")
	}
	if listing.MedicineName == "" {
		return apperrors.NewValidationError("medicine name is required")
	}
	if listing.UnitPrice < 0 {
		return apperrors.NewValidationError("unit price cannot be negative")
	}
	if listing.Quantity < 0 {
		return apperrors.NewValidationError("quantity cannot be negative")
	}

	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if err := s.listings.Create(ctx, listing); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.Index(ctx, listing); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("listing_id", listing.ID).
				Msg("failed to index listing for suggestions")
		}
	}

	return nil
}

// ListByPharmacy returns a pharmacy's full inventory, out-of-stock included
func (s *CatalogService) ListByPharmacy(ctx context.Context, pharmacyID string) ([]*entities.Listing, error) {
	return s.listings.ListByPharmacy(ctx, pharmacyID)
}

// AggregateCatalog returns one entry per distinct medicine stocked within
// radiusKm of the searcher
func (s *CatalogService) AggregateCatalog(ctx context.Context, location *entities.Location, radiusKm float64) ([]entities.CatalogEntry, error) {
	if location == nil {
		return nil, apperrors.NewLocationRequiredError("searcher coordinates are required for catalog queries")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	listings, err := s.listings.ListInStock(ctx)
	if err != nil {
		return nil, err
	}

	inRange := []*entities.StockedListing{}
	for _, listing := range listings {
		if listing.PharmacyLocation == nil {
			continue
		}
		if !geo.WithinRadius(
			location.Latitude, location.Longitude,
			listing.PharmacyLocation.Latitude, listing.PharmacyLocation.Longitude,
			radiusKm,
		) {
			continue
		}
		inRange = append(inRange, listing)
	}

	return AggregateEntries(inRange), nil
}

// Suggest returns medicine names matching a partial query from the
// suggestion index
func (s *CatalogService) Suggest(ctx context.Context, query string, limit int) ([]entities.CatalogEntry, error) {
	if query == "" {
		return nil, apperrors.NewValidationError("query is required")
	}
	if s.search == nil {
		return []entities.CatalogEntry{}, nil
	}
	return s.search.Suggest(ctx, query, limit)
}

// AggregateEntries deduplicates listings by stored medicine name. The
// representative listing is the first-encountered minimum-price one;
// availableStores counts distinct pharmacies across the whole group, not
// just those at the representative's price.
func AggregateEntries(listings []*entities.StockedListing) []entities.CatalogEntry {
	type group struct {
		representative *entities.StockedListing
		pharmacies     map[string]struct{}
	}

	groups := map[string]*group{}
	order := []string{}

	for _, listing := range listings {
		g, ok := groups[listing.MedicineName]
		if !ok {
			g = &group{
				representative: listing,
				pharmacies:     map[string]struct{}{},
			}
			groups[listing.MedicineName] = g
			order = append(order, listing.MedicineName)
		}

		if listing.UnitPrice < g.representative.UnitPrice {
			g.representative = listing
		}
		g.pharmacies[listing.PharmacyID] = struct{}{}
	}

	entries := make([]entities.CatalogEntry, 0, len(order))
	for _, name := range order {
		g := groups[name]
		entries = append(entries, entities.CatalogEntry{
			MedicineName:    name,
			Brand:           g.representative.Brand,
			Category:        g.representative.Category,
			Price:           g.representative.UnitPrice,
			AvailableStores: len(g.pharmacies),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MedicineName < entries[j].MedicineName
	})

	return entries
}
