package services

import (
	"context"
	"sort"

	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/geo"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

// AvailabilityService answers "who near me has this medicine in stock"
type AvailabilityService struct {
	listings repositories.ListingRepository
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(listings repositories.ListingRepository) *AvailabilityService {
	return &AvailabilityService{
		listings: listings,
	}
}

// GetMedicineAvailability returns per-pharmacy stock records for a medicine
// name (case-insensitive exact match), restricted to positive-quantity
// listings within radiusKm of the searcher. Sort keys: nearest (distance
// ascending, the default), cheapest (price ascending), rating (descending).
// Ties keep input order.
func (s *AvailabilityService) GetMedicineAvailability(ctx context.Context, name string, location *entities.Location, radiusKm float64, sortKey entities.AvailabilitySortKey) ([]*entities.AvailabilityRecord, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("medicine name is required")
	}
	if location == nil {
		return nil, apperrors.NewLocationRequiredError("searcher coordinates are required for availability queries")
	}
	if sortKey == "" {
		sortKey = entities.SortByNearest
	}
	if !entities.ValidSortKey(sortKey) {
		return nil, apperrors.NewValidationError("unknown sort key: " + string(sortKey))
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	listings, err := s.listings.FindByMedicineName(ctx, name)
	if err != nil {
		return nil, err
	}

	records := []*entities.AvailabilityRecord{}
	for _, listing := range listings {
		// A pharmacy that never pinned its location cannot be ranked by distance
		if listing.PharmacyLocation == nil {
			continue
		}

		distance := geo.Distance(
			location.Latitude, location.Longitude,
			listing.PharmacyLocation.Latitude, listing.PharmacyLocation.Longitude,
		)
		if distance > radiusKm {
			continue
		}

		records = append(records, &entities.AvailabilityRecord{
			PharmacyID:   listing.PharmacyID,
			PharmacyName: listing.PharmacyName,
			DistanceKm:   distance,
			Rating:       listing.PharmacyRating,
			ReviewCount:  listing.PharmacyReviewCount,
			Verification: listing.PharmacyVerification,
			ListingID:    listing.ID,
			MedicineName: listing.MedicineName,
			UnitPrice:    listing.UnitPrice,
			Quantity:     listing.Quantity,
			StockStatus:  entities.StockStatusForQuantity(listing.Quantity),
		})
	}

	sortAvailability(records, sortKey)
	return records, nil
}

func sortAvailability(records []*entities.AvailabilityRecord, key entities.AvailabilitySortKey) {
	switch key {
	case entities.SortByCheapest:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].UnitPrice < records[j].UnitPrice
		})
	case entities.SortByRating:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Rating > records[j].Rating
		})
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].DistanceKm < records[j].DistanceKm
		})
	}
}
