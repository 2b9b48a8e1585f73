package services

import (
	"context"
	"sort"
	"strings"

	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/geo"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

// PrescriptionService finds pharmacies able to fill an entire prescription
type PrescriptionService struct {
	listings repositories.ListingRepository
}

// NewPrescriptionService creates a new prescription service
func NewPrescriptionService(listings repositories.ListingRepository) *PrescriptionService {
	return &PrescriptionService{
		listings: listings,
	}
}

// MatchPrescription returns pharmacies within radiusKm that can fill every
// item of the prescription at the requested quantities, ascending by
// distance. Fulfillment is all-or-nothing: a pharmacy missing or short on a
// single item is excluded entirely. No qualifying pharmacy yields an empty
// result, not an error.
func (s *PrescriptionService) MatchPrescription(ctx context.Context, request entities.PrescriptionRequest, location *entities.Location, radiusKm float64) ([]*entities.PharmacyMatch, error) {
	if len(request.Items) == 0 {
		return nil, apperrors.NewValidationError("prescription must contain at least one item")
	}
	for _, item := range request.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, apperrors.NewValidationError("prescription item name is required")
		}
		if item.Quantity <= 0 {
			return nil, apperrors.NewValidationError("prescription item quantity must be positive")
		}
	}
	if location == nil {
		return nil, apperrors.NewLocationRequiredError("searcher coordinates are required for prescription matching")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	names := make([]string, len(request.Items))
	for i, item := range request.Items {
		names[i] = item.Name
	}

	listings, err := s.listings.FindByMedicineNames(ctx, names)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		name     string
		location *entities.Location
		rating   float64
		reviews  int
		// stock maps lowered medicine name to the pharmacy's listing
		stock map[string]*entities.StockedListing
	}

	candidates := map[string]*candidate{}
	order := []string{}

	for _, listing := range listings {
		if listing.PharmacyLocation == nil {
			continue
		}

		c, ok := candidates[listing.PharmacyID]
		if !ok {
			c = &candidate{
				name:     listing.PharmacyName,
				location: listing.PharmacyLocation,
				rating:   listing.PharmacyRating,
				reviews:  listing.PharmacyReviewCount,
				stock:    map[string]*entities.StockedListing{},
			}
			candidates[listing.PharmacyID] = c
			order = append(order, listing.PharmacyID)
		}

		key := strings.ToLower(listing.MedicineName)
		// Duplicate listings for the same medicine: keep the cheaper one
		if existing, dup := c.stock[key]; !dup || listing.UnitPrice < existing.UnitPrice {
			c.stock[key] = listing
		}
	}

	matches := []*entities.PharmacyMatch{}
	for _, pharmacyID := range order {
		c := candidates[pharmacyID]

		distance := geo.Distance(
			location.Latitude, location.Longitude,
			c.location.Latitude, c.location.Longitude,
		)
		if distance > radiusKm {
			continue
		}

		match := &entities.PharmacyMatch{
			PharmacyID:   pharmacyID,
			PharmacyName: c.name,
			DistanceKm:   distance,
			Rating:       c.rating,
			ReviewCount:  c.reviews,
			Items:        make([]entities.MatchedItem, 0, len(request.Items)),
		}

		qualified := true
		for _, item := range request.Items {
			listing, ok := c.stock[strings.ToLower(item.Name)]
			if !ok || listing.Quantity < item.Quantity {
				qualified = false
				break
			}

			lineTotal := listing.UnitPrice * float64(item.Quantity)
			match.Items = append(match.Items, entities.MatchedItem{
				Name:      listing.MedicineName,
				Quantity:  item.Quantity,
				UnitPrice: listing.UnitPrice,
				LineTotal: lineTotal,
			})
			match.TotalCost += lineTotal
		}

		if qualified {
			matches = append(matches, match)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	return matches, nil
}
