package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/providers"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/geo"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

// DefaultRadiusKm is applied when a proximity query omits the radius.
const DefaultRadiusKm = 5.0

// PharmacyService handles pharmacy registration, verification and
// proximity ranking
type PharmacyService struct {
	repo     repositories.PharmacyRepository
	geocoder providers.GeolocationProvider
}

// NewPharmacyService creates a new pharmacy service
func NewPharmacyService(repo repositories.PharmacyRepository, geocoder providers.GeolocationProvider) *PharmacyService {
	return &PharmacyService{
		repo:     repo,
		geocoder: geocoder,
	}
}

// Register creates a new pharmacy. New shops start unverified and without
// coordinates; when a geocoder is configured the address is resolved so the
// shop shows up in proximity queries immediately.
func (s *PharmacyService) Register(ctx context.Context, pharmacy *entities.Pharmacy) error {
	if pharmacy.Name == "" {
		return apperrors.NewValidationError("pharmacy name is required")
	}

	if pharmacy.ID == "" {
		pharmacy.ID = uuid.New().String()
	}
	pharmacy.Verification = entities.VerificationStatusUnverified
	pharmacy.IsActive = true
	now := time.Now()
	pharmacy.CreatedAt = now
	pharmacy.UpdatedAt = now

	if pharmacy.Location == nil && s.geocoder != nil && pharmacy.Address.Street != "" {
		address := pharmacy.Address.Street + ", " + pharmacy.Address.City
		if coords, err := s.geocoder.Geocode(ctx, address); err == nil {
			pharmacy.Location = &entities.Location{
				Latitude:  coords.Latitude,
				Longitude: coords.Longitude,
			}
		}
	}

	return s.repo.Create(ctx, pharmacy)
}

// GetByID retrieves a pharmacy by ID
func (s *PharmacyService) GetByID(ctx context.Context, id string) (*entities.Pharmacy, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves pharmacies with filters
func (s *PharmacyService) List(ctx context.Context, filter repositories.PharmacyFilter) ([]*entities.Pharmacy, error) {
	return s.repo.List(ctx, filter)
}

// UpdateVerification transitions a pharmacy's verification state
func (s *PharmacyService) UpdateVerification(ctx context.Context, id string, status entities.VerificationStatus) error {
	switch status {
	case entities.VerificationStatusUnverified,
		entities.VerificationStatusPendingReview,
		entities.VerificationStatusVerified,
		entities.VerificationStatusRejected:
	default:
		return apperrors.NewValidationError("unknown verification status: " + string(status))
	}

	return s.repo.UpdateVerification(ctx, id, status)
}

// UpdateLocation sets a pharmacy's coordinates
func (s *PharmacyService) UpdateLocation(ctx context.Context, id string, location entities.Location) error {
	if location.Latitude < -90 || location.Latitude > 90 ||
		location.Longitude < -180 || location.Longitude > 180 {
		return apperrors.NewValidationError("coordinates out of range")
	}

	return s.repo.UpdateLocation(ctx, id, location)
}

// RankNearby returns pharmacies within radiusKm of the searcher, ascending by
// distance. A nil searcher location is rejected with LocationRequired;
// substituting a default coordinate would silently rank every pharmacy by its
// distance to the Gulf of Guinea.
func (s *PharmacyService) RankNearby(ctx context.Context, location *entities.Location, radiusKm float64) ([]*entities.NearbyPharmacy, error) {
	if location == nil {
		return nil, apperrors.NewLocationRequiredError("searcher coordinates are required for proximity ranking")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	pharmacies, err := s.repo.List(ctx, repositories.PharmacyFilter{WithLocation: true})
	if err != nil {
		return nil, err
	}

	nearby := []*entities.NearbyPharmacy{}
	for _, pharmacy := range pharmacies {
		if pharmacy.Location == nil {
			continue
		}

		distance := geo.Distance(
			location.Latitude, location.Longitude,
			pharmacy.Location.Latitude, pharmacy.Location.Longitude,
		)
		if distance > radiusKm {
			continue
		}

		nearby = append(nearby, &entities.NearbyPharmacy{
			PharmacyID:   pharmacy.ID,
			Name:         pharmacy.Name,
			Address:      pharmacy.Address,
			Location:     *pharmacy.Location,
			DistanceKm:   distance,
			Rating:       pharmacy.Rating,
			ReviewCount:  pharmacy.ReviewCount,
			Verification: pharmacy.Verification,
		})
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	return nearby, nil
}
