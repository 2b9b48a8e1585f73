package services_test

import (
	"context"
	"testing"

	"github.com/medzoshop/medzo-backend/internal/application/services"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stocked(listingID, pharmacyID, name string, price float64, qty int, location *entities.Location, rating float64) *entities.StockedListing {
	return &entities.StockedListing{
		Listing: entities.Listing{
			ID:           listingID,
			PharmacyID:   pharmacyID,
			MedicineName: name,
			UnitPrice:    price,
			Quantity:     qty,
		},
		PharmacyName:     pharmacyID + " store",
		PharmacyLocation: location,
		PharmacyRating:   rating,
	}
}

func TestAvailabilityService_GetMedicineAvailability(t *testing.T) {
	searcher := loc(28.6315, 77.2167)
	nearA := loc(28.6330, 77.2180)
	nearB := loc(28.6400, 77.2250)

	t.Run("rejects missing searcher location", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewAvailabilityService(repo)

		result, err := service.GetMedicineAvailability(context.Background(), "Crocin", nil, 5, "")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeLocationRequired))
		assert.Nil(t, result)
		repo.AssertNotCalled(t, "FindByMedicineName")
	})

	t.Run("rejects empty medicine name", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewAvailabilityService(repo)

		_, err := service.GetMedicineAvailability(context.Background(), "", searcher, 5, "")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("rejects unknown sort key", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewAvailabilityService(repo)

		_, err := service.GetMedicineAvailability(context.Background(), "Crocin", searcher, 5, "priciest")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("derives stock status bands", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewAvailabilityService(repo)

		repo.On("FindByMedicineName", mock.Anything, "Crocin").Return([]*entities.StockedListing{
			stocked("l1", "p1", "Crocin", 30, 15, nearA, 4.0),
			stocked("l2", "p2", "Crocin", 25, 10, nearB, 4.5),
			stocked("l3", "p3", "Crocin", 28, 1, nearA, 3.0),
		}, nil)

		result, err := service.GetMedicineAvailability(context.Background(), "Crocin", searcher, 5, entities.SortByNearest)

		require.NoError(t, err)
		require.Len(t, result, 3)

		byListing := map[string]*entities.AvailabilityRecord{}
		for _, record := range result {
			byListing[record.ListingID] = record
		}
		assert.Equal(t, entities.StockStatusInStock, byListing["l1"].StockStatus)
		assert.Equal(t, entities.StockStatusLowStock, byListing["l2"].StockStatus)
		assert.Equal(t, entities.StockStatusLowStock, byListing["l3"].StockStatus)
	})

	t.Run("sorts by cheapest price ascending", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewAvailabilityService(repo)

		repo.On("FindByMedicineName", mock.Anything, "Crocin").Return([]*entities.StockedListing{
			stocked("l1", "p1", "Crocin", 30, 15, nearA, 4.0),
			stocked("l2", "p2", "Crocin", 25, 10, nearB, 4.5),
			stocked("l3", "p3", "Crocin", 28, 8, nearA, 3.0),
		}, nil)

		result, err := service.GetMedicineAvailability(context.Background(), "Crocin", searcher, 5, entities.SortByCheapest)

		require.NoError(t, err)
		require.Len(t, result, 3)
		assert.Equal(t, 25.0, result[0].UnitPrice)
		assert.Equal(t, 28.0, result[1].UnitPrice)
		assert.Equal(t, 30.0, result[2].UnitPrice)
	})

	t.Run("sorts by rating descending with stable ties", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewAvailabilityService(repo)

		repo.On("FindByMedicineName", mock.Anything, "Crocin").Return([]*entities.StockedListing{
			stocked("first", "p1", "Crocin", 30, 15, nearA, 4.0),
			stocked("second", "p2", "Crocin", 25, 10, nearB, 4.0),
			stocked("top", "p3", "Crocin", 28, 8, nearA, 4.9),
		}, nil)

		result, err := service.GetMedicineAvailability(context.Background(), "Crocin", searcher, 5, entities.SortByRating)

		require.NoError(t, err)
		require.Len(t, result, 3)
		assert.Equal(t, "top", result[0].ListingID)
		// Equal ratings keep input order
		assert.Equal(t, "first", result[1].ListingID)
		assert.Equal(t, "second", result[2].ListingID)
	})

	t.Run("excludes pharmacies beyond the radius", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewAvailabilityService(repo)

		mumbai := loc(19.0760, 72.8777)
		repo.On("FindByMedicineName", mock.Anything, "Crocin").Return([]*entities.StockedListing{
			stocked("near", "p1", "Crocin", 30, 15, nearA, 4.0),
			stocked("far", "p2", "Crocin", 25, 10, mumbai, 4.5),
		}, nil)

		result, err := service.GetMedicineAvailability(context.Background(), "Crocin", searcher, 5, "")

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "near", result[0].ListingID)
	})

	t.Run("no stock anywhere yields an empty result, not an error", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewAvailabilityService(repo)

		repo.On("FindByMedicineName", mock.Anything, "Obscurin").Return([]*entities.StockedListing{}, nil)

		result, err := service.GetMedicineAvailability(context.Background(), "Obscurin", searcher, 5, "")

		require.NoError(t, err)
		assert.Empty(t, result)
	})
}
