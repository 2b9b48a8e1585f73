package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/medzoshop/medzo-backend/internal/application/services"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAggregateEntries(t *testing.T) {
	t.Run("picks minimum price and counts distinct stores", func(t *testing.T) {
		listings := []*entities.StockedListing{
			stocked("l1", "p1", "Crocin", 30, 5, nil, 0),
			stocked("l2", "p2", "Crocin", 25, 8, nil, 0),
			stocked("l3", "p3", "Crocin", 28, 2, nil, 0),
		}

		entries := services.AggregateEntries(listings)

		require.Len(t, entries, 1)
		assert.Equal(t, "Crocin", entries[0].MedicineName)
		assert.Equal(t, 25.0, entries[0].Price)
		assert.Equal(t, 3, entries[0].AvailableStores)
	})

	t.Run("store count spans the whole group regardless of representative", func(t *testing.T) {
		// Two listings from the same pharmacy count once
		listings := []*entities.StockedListing{
			stocked("l1", "p1", "Dolo 650", 32, 5, nil, 0),
			stocked("l2", "p1", "Dolo 650", 29, 3, nil, 0),
			stocked("l3", "p2", "Dolo 650", 35, 9, nil, 0),
		}

		entries := services.AggregateEntries(listings)

		require.Len(t, entries, 1)
		assert.Equal(t, 29.0, entries[0].Price)
		assert.Equal(t, 2, entries[0].AvailableStores)
	})

	t.Run("groups by stored name and returns entries sorted by name", func(t *testing.T) {
		listings := []*entities.StockedListing{
			stocked("l1", "p1", "Zincovit", 110, 5, nil, 0),
			stocked("l2", "p2", "Azithral 500", 80, 8, nil, 0),
			stocked("l3", "p3", "Crocin", 28, 2, nil, 0),
		}

		entries := services.AggregateEntries(listings)

		require.Len(t, entries, 3)
		assert.Equal(t, "Azithral 500", entries[0].MedicineName)
		assert.Equal(t, "Crocin", entries[1].MedicineName)
		assert.Equal(t, "Zincovit", entries[2].MedicineName)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, services.AggregateEntries(nil))
	})
}

func TestCatalogService_AggregateCatalog(t *testing.T) {
	searcher := loc(28.6315, 77.2167)

	t.Run("rejects missing searcher location", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewCatalogService(repo, nil)

		_, err := service.AggregateCatalog(context.Background(), nil, 5)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeLocationRequired))
	})

	t.Run("aggregates only in-range listings", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewCatalogService(repo, nil)

		near := loc(28.6330, 77.2180)
		mumbai := loc(19.0760, 72.8777)
		repo.On("ListInStock", mock.Anything).Return([]*entities.StockedListing{
			stocked("l1", "p1", "Crocin", 30, 5, near, 0),
			stocked("l2", "p2", "Crocin", 12, 8, mumbai, 0),
		}, nil)

		entries, err := service.AggregateCatalog(context.Background(), searcher, 5)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		// The cheaper Mumbai listing is out of range and must not win
		assert.Equal(t, 30.0, entries[0].Price)
		assert.Equal(t, 1, entries[0].AvailableStores)
	})
}

func TestCatalogService_CreateListing(t *testing.T) {
	t.Run("creates and indexes the listing", func(t *testing.T) {
		repo := new(MockListingRepository)
		search := new(MockSearchRepository)
		service := services.NewCatalogService(repo, search)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(l *entities.Listing) bool {
			return l.ID != "" && l.MedicineName == "Crocin"
		})).Return(nil)
		search.On("Index", mock.Anything, mock.Anything).Return(nil)

		err := service.CreateListing(context.Background(), &entities.Listing{
			PharmacyID:   "p1",
			MedicineName: "Crocin",
			UnitPrice:    30,
			Quantity:     10,
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
		search.AssertExpectations(t)
	})

	t.Run("index failure does not fail the create", func(t *testing.T) {
		repo := new(MockListingRepository)
		search := new(MockSearchRepository)
		service := services.NewCatalogService(repo, search)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		search.On("Index", mock.Anything, mock.Anything).Return(errors.New("typesense down"))

		err := service.CreateListing(context.Background(), &entities.Listing{
			PharmacyID:   "p1",
			MedicineName: "Crocin",
			UnitPrice:    30,
			Quantity:     10,
		})

		require.NoError(t, err)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewCatalogService(repo, nil)

		err := service.CreateListing(context.Background(), &entities.Listing{
			PharmacyID:   "p1",
			MedicineName: "Crocin",
			UnitPrice:    30,
			Quantity:     -1,
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		repo.AssertNotCalled(t, "Create")
	})
}

func TestCatalogService_Suggest(t *testing.T) {
	t.Run("returns entries from the suggestion index", func(t *testing.T) {
		search := new(MockSearchRepository)
		service := services.NewCatalogService(new(MockListingRepository), search)

		search.On("Suggest", mock.Anything, "cro", 5).Return([]entities.CatalogEntry{
			{MedicineName: "Crocin", Price: 25},
		}, nil)

		entries, err := service.Suggest(context.Background(), "cro", 5)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Crocin", entries[0].MedicineName)
	})

	t.Run("no index configured yields an empty result", func(t *testing.T) {
		service := services.NewCatalogService(new(MockListingRepository), nil)

		entries, err := service.Suggest(context.Background(), "cro", 5)

		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
