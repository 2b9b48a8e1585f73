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

func TestPrescriptionService_MatchPrescription(t *testing.T) {
	searcher := loc(28.6315, 77.2167)
	nearA := loc(28.6330, 77.2180)
	nearB := loc(28.6400, 77.2250)

	request := entities.PrescriptionRequest{
		Items: []entities.PrescriptionItem{
			{Name: "Crocin", Quantity: 2},
			{Name: "Azithral 500", Quantity: 1},
		},
	}

	t.Run("rejects missing searcher location", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewPrescriptionService(repo)

		_, err := service.MatchPrescription(context.Background(), request, nil, 5)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeLocationRequired))
		repo.AssertNotCalled(t, "FindByMedicineNames")
	})

	t.Run("rejects an empty prescription", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewPrescriptionService(repo)

		_, err := service.MatchPrescription(context.Background(), entities.PrescriptionRequest{}, searcher, 5)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("rejects non-positive item quantity", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewPrescriptionService(repo)

		bad := entities.PrescriptionRequest{Items: []entities.PrescriptionItem{{Name: "Crocin", Quantity: 0}}}
		_, err := service.MatchPrescription(context.Background(), bad, searcher, 5)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("excludes pharmacies short on any item", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewPrescriptionService(repo)

		repo.On("FindByMedicineNames", mock.Anything, mock.Anything).Return([]*entities.StockedListing{
			// p1 can fill everything
			stocked("l1", "p1", "Crocin", 30, 10, nearA, 4.0),
			stocked("l2", "p1", "Azithral 500", 80, 5, nearA, 4.0),
			// p2 is short on Crocin
			stocked("l3", "p2", "Crocin", 25, 1, nearB, 4.5),
			stocked("l4", "p2", "Azithral 500", 75, 5, nearB, 4.5),
			// p3 is missing Azithral entirely
			stocked("l5", "p3", "Crocin", 22, 10, nearB, 3.5),
		}, nil)

		matches, err := service.MatchPrescription(context.Background(), request, searcher, 5)

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "p1", matches[0].PharmacyID)
	})

	t.Run("prices the prescription at each pharmacy's own rates", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewPrescriptionService(repo)

		repo.On("FindByMedicineNames", mock.Anything, mock.Anything).Return([]*entities.StockedListing{
			stocked("l1", "p1", "Crocin", 30, 10, nearA, 4.0),
			stocked("l2", "p1", "Azithral 500", 80, 5, nearA, 4.0),
			stocked("l3", "p2", "Crocin", 25, 10, nearB, 4.5),
			stocked("l4", "p2", "Azithral 500", 75, 5, nearB, 4.5),
		}, nil)

		matches, err := service.MatchPrescription(context.Background(), request, searcher, 5)

		require.NoError(t, err)
		require.Len(t, matches, 2)

		byPharmacy := map[string]*entities.PharmacyMatch{}
		for _, match := range matches {
			byPharmacy[match.PharmacyID] = match
		}
		// p1: 2x30 + 1x80 = 140; p2: 2x25 + 1x75 = 125
		assert.InDelta(t, 140.0, byPharmacy["p1"].TotalCost, 0.005)
		assert.InDelta(t, 125.0, byPharmacy["p2"].TotalCost, 0.005)
		require.Len(t, byPharmacy["p1"].Items, 2)
		assert.Equal(t, 60.0, byPharmacy["p1"].Items[0].LineTotal)
	})

	t.Run("orders matches by ascending distance", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewPrescriptionService(repo)

		repo.On("FindByMedicineNames", mock.Anything, mock.Anything).Return([]*entities.StockedListing{
			stocked("l1", "p_far", "Crocin", 30, 10, nearB, 4.0),
			stocked("l2", "p_far", "Azithral 500", 80, 5, nearB, 4.0),
			stocked("l3", "p_near", "Crocin", 25, 10, nearA, 4.5),
			stocked("l4", "p_near", "Azithral 500", 75, 5, nearA, 4.5),
		}, nil)

		matches, err := service.MatchPrescription(context.Background(), request, searcher, 5)

		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "p_near", matches[0].PharmacyID)
		assert.Equal(t, "p_far", matches[1].PharmacyID)
	})

	t.Run("no qualifying pharmacy yields an empty result, not an error", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewPrescriptionService(repo)

		repo.On("FindByMedicineNames", mock.Anything, mock.Anything).Return([]*entities.StockedListing{}, nil)

		matches, err := service.MatchPrescription(context.Background(), request, searcher, 5)

		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("matches medicine names case-insensitively", func(t *testing.T) {
		repo := new(MockListingRepository)
		service := services.NewPrescriptionService(repo)

		repo.On("FindByMedicineNames", mock.Anything, mock.Anything).Return([]*entities.StockedListing{
			stocked("l1", "p1", "CROCIN", 30, 10, nearA, 4.0),
			stocked("l2", "p1", "azithral 500", 80, 5, nearA, 4.0),
		}, nil)

		matches, err := service.MatchPrescription(context.Background(), request, searcher, 5)

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "p1", matches[0].PharmacyID)
	})
}
