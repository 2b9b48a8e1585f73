package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medzoshop/medzo-backend/internal/api/handlers"
	"github.com/medzoshop/medzo-backend/internal/application/services"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPharmacyRepository struct {
	mock.Mock
}

func (m *MockPharmacyRepository) Create(ctx context.Context, pharmacy *entities.Pharmacy) error {
	args := m.Called(ctx, pharmacy)
	return args.Error(0)
}

func (m *MockPharmacyRepository) GetByID(ctx context.Context, id string) (*entities.Pharmacy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Pharmacy), args.Error(1)
}

func (m *MockPharmacyRepository) List(ctx context.Context, filter repositories.PharmacyFilter) ([]*entities.Pharmacy, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Pharmacy), args.Error(1)
}

func (m *MockPharmacyRepository) UpdateVerification(ctx context.Context, id string, status entities.VerificationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPharmacyRepository) UpdateLocation(ctx context.Context, id string, location entities.Location) error {
	args := m.Called(ctx, id, location)
	return args.Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) CreateWithAggregate(ctx context.Context, review *entities.Review) (*entities.RatingSummary, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RatingSummary), args.Error(1)
}

func (m *MockReviewRepository) ListByPharmacy(ctx context.Context, pharmacyID string, limit, offset int) ([]*entities.Review, error) {
	args := m.Called(ctx, pharmacyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

func newPharmacyHandler(repo *MockPharmacyRepository, reviews *MockReviewRepository) *handlers.PharmacyHandler {
	pharmacyService := services.NewPharmacyService(repo, nil)
	reviewService := services.NewReviewService(reviews, nil)
	return handlers.NewPharmacyHandler(pharmacyService, reviewService)
}

type nearbyResponse struct {
	Pharmacies []entities.NearbyPharmacy `json:"pharmacies"`
	Count      int                       `json:"count"`
}

func TestPharmacyHandler_GetNearbyPharmacies_SortedByDistance(t *testing.T) {
	repo := new(MockPharmacyRepository)
	handler := newPharmacyHandler(repo, new(MockReviewRepository))

	repo.On("List", mock.Anything, repositories.PharmacyFilter{WithLocation: true}).Return([]*entities.Pharmacy{
		{
			ID:       "p-far",
			Name:     "Guardian Pharmacy Janpath",
			Location: &entities.Location{Latitude: 28.6243, Longitude: 77.2189},
			IsActive: true,
		},
		{
			ID:       "p-near",
			Name:     "Apollo Pharmacy Connaught Place",
			Location: &entities.Location{Latitude: 28.6320, Longitude: 77.2170},
			IsActive: true,
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/pharmacies/nearby?lat=28.6315&lng=77.2167", nil)
	rec := httptest.NewRecorder()

	handler.GetNearbyPharmacies(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp nearbyResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "p-near", resp.Pharmacies[0].PharmacyID)
	assert.Equal(t, "p-far", resp.Pharmacies[1].PharmacyID)
	assert.Less(t, resp.Pharmacies[0].DistanceKm, resp.Pharmacies[1].DistanceKm)
}

func TestPharmacyHandler_GetNearbyPharmacies_MissingLocation(t *testing.T) {
	repo := new(MockPharmacyRepository)
	handler := newPharmacyHandler(repo, new(MockReviewRepository))

	req := httptest.NewRequest(http.MethodGet, "/api/pharmacies/nearby", nil)
	rec := httptest.NewRecorder()

	handler.GetNearbyPharmacies(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestPharmacyHandler_GetNearbyPharmacies_HalfSpecifiedLocation(t *testing.T) {
	repo := new(MockPharmacyRepository)
	handler := newPharmacyHandler(repo, new(MockReviewRepository))

	req := httptest.NewRequest(http.MethodGet, "/api/pharmacies/nearby?lat=28.6315", nil)
	rec := httptest.NewRecorder()

	handler.GetNearbyPharmacies(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPharmacyHandler_GetPharmacy_NotFound(t *testing.T) {
	repo := new(MockPharmacyRepository)
	handler := newPharmacyHandler(repo, new(MockReviewRepository))

	repo.On("GetByID", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("pharmacy with id missing not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/pharmacies/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	handler.GetPharmacy(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPharmacyHandler_UpdateVerification_RejectsUnknownStatus(t *testing.T) {
	repo := new(MockPharmacyRepository)
	handler := newPharmacyHandler(repo, new(MockReviewRepository))

	req := httptest.NewRequest(http.MethodPatch, "/api/pharmacies/p1/verification",
		jsonBody(t, map[string]string{"verification": "certified"}))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	handler.UpdateVerification(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "UpdateVerification", mock.Anything, mock.Anything, mock.Anything)
}

func TestPharmacyHandler_UpdateVerification_Applies(t *testing.T) {
	repo := new(MockPharmacyRepository)
	handler := newPharmacyHandler(repo, new(MockReviewRepository))

	repo.On("UpdateVerification", mock.Anything, "p1", entities.VerificationStatusVerified).Return(nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/pharmacies/p1/verification",
		jsonBody(t, map[string]string{"verification": "verified"}))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	handler.UpdateVerification(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}
