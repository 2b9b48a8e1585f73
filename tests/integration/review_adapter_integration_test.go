//go:build integration

package integration

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/medzoshop/medzo-backend/internal/adapters/database"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ReviewAdapterIntegrationTestSuite struct {
	suite.Suite
	client  *postgres.Client
	adapter repositories.ReviewRepository
	db      *sql.DB

	pharmacyID string
}

func (suite *ReviewAdapterIntegrationTestSuite) SetupSuite() {
	suite.client = newTestPostgresClient(suite.T())
	suite.db = suite.client.DB()
	suite.adapter = database.NewReviewAdapter(suite.client)

	runSchema(suite.T(), suite.client)
}

func (suite *ReviewAdapterIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.client.Close()
	}
}

func (suite *ReviewAdapterIntegrationTestSuite) SetupTest() {
	suite.cleanupTestData()

	// Pharmacy starts at 4.0 across two reviews so the running average
	// has prior weight to carry.
	suite.pharmacyID = uuid.New().String()
	_, err := suite.db.Exec(`
		INSERT INTO pharmacies (id, name, rating, review_count, is_active, created_at, updated_at)
		VALUES ($1, 'Integration Test Pharmacy', 4.0, 2, true, NOW(), NOW())
	`, suite.pharmacyID)
	require.NoError(suite.T(), err)
}

func (suite *ReviewAdapterIntegrationTestSuite) TearDownTest() {
	suite.cleanupTestData()
}

func (suite *ReviewAdapterIntegrationTestSuite) cleanupTestData() {
	for _, table := range []string{"reviews", "pharmacies"} {
		_, err := suite.db.Exec("DELETE FROM " + table)
		require.NoError(suite.T(), err)
	}
}

func (suite *ReviewAdapterIntegrationTestSuite) newReview(bookingID string, rating int) *entities.Review {
	return &entities.Review{
		ID:         uuid.New().String(),
		BookingID:  bookingID,
		PharmacyID: suite.pharmacyID,
		UserID:     uuid.New().String(),
		Rating:     rating,
		Comment:    "Quick service",
		CreatedAt:  time.Now().UTC(),
	}
}

func (suite *ReviewAdapterIntegrationTestSuite) TestCreateWithAggregateUpdatesRunningAverage() {
	ctx := context.Background()

	summary, err := suite.adapter.CreateWithAggregate(ctx, suite.newReview(uuid.New().String(), 5))
	require.NoError(suite.T(), err)

	// (4.0*2 + 5) / 3
	assert.InDelta(suite.T(), 4.3333, summary.Rating, 0.0001)
	assert.Equal(suite.T(), 3, summary.ReviewCount)

	var rating float64
	var reviewCount int
	require.NoError(suite.T(), suite.db.QueryRow(
		`SELECT rating, review_count FROM pharmacies WHERE id = $1`, suite.pharmacyID,
	).Scan(&rating, &reviewCount))
	assert.InDelta(suite.T(), 4.3333, rating, 0.0001)
	assert.Equal(suite.T(), 3, reviewCount)
}

func (suite *ReviewAdapterIntegrationTestSuite) TestDuplicateBookingRejected() {
	ctx := context.Background()
	bookingID := uuid.New().String()

	_, err := suite.adapter.CreateWithAggregate(ctx, suite.newReview(bookingID, 5))
	require.NoError(suite.T(), err)

	_, err = suite.adapter.CreateWithAggregate(ctx, suite.newReview(bookingID, 1))
	require.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsType(err, apperrors.ErrorTypeDuplicateReview))

	// The rejected review must not have touched the aggregate.
	var rating float64
	var reviewCount int
	require.NoError(suite.T(), suite.db.QueryRow(
		`SELECT rating, review_count FROM pharmacies WHERE id = $1`, suite.pharmacyID,
	).Scan(&rating, &reviewCount))
	assert.InDelta(suite.T(), 4.3333, rating, 0.0001)
	assert.Equal(suite.T(), 3, reviewCount)
}

func (suite *ReviewAdapterIntegrationTestSuite) TestConcurrentSameBookingExactlyOneWins() {
	ctx := context.Background()
	bookingID := uuid.New().String()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = suite.adapter.CreateWithAggregate(ctx, suite.newReview(bookingID, 4))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(suite.T(), apperrors.IsType(err, apperrors.ErrorTypeDuplicateReview))
		}
	}
	assert.Equal(suite.T(), 1, succeeded)

	var reviewCount int
	require.NoError(suite.T(), suite.db.QueryRow(
		`SELECT review_count FROM pharmacies WHERE id = $1`, suite.pharmacyID,
	).Scan(&reviewCount))
	assert.Equal(suite.T(), 3, reviewCount)
}

func (suite *ReviewAdapterIntegrationTestSuite) TestListByPharmacyNewestFirst() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := suite.adapter.CreateWithAggregate(ctx, suite.newReview(uuid.New().String(), 4))
		require.NoError(suite.T(), err)
		time.Sleep(10 * time.Millisecond)
	}

	reviews, err := suite.adapter.ListByPharmacy(ctx, suite.pharmacyID, 10, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), reviews, 3)
	assert.True(suite.T(), !reviews[0].CreatedAt.Before(reviews[1].CreatedAt))
	assert.True(suite.T(), !reviews[1].CreatedAt.Before(reviews[2].CreatedAt))
}

func TestReviewAdapterIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(ReviewAdapterIntegrationTestSuite))
}
