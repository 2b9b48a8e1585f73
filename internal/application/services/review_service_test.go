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

func validReview() *entities.Review {
	return &entities.Review{
		BookingID:  "b1",
		PharmacyID: "p1",
		UserID:     "u1",
		Rating:     5,
		Comment:    "quick and friendly",
	}
}

func TestReviewService_SubmitReview(t *testing.T) {
	t.Run("returns the updated aggregate", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		bus := new(MockEventBus)
		service := services.NewReviewService(reviews, bus)

		// Two reviews at 4.0, a new 5: (4.0*2 + 5) / 3
		reviews.On("CreateWithAggregate", mock.Anything, mock.Anything).Return(&entities.RatingSummary{
			PharmacyID:  "p1",
			Rating:      13.0 / 3.0,
			ReviewCount: 3,
		}, nil)
		bus.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entities.PharmacyEvent) bool {
			return e.Type == entities.EventTypeRatingUpdated && e.PharmacyID == "p1"
		})).Return(nil)

		summary, err := service.SubmitReview(context.Background(), validReview())

		require.NoError(t, err)
		assert.InDelta(t, 4.3333, summary.Rating, 0.001)
		assert.Equal(t, 3, summary.ReviewCount)
		bus.AssertNumberOfCalls(t, "Publish", 2)
	})

	t.Run("duplicate review is rejected and no event published", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		bus := new(MockEventBus)
		service := services.NewReviewService(reviews, bus)

		reviews.On("CreateWithAggregate", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewDuplicateReviewError("booking b1 has already been reviewed"))

		summary, err := service.SubmitReview(context.Background(), validReview())

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDuplicateReview))
		assert.Nil(t, summary)
		bus.AssertNotCalled(t, "Publish")
	})

	t.Run("rejects out-of-range ratings", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		service := services.NewReviewService(reviews, nil)

		for _, rating := range []int{0, -1, 6} {
			review := validReview()
			review.Rating = rating

			_, err := service.SubmitReview(context.Background(), review)

			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		}
		reviews.AssertNotCalled(t, "CreateWithAggregate")
	})

	t.Run("rejects a review without a booking", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		service := services.NewReviewService(reviews, nil)

		review := validReview()
		review.BookingID = ""

		_, err := service.SubmitReview(context.Background(), review)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("event publish failure does not fail the review", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		bus := new(MockEventBus)
		service := services.NewReviewService(reviews, bus)

		reviews.On("CreateWithAggregate", mock.Anything, mock.Anything).Return(&entities.RatingSummary{
			PharmacyID:  "p1",
			Rating:      5,
			ReviewCount: 1,
		}, nil)
		bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		summary, err := service.SubmitReview(context.Background(), validReview())

		require.NoError(t, err)
		assert.Equal(t, 1, summary.ReviewCount)
	})
}
