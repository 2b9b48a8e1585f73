package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/providers"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/observability"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

// ReviewService accepts customer reviews and maintains pharmacy rating
// aggregates
type ReviewService struct {
	reviews repositories.ReviewRepository
	bus     providers.EventBus
}

// NewReviewService creates a new review service
func NewReviewService(reviews repositories.ReviewRepository, bus providers.EventBus) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		bus:     bus,
	}
}

// SubmitReview records a review and folds it into the pharmacy's running
// average. A booking can be reviewed once; a repeat submission fails with
// DuplicateReview and the aggregate is untouched. The updated aggregate is
// returned and a rating.updated event published best-effort.
func (s *ReviewService) SubmitReview(ctx context.Context, review *entities.Review) (*entities.RatingSummary, error) {
	if review.BookingID == "" {
		return nil, apperrors.NewValidationError("booking id is required")
	}
	if review.PharmacyID == "" {
		return nil, apperrors.NewValidationError("pharmacy id is required")
	}
	if review.UserID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	summary, err := s.reviews.CreateWithAggregate(ctx, review)
	if err != nil {
		return nil, err
	}

	s.publishRatingUpdated(ctx, summary)
	return summary, nil
}

// ListByPharmacy returns a pharmacy's reviews, newest first
func (s *ReviewService) ListByPharmacy(ctx context.Context, pharmacyID string, limit, offset int) ([]*entities.Review, error) {
	return s.reviews.ListByPharmacy(ctx, pharmacyID, limit, offset)
}

func (s *ReviewService) publishRatingUpdated(ctx context.Context, summary *entities.RatingSummary) {
	if s.bus == nil {
		return
	}

	payload, err := json.Marshal(entities.RatingUpdatedPayload{
		Rating:      summary.Rating,
		ReviewCount: summary.ReviewCount,
	})
	if err != nil {
		return
	}

	event := &entities.PharmacyEvent{
		ID:         uuid.New().String(),
		Type:       entities.EventTypeRatingUpdated,
		PharmacyID: summary.PharmacyID,
		Payload:    payload,
		CreatedAt:  time.Now(),
	}

	for _, channel := range []string{
		providers.GetPharmacyChannel(summary.PharmacyID),
		providers.EventChannelPharmacyUpdates,
	} {
		if err := s.bus.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("channel", channel).
				Str("pharmacy_id", summary.PharmacyID).
				Msg("failed to publish rating update event")
		}
	}
}
