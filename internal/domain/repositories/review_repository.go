package repositories

import (
	"context"

	"github.com/medzoshop/medzo-backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review persistence.
type ReviewRepository interface {
	// CreateWithAggregate inserts the review and folds it into the pharmacy's
	// running average in a single atomic operation. The one-review-per-booking
	// rule is enforced by a storage uniqueness constraint, not a flag: a second
	// submission for the same booking fails with DuplicateReview and leaves the
	// aggregate untouched.
	CreateWithAggregate(ctx context.Context, review *entities.Review) (*entities.RatingSummary, error)

	// ListByPharmacy returns a pharmacy's reviews, newest first
	ListByPharmacy(ctx context.Context, pharmacyID string, limit, offset int) ([]*entities.Review, error)
}
