package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

const uniqueViolation = "23505"

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CreateWithAggregate inserts the review and folds it into the pharmacy's
// running average in one transaction. The reviews table carries a unique
// constraint on booking_id; a second review for the same booking hits that
// constraint and rolls back without touching the aggregate.
func (a *ReviewAdapter) CreateWithAggregate(ctx context.Context, review *entities.Review) (*entities.RatingSummary, error) {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.NewTransactionFailedError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	insertQuery, insertArgs, err := a.db.Insert("reviews").Rows(goqu.Record{
		"id":          review.ID,
		"booking_id":  review.BookingID,
		"pharmacy_id": review.PharmacyID,
		"user_id":     review.UserID,
		"rating":      review.Rating,
		"comment":     review.Comment,
		"created_at":  review.CreatedAt,
	}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review insert", err)
	}

	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperrors.NewDuplicateReviewError(
				fmt.Sprintf("booking %s has already been reviewed", review.BookingID),
			)
		}
		return nil, apperrors.NewTransactionFailedError("failed to insert review", err)
	}

	// Running average: (rating * review_count + new) / (review_count + 1).
	// Computed in SQL against the stored aggregate so concurrent reviews
	// serialize on the pharmacy row.
	updateQuery := `
		UPDATE pharmacies SET
			rating = (rating * review_count + $2) / (review_count + 1),
			review_count = review_count + 1,
			updated_at = $3
		WHERE id = $1
		RETURNING rating, review_count
	`

	summary := &entities.RatingSummary{PharmacyID: review.PharmacyID}
	err = tx.QueryRowContext(ctx, updateQuery, review.PharmacyID, float64(review.Rating), time.Now()).
		Scan(&summary.Rating, &summary.ReviewCount)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("pharmacy with id %s not found", review.PharmacyID))
	}
	if err != nil {
		return nil, apperrors.NewTransactionFailedError("failed to update pharmacy rating", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewTransactionFailedError("failed to commit review", err)
	}

	return summary, nil
}

// ListByPharmacy returns a pharmacy's reviews, newest first
func (a *ReviewAdapter) ListByPharmacy(ctx context.Context, pharmacyID string, limit, offset int) ([]*entities.Review, error) {
	ds := a.db.Select(
		"id", "booking_id", "pharmacy_id", "user_id", "rating", "comment", "created_at",
	).From("reviews").
		Where(goqu.Ex{"pharmacy_id": pharmacyID}).
		Order(goqu.I("created_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		review := &entities.Review{}
		var comment sql.NullString

		err := rows.Scan(
			&review.ID,
			&review.BookingID,
			&review.PharmacyID,
			&review.UserID,
			&review.Rating,
			&comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}

		review.Comment = comment.String
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reviews", err)
	}

	return reviews, nil
}
