package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

// ListingAdapter implements the ListingRepository interface
type ListingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewListingAdapter creates a new listing adapter
func NewListingAdapter(client *postgres.Client) repositories.ListingRepository {
	return &ListingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var listingColumns = []interface{}{
	"listings.id", "listings.pharmacy_id", "listings.medicine_name",
	"listings.brand", "listings.category", "listings.unit_price",
	"listings.quantity", "listings.created_at", "listings.updated_at",
}

// Create creates a new listing
func (a *ListingAdapter) Create(ctx context.Context, listing *entities.Listing) error {
	record := goqu.Record{
		"id":            listing.ID,
		"pharmacy_id":   listing.PharmacyID,
		"medicine_name": listing.MedicineName,
		"brand":         listing.Brand,
		"category":      listing.Category,
		"unit_price":    listing.UnitPrice,
		"quantity":      listing.Quantity,
		"created_at":    listing.CreatedAt,
		"updated_at":    listing.UpdatedAt,
	}

	query, args, err := a.db.Insert("listings").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create listing", err)
	}

	return nil
}

// GetByID retrieves a listing by ID
func (a *ListingAdapter) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	query, args, err := a.db.Select(
		"id", "pharmacy_id", "medicine_name", "brand", "category",
		"unit_price", "quantity", "created_at", "updated_at",
	).From("listings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	listing := &entities.Listing{}
	var brand, category sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&listing.ID,
		&listing.PharmacyID,
		&listing.MedicineName,
		&brand,
		&category,
		&listing.UnitPrice,
		&listing.Quantity,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get listing", err)
	}

	listing.Brand = brand.String
	listing.Category = category.String

	return listing, nil
}

// FindByMedicineName returns in-stock listings whose medicine name matches,
// case-insensitively, joined with pharmacy identity and coordinates
func (a *ListingAdapter) FindByMedicineName(ctx context.Context, name string) ([]*entities.StockedListing, error) {
	ds := a.stockedDataset().
		Where(goqu.Func("LOWER", goqu.I("listings.medicine_name")).Eq(strings.ToLower(name)))

	return a.queryStocked(ctx, ds)
}

// FindByMedicineNames returns in-stock listings for any of the given names,
// joined with pharmacy identity and coordinates
func (a *ListingAdapter) FindByMedicineNames(ctx context.Context, names []string) ([]*entities.StockedListing, error) {
	if len(names) == 0 {
		return []*entities.StockedListing{}, nil
	}

	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}

	ds := a.stockedDataset().
		Where(goqu.Func("LOWER", goqu.I("listings.medicine_name")).In(lowered))

	return a.queryStocked(ctx, ds)
}

// ListByPharmacy returns a pharmacy's listings, including out-of-stock ones
func (a *ListingAdapter) ListByPharmacy(ctx context.Context, pharmacyID string) ([]*entities.Listing, error) {
	query, args, err := a.db.Select(
		"id", "pharmacy_id", "medicine_name", "brand", "category",
		"unit_price", "quantity", "created_at", "updated_at",
	).From("listings").
		Where(goqu.Ex{"pharmacy_id": pharmacyID}).
		Order(goqu.I("medicine_name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list listings", err)
	}
	defer rows.Close()

	listings := []*entities.Listing{}
	for rows.Next() {
		listing := &entities.Listing{}
		var brand, category sql.NullString

		err := rows.Scan(
			&listing.ID,
			&listing.PharmacyID,
			&listing.MedicineName,
			&brand,
			&category,
			&listing.UnitPrice,
			&listing.Quantity,
			&listing.CreatedAt,
			&listing.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan listing", err)
		}

		listing.Brand = brand.String
		listing.Category = category.String
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating listings", err)
	}

	return listings, nil
}

// ListInStock returns every positive-quantity listing joined with pharmacy
// identity and coordinates
func (a *ListingAdapter) ListInStock(ctx context.Context) ([]*entities.StockedListing, error) {
	return a.queryStocked(ctx, a.stockedDataset())
}

// stockedDataset is the shared join for availability queries. Zero-quantity
// listings and inactive pharmacies never appear in results.
func (a *ListingAdapter) stockedDataset() *goqu.SelectDataset {
	columns := append([]interface{}{}, listingColumns...)
	columns = append(columns,
		"pharmacies.name", "pharmacies.latitude", "pharmacies.longitude",
		"pharmacies.rating", "pharmacies.review_count", "pharmacies.verification",
	)

	return a.db.Select(columns...).
		From("listings").
		Join(goqu.T("pharmacies"), goqu.On(goqu.I("pharmacies.id").Eq(goqu.I("listings.pharmacy_id")))).
		Where(
			goqu.I("listings.quantity").Gt(0),
			goqu.Ex{"pharmacies.is_active": true},
		).
		Order(goqu.I("listings.created_at").Asc())
}

func (a *ListingAdapter) queryStocked(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.StockedListing, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query listings", err)
	}
	defer rows.Close()

	listings := []*entities.StockedListing{}
	for rows.Next() {
		listing := &entities.StockedListing{}
		var brand, category sql.NullString
		var latitude, longitude sql.NullFloat64

		err := rows.Scan(
			&listing.ID,
			&listing.PharmacyID,
			&listing.MedicineName,
			&brand,
			&category,
			&listing.UnitPrice,
			&listing.Quantity,
			&listing.CreatedAt,
			&listing.UpdatedAt,
			&listing.PharmacyName,
			&latitude,
			&longitude,
			&listing.PharmacyRating,
			&listing.PharmacyReviewCount,
			&listing.PharmacyVerification,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan listing", err)
		}

		listing.Brand = brand.String
		listing.Category = category.String
		if latitude.Valid && longitude.Valid {
			listing.PharmacyLocation = &entities.Location{
				Latitude:  latitude.Float64,
				Longitude: longitude.Float64,
			}
		}

		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating listings", err)
	}

	return listings, nil
}
