package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

// PharmacyAdapter implements the PharmacyRepository interface
type PharmacyAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPharmacyAdapter creates a new pharmacy adapter
func NewPharmacyAdapter(client *postgres.Client) repositories.PharmacyRepository {
	return &PharmacyAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var pharmacyColumns = []interface{}{
	"id", "name", "street", "city", "state", "zip_code", "country",
	"latitude", "longitude", "phone_number", "email",
	"verification", "rating", "review_count",
	"is_active", "created_at", "updated_at",
}

// Create creates a new pharmacy
func (a *PharmacyAdapter) Create(ctx context.Context, pharmacy *entities.Pharmacy) error {
	record := goqu.Record{
		"id":           pharmacy.ID,
		"name":         pharmacy.Name,
		"street":       pharmacy.Address.Street,
		"city":         pharmacy.Address.City,
		"state":        pharmacy.Address.State,
		"zip_code":     pharmacy.Address.ZipCode,
		"country":      pharmacy.Address.Country,
		"phone_number": pharmacy.PhoneNumber,
		"email":        pharmacy.Email,
		"verification": pharmacy.Verification,
		"rating":       pharmacy.Rating,
		"review_count": pharmacy.ReviewCount,
		"is_active":    pharmacy.IsActive,
		"created_at":   pharmacy.CreatedAt,
		"updated_at":   pharmacy.UpdatedAt,
	}

	// Coordinates stay NULL until the owner pins the shop on the map.
	if pharmacy.Location != nil {
		record["latitude"] = pharmacy.Location.Latitude
		record["longitude"] = pharmacy.Location.Longitude
	}

	query, args, err := a.db.Insert("pharmacies").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create pharmacy", err)
	}

	return nil
}

// GetByID retrieves a pharmacy by ID
func (a *PharmacyAdapter) GetByID(ctx context.Context, id string) (*entities.Pharmacy, error) {
	query, args, err := a.db.Select(pharmacyColumns...).
		From("pharmacies").
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	pharmacy, err := scanPharmacy(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("pharmacy with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get pharmacy", err)
	}

	return pharmacy, nil
}

// List retrieves active pharmacies with filters
func (a *PharmacyAdapter) List(ctx context.Context, filter repositories.PharmacyFilter) ([]*entities.Pharmacy, error) {
	ds := a.db.Select(pharmacyColumns...).
		From("pharmacies").
		Where(goqu.Ex{"is_active": true})

	if filter.Verification != "" {
		ds = ds.Where(goqu.Ex{"verification": filter.Verification})
	}

	if filter.WithLocation {
		ds = ds.Where(goqu.C("latitude").IsNotNull(), goqu.C("longitude").IsNotNull())
	}

	ds = ds.Order(goqu.I("created_at").Desc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list pharmacies", err)
	}
	defer rows.Close()

	pharmacies := []*entities.Pharmacy{}
	for rows.Next() {
		pharmacy, err := scanPharmacy(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan pharmacy", err)
		}
		pharmacies = append(pharmacies, pharmacy)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating pharmacies", err)
	}

	return pharmacies, nil
}

// UpdateVerification transitions a pharmacy's verification state
func (a *PharmacyAdapter) UpdateVerification(ctx context.Context, id string, status entities.VerificationStatus) error {
	query, args, err := a.db.Update("pharmacies").
		Set(goqu.Record{
			"verification": status,
			"updated_at":   time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update verification", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("pharmacy with id %s not found", id))
	}

	return nil
}

// UpdateLocation sets a pharmacy's coordinates
func (a *PharmacyAdapter) UpdateLocation(ctx context.Context, id string, location entities.Location) error {
	query, args, err := a.db.Update("pharmacies").
		Set(goqu.Record{
			"latitude":   location.Latitude,
			"longitude":  location.Longitude,
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update location", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("pharmacy with id %s not found", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPharmacy(row rowScanner) (*entities.Pharmacy, error) {
	pharmacy := &entities.Pharmacy{}
	var latitude, longitude sql.NullFloat64

	err := row.Scan(
		&pharmacy.ID,
		&pharmacy.Name,
		&pharmacy.Address.Street,
		&pharmacy.Address.City,
		&pharmacy.Address.State,
		&pharmacy.Address.ZipCode,
		&pharmacy.Address.Country,
		&latitude,
		&longitude,
		&pharmacy.PhoneNumber,
		&pharmacy.Email,
		&pharmacy.Verification,
		&pharmacy.Rating,
		&pharmacy.ReviewCount,
		&pharmacy.IsActive,
		&pharmacy.CreatedAt,
		&pharmacy.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if latitude.Valid && longitude.Valid {
		pharmacy.Location = &entities.Location{
			Latitude:  latitude.Float64,
			Longitude: longitude.Float64,
		}
	}

	return pharmacy, nil
}
