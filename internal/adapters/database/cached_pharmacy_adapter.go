package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/providers"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/observability"
)

// CachedPharmacyAdapter wraps PharmacyAdapter with caching
type CachedPharmacyAdapter struct {
	adapter repositories.PharmacyRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedPharmacyAdapter creates a new cached pharmacy adapter
func NewCachedPharmacyAdapter(adapter repositories.PharmacyRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.PharmacyRepository {
	return &CachedPharmacyAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// Cache TTLs (in seconds)
const (
	pharmacyByIDTTL = 300 // 5 minutes for single pharmacy
	pharmacyListTTL = 120 // 2 minutes for lists
)

func pharmacyCacheKey(id string) string {
	return fmt.Sprintf("pharmacy:%s", id)
}

func pharmacyListCacheKey(filter repositories.PharmacyFilter) string {
	return fmt.Sprintf("pharmacies:list:%s:%t:%d:%d", filter.Verification, filter.WithLocation, filter.Limit, filter.Offset)
}

// Create creates a pharmacy and passes through to the underlying adapter.
// List caches are left to expire on their own TTL.
func (a *CachedPharmacyAdapter) Create(ctx context.Context, pharmacy *entities.Pharmacy) error {
	return a.adapter.Create(ctx, pharmacy)
}

// GetByID retrieves a pharmacy by ID with caching
func (a *CachedPharmacyAdapter) GetByID(ctx context.Context, id string) (*entities.Pharmacy, error) {
	cacheKey := pharmacyCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var pharmacy entities.Pharmacy
		if err := json.Unmarshal(cached, &pharmacy); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "pharmacy")
			return &pharmacy, nil
		}
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("pharmacy_id", id).
			Msg("failed to unmarshal cached pharmacy")
	}

	observability.RecordCacheMiss(ctx, a.metrics, "pharmacy")

	pharmacy, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(pharmacy); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, pharmacyByIDTTL); err != nil {
				observability.GetLogger().Warn().
					Err(err).
					Str("pharmacy_id", id).
					Msg("failed to cache pharmacy")
			}
		}
	}()

	return pharmacy, nil
}

// List retrieves pharmacies with caching
func (a *CachedPharmacyAdapter) List(ctx context.Context, filter repositories.PharmacyFilter) ([]*entities.Pharmacy, error) {
	cacheKey := pharmacyListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var pharmacies []*entities.Pharmacy
		if err := json.Unmarshal(cached, &pharmacies); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "pharmacy_list")
			return pharmacies, nil
		}
	}

	observability.RecordCacheMiss(ctx, a.metrics, "pharmacy_list")

	pharmacies, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(pharmacies); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, pharmacyListTTL); err != nil {
				observability.GetLogger().Warn().
					Err(err).
					Msg("failed to cache pharmacy list")
			}
		}
	}()

	return pharmacies, nil
}

// UpdateVerification transitions verification state and invalidates the cache
func (a *CachedPharmacyAdapter) UpdateVerification(ctx context.Context, id string, status entities.VerificationStatus) error {
	if err := a.adapter.UpdateVerification(ctx, id, status); err != nil {
		return err
	}

	a.invalidate(ctx, id)
	return nil
}

// UpdateLocation sets coordinates and invalidates the cache
func (a *CachedPharmacyAdapter) UpdateLocation(ctx context.Context, id string, location entities.Location) error {
	if err := a.adapter.UpdateLocation(ctx, id, location); err != nil {
		return err
	}

	a.invalidate(ctx, id)
	return nil
}

func (a *CachedPharmacyAdapter) invalidate(ctx context.Context, id string) {
	if err := a.cache.Delete(ctx, pharmacyCacheKey(id)); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("pharmacy_id", id).
			Msg("failed to invalidate pharmacy cache")
	}
}
