package search

import (
	"context"
	"fmt"

	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	tsclient "github.com/medzoshop/medzo-backend/internal/infrastructure/clients/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

// TypesenseAdapter implements medicine suggestion search using Typesense.
// It backs the type-ahead box only; exact-match availability answers always
// come from the relational store.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements MedicineSearchRepository
var _ repositories.MedicineSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a listing's medicine into the suggestion index
func (a *TypesenseAdapter) Index(ctx context.Context, listing *entities.Listing) error {
	document := map[string]interface{}{
		"id":          listing.ID,
		"name":        listing.MedicineName,
		"brand":       listing.Brand,
		"category":    listing.Category,
		"price":       listing.UnitPrice,
		"pharmacy_id": listing.PharmacyID,
		"updated_at":  listing.UpdatedAt.Unix(),
	}

	if err := a.client.IndexMedicine(ctx, document); err != nil {
		return fmt.Errorf("failed to index medicine: %w", err)
	}

	return nil
}

// Suggest returns medicine names matching a partial query, deduplicated by name
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, limit int) ([]entities.CatalogEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,brand"),
		// Over-fetch so deduplication by name still fills the page
		PerPage: pointer.Int(limit * 3),
	}

	result, err := a.client.Client().Collection(tsclient.MedicinesCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search medicines: %w", err)
	}

	entries := []entities.CatalogEntry{}
	seen := map[string]struct{}{}

	if result.Hits == nil {
		return entries, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document

		name, ok := doc["name"].(string)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		entry := entities.CatalogEntry{MedicineName: name}
		if val, ok := doc["brand"].(string); ok {
			entry.Brand = val
		}
		if val, ok := doc["category"].(string); ok {
			entry.Category = val
		}
		if val, ok := doc["price"].(float64); ok {
			entry.Price = val
		}

		entries = append(entries, entry)
		if len(entries) >= limit {
			break
		}
	}

	return entries, nil
}

// Delete removes a listing's document from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, listingID string) error {
	_, err := a.client.Client().Collection(tsclient.MedicinesCollection).Document(listingID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete medicine from index: %w", err)
	}
	return nil
}
