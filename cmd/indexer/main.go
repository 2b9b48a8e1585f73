package main

import (
	"context"
	"log"
	"time"

	"github.com/medzoshop/medzo-backend/internal/adapters/database"
	"github.com/medzoshop/medzo-backend/internal/adapters/search"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/postgres"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/typesense"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/observability"
	"github.com/medzoshop/medzo-backend/pkg/config"
)

// Backfills the Typesense medicines collection from the listings table.
// Run after enabling search on an existing database, or to repair the
// index after a Typesense data loss.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger("medzo-indexer", cfg.Server.Environment)
	logger := observability.GetLogger()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Fatalf("Failed to initialize Typesense client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := typesenseClient.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize Typesense schema: %v", err)
	}

	listingAdapter := database.NewListingAdapter(pgClient)
	searchAdapter := search.NewTypesenseAdapter(typesenseClient)

	stocked, err := listingAdapter.ListInStock(ctx)
	if err != nil {
		log.Fatalf("Failed to load listings: %v", err)
	}

	indexed := 0
	failed := 0
	for _, listing := range stocked {
		if err := searchAdapter.Index(ctx, &listing.Listing); err != nil {
			logger.Warn().
				Err(err).
				Str("listing_id", listing.ID).
				Str("medicine", listing.MedicineName).
				Msg("failed to index listing")
			failed++
			continue
		}
		indexed++
	}

	logger.Info().
		Int("indexed", indexed).
		Int("failed", failed).
		Msg("backfill complete")
}
