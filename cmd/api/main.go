package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medzoshop/medzo-backend/internal/adapters/cache"
	"github.com/medzoshop/medzo-backend/internal/adapters/database"
	"github.com/medzoshop/medzo-backend/internal/adapters/events"
	"github.com/medzoshop/medzo-backend/internal/adapters/providers/geolocation"
	"github.com/medzoshop/medzo-backend/internal/adapters/search"
	"github.com/medzoshop/medzo-backend/internal/api/handlers"
	"github.com/medzoshop/medzo-backend/internal/api/routes"
	"github.com/medzoshop/medzo-backend/internal/application/services"
	"github.com/medzoshop/medzo-backend/internal/domain/providers"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/postgres"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/redis"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/typesense"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/observability"
	"github.com/medzoshop/medzo-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry is optional; the service runs fine without a collector
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	// Redis is optional: without it the service runs uncached and without
	// the live event stream
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, running without cache and events")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		defer eventBus.Close()
	}

	// Typesense is optional: without it the suggest endpoint returns empty
	var searchRepo repositories.MedicineSearchRepository
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		logger.Warn().Err(err).Msg("Typesense unavailable, suggestions disabled")
	} else {
		if err := typesenseClient.InitSchema(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		searchRepo = search.NewTypesenseAdapter(typesenseClient)
	}

	basePharmacyAdapter := database.NewPharmacyAdapter(pgClient)
	var pharmacyAdapter repositories.PharmacyRepository
	if cacheProvider != nil {
		pharmacyAdapter = database.NewCachedPharmacyAdapter(basePharmacyAdapter, cacheProvider, metrics)
	} else {
		pharmacyAdapter = basePharmacyAdapter
	}

	listingAdapter := database.NewListingAdapter(pgClient)
	orderAdapter := database.NewOrderAdapter(pgClient)
	reviewAdapter := database.NewReviewAdapter(pgClient)

	var geolocationProvider providers.GeolocationProvider
	switch cfg.Geolocation.Provider {
	case "google":
		if cfg.Geolocation.APIKey == "" {
			logger.Warn().Msg("GEOLOCATION_API_KEY is not set; using mock geolocation provider")
			geolocationProvider = geolocation.NewMockGeolocationProvider()
		} else {
			geolocationProvider = geolocation.NewGoogleGeolocationProvider(cfg.Geolocation.APIKey, cacheProvider)
		}
	default:
		geolocationProvider = geolocation.NewMockGeolocationProvider()
	}

	pharmacyService := services.NewPharmacyService(pharmacyAdapter, geolocationProvider)
	availabilityService := services.NewAvailabilityService(listingAdapter)
	catalogService := services.NewCatalogService(listingAdapter, searchRepo)
	prescriptionService := services.NewPrescriptionService(listingAdapter)
	saleService := services.NewSaleService(orderAdapter, listingAdapter, eventBus, metrics)
	reviewService := services.NewReviewService(reviewAdapter, eventBus)

	router := routes.NewRouter(
		handlers.NewPharmacyHandler(pharmacyService, reviewService),
		handlers.NewMedicineHandler(availabilityService, catalogService),
		handlers.NewPrescriptionHandler(prescriptionService),
		handlers.NewSaleHandler(saleService),
		handlers.NewReviewHandler(reviewService),
		handlers.NewGeolocationHandler(geolocationProvider),
		handlers.NewSSEHandler(eventBus),
		metrics,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server stopped")
}
