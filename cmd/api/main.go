package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/carepath/snf-navigator/internal/adapters/cache"
	"github.com/carepath/snf-navigator/internal/adapters/database"
	"github.com/carepath/snf-navigator/internal/adapters/providers/geocoding"
	"github.com/carepath/snf-navigator/internal/adapters/providers/metrics"
	"github.com/carepath/snf-navigator/internal/adapters/providers/places"
	"github.com/carepath/snf-navigator/internal/adapters/search"
	"github.com/carepath/snf-navigator/internal/api/handlers"
	"github.com/carepath/snf-navigator/internal/api/routes"
	"github.com/carepath/snf-navigator/internal/application/services"
	"github.com/carepath/snf-navigator/internal/domain/repositories"
	"github.com/carepath/snf-navigator/internal/infrastructure/clients/postgres"
	"github.com/carepath/snf-navigator/internal/infrastructure/clients/redis"
	"github.com/carepath/snf-navigator/internal/infrastructure/clients/typesense"
	"github.com/carepath/snf-navigator/internal/infrastructure/observability"
	"github.com/carepath/snf-navigator/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry is optional; the service runs without an exporter.
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	appMetrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// Redis is optional; facility reads fall back to the database.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		logger.Info().Msg("Redis client initialized")
	}

	// Typesense is optional; without it facility name search is disabled.
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Typesense client")
		typesenseClient = nil
	}

	hospitalAdapter := database.NewHospitalAdapter(pgClient)
	extractAdapter := database.NewExtractAdapter(pgClient)
	seedAdapter := database.NewPlaceIDSeedAdapter(pgClient)

	var facilityAdapter repositories.FacilityRepository = database.NewFacilityAdapter(pgClient)
	if redisClient != nil {
		facilityAdapter = database.NewCachedFacilityAdapter(facilityAdapter, cache.NewRedisAdapter(redisClient))
		logger.Info().Msg("facility adapter wrapped with cache")
	}

	geocodeStore := database.NewMemoryBackedGeocodeStore(database.NewGeocodeStoreAdapter(pgClient))
	placeIDStore := database.NewMemoryBackedPlaceIDStore(database.NewPlaceIDStoreAdapter(pgClient))
	reviewStore := database.NewMemoryBackedReviewStore(database.NewReviewStoreAdapter(pgClient))

	var searchRepo repositories.FacilitySearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		searchRepo = adapter
	}

	geocodeTimeout := time.Duration(cfg.Geocoding.TimeoutSeconds) * time.Second
	geocodeChain := geocoding.NewChain(geocodeTimeout,
		geocoding.NewGoogleGeocoder(cfg.Geocoding.GoogleAPIKey),
		geocoding.NewNominatimGeocoder(cfg.Geocoding.NominatimURL, nil),
		geocoding.NewCensusGeocoder(cfg.Geocoding.CensusURL, nil),
	)

	placesProvider := places.NewGooglePlacesProviderWithOptions(cfg.Places.APIKey, "", "", &http.Client{
		Timeout: time.Duration(cfg.Places.TimeoutSeconds) * time.Second,
	})
	cmsProvider := metrics.NewCMSMetricsProvider(cfg.CMS.ProviderDataURL, &http.Client{
		Timeout: time.Duration(cfg.CMS.TimeoutSeconds) * time.Second,
	})

	timelineService := services.NewTimelineService(extractAdapter)
	if err := timelineService.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to build facility timelines at startup")
	}

	analysisService := services.NewAnalysisService(
		hospitalAdapter,
		facilityAdapter,
		services.NewGeocodeResolver(geocodeStore, geocodeChain),
		timelineService,
		cmsProvider,
		services.NewPlaceResolver(seedAdapter, placeIDStore, placesProvider, cfg.Places.PlaceIDMaxAgeDays),
		services.NewReviewService(reviewStore, placesProvider, cfg.Places.ReviewMaxAgeDays),
		appMetrics,
		cfg.Analysis.DefaultRadiusMiles,
		cfg.Analysis.DefaultLimit,
	)

	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	facilityHandler := handlers.NewFacilityHandler(facilityAdapter, searchRepo)

	router := routes.NewRouter(analysisHandler, facilityHandler, appMetrics)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
