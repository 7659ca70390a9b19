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

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/adapters/cache"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/adapters/database"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/adapters/events"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/adapters/providers/extraction"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/adapters/search"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/api/handlers"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/api/routes"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/application/services"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/providers"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/openai"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/observability"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	observability.InitLogger(cfg.OTEL.ServiceName, env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	if err := pgClient.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the pipeline works without caching or events
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	var searchRepo repositories.SummarySearchRepository
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		if err := typesenseClient.InitSchema(ctx); err != nil {
			log.Printf("Warning: Failed to initialize Typesense schema: %v", err)
		}
		searchRepo = search.NewTypesenseAdapter(typesenseClient)
		log.Println("Typesense client initialized successfully")
	}

	// Initialize extraction provider
	extractorConfig := extraction.ExtractorSetConfig{Provider: cfg.Extraction.Provider}
	modelVersion := "mock"
	if cfg.Extraction.Provider == "openai" {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Fatalf("Failed to initialize OpenAI client: %v", err)
		}
		extractorConfig.OpenAIClient = openaiClient
		modelVersion = openaiClient.Model()
	}
	extractorSet, err := extraction.NewExtractorSet(extractorConfig)
	if err != nil {
		log.Fatalf("Failed to build extractor set: %v", err)
	}
	registry, err := services.NewExtractionRegistry(extractorSet)
	if err != nil {
		log.Fatalf("Failed to validate extractor registry: %v", err)
	}
	log.Printf("Extraction provider %q ready with %d extractors", cfg.Extraction.Provider, len(extractorSet))

	// Initialize repositories
	clinicalRepo := database.NewClinicalSummaryAdapter(pgClient)
	hospitalRepo := database.NewHospitalSummaryAdapter(pgClient)

	// Initialize pipeline services
	orchestrator := services.NewExtractionOrchestrator(registry, cfg.Extraction.ExtractorTimeout, metrics)
	assembler := services.NewSummaryAssembler(modelVersion)
	coordinator := services.NewPersistenceCoordinator(clinicalRepo, hospitalRepo, metrics)
	extractionService := services.NewExtractionService(orchestrator, assembler, coordinator, eventBus, searchRepo)

	// Invalidate cached summary reads when a rerun rewrites a summary
	var invalidation *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		invalidation = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := invalidation.Start(); err != nil {
			log.Printf("Warning: Failed to start cache invalidation service: %v", err)
			invalidation = nil
		}
	}

	// Initialize handlers
	extractionHandler := handlers.NewExtractionHandler(extractionService)
	summaryHandler := handlers.NewSummaryHandler(clinicalRepo, hospitalRepo, searchRepo, cacheProvider, metrics)

	// Set up routes
	router := routes.NewRouter(extractionHandler, summaryHandler, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	if invalidation != nil {
		invalidation.Stop()
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
