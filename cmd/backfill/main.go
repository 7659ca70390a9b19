package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/adapters/database"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/adapters/providers/extraction"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/application/services"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/openai"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/pkg/config"
)

func main() {
	var workers int
	var notesDir string
	var noteFile string

	flag.IntVar(&workers, "workers", 3, "Number of concurrent workers")
	flag.StringVar(&notesDir, "dir", "", "Directory of .txt clinical notes to process")
	flag.StringVar(&noteFile, "file", "", "Single note file to process")
	flag.Parse()

	if notesDir == "" && noteFile == "" {
		log.Fatal("Either -dir or -file is required")
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Setup DB
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pgClient.Close()
	if err := pgClient.InitSchema(context.Background()); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Setup repos
	clinicalRepo := database.NewClinicalSummaryAdapter(pgClient)
	hospitalRepo := database.NewHospitalSummaryAdapter(pgClient)

	// Setup extraction provider
	extractorConfig := extraction.ExtractorSetConfig{Provider: cfg.Extraction.Provider}
	modelVersion := "mock"
	if cfg.Extraction.Provider == "openai" {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Fatalf("Failed to create OpenAI client: %v", err)
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

	// Setup pipeline. Events and search indexing are API-server
	// concerns; the backfill writes straight to Postgres.
	extractionService := services.NewExtractionService(
		services.NewExtractionOrchestrator(registry, cfg.Extraction.ExtractorTimeout, nil),
		services.NewSummaryAssembler(modelVersion),
		services.NewPersistenceCoordinator(clinicalRepo, hospitalRepo, nil),
		nil,
		nil,
	)
	svc := services.NewDirectoryBackfillService(extractionService, workers)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()

	if noteFile != "" {
		log.Printf("Processing single note: %s", noteFile)
		result, err := svc.ProcessFile(ctx, noteFile)
		if err != nil {
			log.Fatalf("Failed to process %s: %v", noteFile, err)
		}
		log.Printf("Processed %s as hospitalization %s (complete=%t)", noteFile, result.HospitalizationID, result.Complete())
		return
	}

	log.Printf("Starting backfill of %s with %d workers...", notesDir, workers)
	summary, err := svc.ProcessDirectory(ctx, notesDir)
	if err != nil {
		log.Fatalf("Backfill failed: %v", err)
	}

	log.Printf("Backfill complete in %s", time.Since(start))
	log.Printf("Total processed: %d", summary.TotalProcessed)
	log.Printf("Success: %d", summary.SuccessCount)
	log.Printf("Partial: %d", summary.PartialCount)
	log.Printf("Failed: %d", summary.FailureCount)
}
