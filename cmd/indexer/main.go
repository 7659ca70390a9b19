package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/adapters/database"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/adapters/search"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/pkg/config"
)

const indexPageSize = 100

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	hospitalRepo := database.NewHospitalSummaryAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Deleting summaries collection before reindex")
		if err := tsClient.DropCollection(ctx); err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	searchRepo := search.NewTypesenseAdapter(tsClient)

	indexed := 0
	for offset := 0; ; offset += indexPageSize {
		summaries, err := hospitalRepo.List(ctx, indexPageSize, offset)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			break
		}

		for _, summary := range summaries {
			if summary == nil {
				continue
			}
			if err := searchRepo.IndexSummary(ctx, entities.NewSummarySearchDocument(summary)); err != nil {
				log.Printf("Warning: failed to index hospitalization %s: %v", summary.HospitalizationID, err)
				continue
			}
			indexed++
		}

		if len(summaries) < indexPageSize {
			break
		}
	}

	log.Printf("Indexed %d hospital summaries", indexed)
	return nil
}
