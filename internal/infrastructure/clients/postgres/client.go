package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/pkg/config"
	"github.com/zatekoja/Clinicalsummaryextractiondesign/backend/pkg/retry"
)

// Client represents a PostgreSQL database client
type Client struct {
	db *sql.DB
}

// NewClient creates a new PostgreSQL client with exponential backoff retry
func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test the connection with retry
	retryConfig := retry.DefaultConfig()
	err = retry.DoWithLog(
		context.Background(),
		retryConfig,
		"PostgreSQL",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Printf("PostgreSQL connection attempt %d failed: %v. Retrying in %v...", attempt, err, nextDelay)
		},
	)

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return &Client{db: db}, nil
}

// NewClientFromDB wraps an existing database handle. Used by tests.
func NewClientFromDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// InitSchema creates the summary tables if they do not exist. The
// unique index on hospitalization_id backs the upsert used when a
// document is re-extracted.
func (c *Client) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS clinical_summaries (
			id UUID PRIMARY KEY,
			patient_id TEXT NOT NULL DEFAULT '',
			hospitalization_id TEXT NOT NULL UNIQUE,
			patient_presentation JSONB,
			relevant_history JSONB,
			clinical_findings JSONB,
			clinical_assessment JSONB,
			hospital_course JSONB,
			follow_up_plan JSONB,
			treatments_procedures JSONB,
			lab_results JSONB,
			failed_sections JSONB,
			parsed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			parsing_model_version TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS hospital_summaries (
			id UUID PRIMARY KEY,
			patient_id TEXT NOT NULL DEFAULT '',
			hospitalization_id TEXT NOT NULL UNIQUE,
			facility JSONB NOT NULL,
			timing JSONB NOT NULL,
			diagnosis JSONB NOT NULL,
			medication_risk_assessment JSONB NOT NULL,
			length_of_stay_days INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clinical_summaries_parsed_at ON clinical_summaries (parsed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_hospital_summaries_created_at ON hospital_summaries (created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
