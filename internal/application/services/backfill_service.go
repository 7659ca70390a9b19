package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// BackfillSummary reports a directory run.
type BackfillSummary struct {
	TotalProcessed int
	SuccessCount   int
	PartialCount   int
	FailureCount   int
}

// DirectoryBackfillService feeds a directory of clinical note files
// through the extraction pipeline with a bounded worker pool. Used to
// reprocess historical notes after prompt or model changes.
type DirectoryBackfillService struct {
	extractionService *ExtractionService
	workerCount       int
}

// NewDirectoryBackfillService creates a backfill service.
func NewDirectoryBackfillService(extractionService *ExtractionService, workers int) *DirectoryBackfillService {
	if workers <= 0 {
		workers = 1
	}
	return &DirectoryBackfillService{
		extractionService: extractionService,
		workerCount:       workers,
	}
}

// ProcessFile runs one note file through the pipeline.
func (s *DirectoryBackfillService) ProcessFile(ctx context.Context, path string) (*ExtractionResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read note file %s: %w", path, err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, fmt.Errorf("note file %s is empty", path)
	}

	return s.extractionService.Process(ctx, &ExtractionRequest{Text: text})
}

// ProcessDirectory runs every .txt file in dir through the pipeline.
// Files are processed in name order so re-runs are deterministic; a
// failed file is logged and skipped, never fatal.
func (s *DirectoryBackfillService) ProcessDirectory(ctx context.Context, dir string) (*BackfillSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		log.Printf("No .txt note files found in %s", dir)
		return &BackfillSummary{}, nil
	}

	var processed, success, partial, failure int64

	fileChan := make(chan string, len(files))
	var wg sync.WaitGroup

	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range fileChan {
				if ctx.Err() != nil {
					return
				}
				result, err := s.ProcessFile(ctx, path)
				atomic.AddInt64(&processed, 1)
				switch {
				case err != nil:
					atomic.AddInt64(&failure, 1)
					log.Printf("Failed to process %s: %v", path, err)
				case result.Complete():
					atomic.AddInt64(&success, 1)
					log.Printf("Processed %s (hospitalization %s)", filepath.Base(path), result.HospitalizationID)
				default:
					atomic.AddInt64(&partial, 1)
					log.Printf("Processed %s with partial results (hospitalization %s)", filepath.Base(path), result.HospitalizationID)
				}
			}
		}()
	}

	for _, path := range files {
		fileChan <- path
	}
	close(fileChan)
	wg.Wait()

	return &BackfillSummary{
		TotalProcessed: int(atomic.LoadInt64(&processed)),
		SuccessCount:   int(atomic.LoadInt64(&success)),
		PartialCount:   int(atomic.LoadInt64(&partial)),
		FailureCount:   int(atomic.LoadInt64(&failure)),
	}, nil
}
