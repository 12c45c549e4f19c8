// Package batchstore implements the cached-batch-store collaborator: scrape
// operations write each batch of job detail records to a JSON file, and the
// resolver's cached stage reads them back newest first.
package batchstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jcarver/jobagent/internal/domain"
)

const batchFilePattern = "batch_*.json"

// batchFile is the on-disk envelope around one scraped batch.
type batchFile struct {
	ID        uuid.UUID          `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Records   []domain.JobDetail `json:"records"`
}

// Store reads and writes scraped batches under a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: batch store directory not set", domain.ErrConfiguration)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating batch store directory %s: %w", dir, err)
	}

	return &Store{
		dir:    dir,
		logger: logger.With("component", "batch_store"),
	}, nil
}

// WriteBatch persists a batch of records and returns a reference to the
// written file. The file name embeds the creation time so recency ordering
// survives restarts.
func (s *Store) WriteBatch(ctx context.Context, records []domain.JobDetail) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("batch write aborted: %w", domain.ErrCancelled)
	}

	batch := batchFile{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Records:   records,
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding batch: %w", err)
	}

	name := fmt.Sprintf("batch_%s_%s.json",
		batch.CreatedAt.Format("20060102T150405"), batch.ID)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing batch file: %w", err)
	}

	s.logger.Info("batch written", "path", path, "records", len(records))
	return path, nil
}

// LatestBatch returns the records of all stored batches concatenated newest
// batch first, so a caller scanning for the first match gets recency
// tie-breaking for free. An empty or missing directory yields an empty
// slice, not an error; an unreadable individual file is logged and skipped.
func (s *Store) LatestBatch(ctx context.Context) ([]domain.JobDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch load aborted: %w", domain.ErrCancelled)
	}

	paths, err := filepath.Glob(filepath.Join(s.dir, batchFilePattern))
	if err != nil {
		return nil, fmt.Errorf("listing batch files: %w", err)
	}

	// File names start with the creation timestamp, so lexical descending
	// order is newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	var records []domain.JobDetail
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable batch file", "path", path, "error", err)
			continue
		}

		var batch batchFile
		if err := json.Unmarshal(data, &batch); err != nil {
			s.logger.Warn("skipping malformed batch file", "path", path, "error", err)
			continue
		}

		records = append(records, batch.Records...)
	}

	return records, nil
}
