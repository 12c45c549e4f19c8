// Package docstore persists generated application documents (cover
// letters, outreach emails) to disk and hands back opaque references that
// operation results embed. Richer document storage is a collaborator's
// concern; this keeps bulk results pointing at something real.
package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jcarver/jobagent/internal/domain"
)

// Store writes documents under a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: document store directory not set", domain.ErrConfiguration)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating document store directory %s: %w", dir, err)
	}

	return &Store{
		dir:    dir,
		logger: logger.With("component", "doc_store"),
	}, nil
}

// Save persists one document and returns a reference to it. kind names the
// document type ("cover_letter", "outreach_email") and becomes part of the
// file name.
func (s *Store) Save(ctx context.Context, kind string, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("document write aborted: %w", domain.ErrCancelled)
	}

	name := fmt.Sprintf("%s_%s_%s.txt",
		kind, time.Now().UTC().Format("20060102T150405"), uuid.New())
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing document: %w", err)
	}

	s.logger.Debug("document written", "path", path, "kind", kind)
	return path, nil
}
