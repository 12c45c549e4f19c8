package batchstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcarver/jobagent/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir(), testLogger())
	require.NoError(t, err)
	return store
}

func record(title, url string) domain.JobDetail {
	return domain.JobDetail{
		Title:          title,
		Company:        "Acme",
		Description:    "A role doing interesting things with distributed systems.",
		ApplicationURL: url,
	}
}

func TestNewRequiresDirectory(t *testing.T) {
	t.Parallel()

	_, err := New("", testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNewCreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "batches")
	_, err := New(dir, testLogger())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteAndReadRoundtrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	written := []domain.JobDetail{
		record("Backend Engineer", "https://example.com/jobs/1"),
		record("SRE", "https://example.com/jobs/2"),
	}

	ref, err := store.WriteBatch(ctx, written)
	require.NoError(t, err)
	assert.FileExists(t, ref)

	got, err := store.LatestBatch(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Backend Engineer", got[0].Title)
	assert.Equal(t, "https://example.com/jobs/2", got[1].ApplicationURL)
}

func TestLatestBatchNewestFirst(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.WriteBatch(ctx, []domain.JobDetail{record("Old Posting", "https://example.com/jobs/1")})
	require.NoError(t, err)

	// File names carry second-resolution timestamps; force distinct ones.
	time.Sleep(1100 * time.Millisecond)

	_, err = store.WriteBatch(ctx, []domain.JobDetail{record("New Posting", "https://example.com/jobs/1")})
	require.NoError(t, err)

	got, err := store.LatestBatch(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// The newer batch's record comes first, so a first-match scan picks the
	// most recent version of a reposted job.
	assert.Equal(t, "New Posting", got[0].Title)
	assert.Equal(t, "Old Posting", got[1].Title)
}

func TestLatestBatchEmptyDirectory(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	got, err := store.LatestBatch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLatestBatchSkipsMalformedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := New(dir, testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.WriteBatch(ctx, []domain.JobDetail{record("Good Posting", "https://example.com/jobs/1")})
	require.NoError(t, err)

	// A corrupt file sorted ahead of the good one must not poison the read.
	corrupt := filepath.Join(dir, "batch_99999999T999999_zzz.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))

	got, err := store.LatestBatch(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Good Posting", got[0].Title)
}

func TestWriteBatchCancelledContext(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.WriteBatch(ctx, []domain.JobDetail{record("Posting", "https://example.com/jobs/1")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCancelled)

	_, err = store.LatestBatch(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCancelled)
}
