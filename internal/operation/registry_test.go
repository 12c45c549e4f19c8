package operation

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger returns a logger that discards output, keeping test logs quiet.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	// Eviction disabled; janitor behavior is tested separately.
	return NewRegistry(RegistryConfig{}, testLogger())
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, token := reg.Register(KindScrape)
	require.NotEqual(t, uuid.Nil, id)
	require.NotNil(t, token)
	assert.False(t, token.Cancelled())

	snap, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
	assert.Equal(t, KindScrape, snap.Kind)
	assert.Equal(t, StatusPending, snap.Status)
	assert.Equal(t, 0, snap.Progress)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.CreatedAt.IsZero())
	assert.Equal(t, snap.CreatedAt, snap.UpdatedAt)
}

func TestRegistryRegisterUniqueIDs(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 100; i++ {
		id, _ := reg.Register(KindMatch)
		require.False(t, seen[id], "registry issued a duplicate id")
		seen[id] = true
	}
	assert.Equal(t, 100, reg.Len())
}

func TestRegistryGetUnknown(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	_, err := reg.Get(uuid.New())
	assert.ErrorIs(t, err, ErrOperationNotFound)
}

func TestRegistryMarkRunning(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, _ := reg.Register(KindScrape)
	reg.markRunning(id)

	snap, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, snap.Status)

	// A second markRunning is a no-op, not a reset.
	reg.Report(id, 40, "working")
	reg.markRunning(id)
	snap, err = reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, snap.Status)
	assert.Equal(t, 40, snap.Progress)
}

func TestRegistryReport(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, _ := reg.Register(KindScrape)
	reg.markRunning(id)

	reg.Report(id, 25, "fetching page 1")
	snap, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 25, snap.Progress)
	assert.Equal(t, "fetching page 1", snap.Message)

	// An empty message keeps the previous one.
	reg.Report(id, 50, "")
	snap, err = reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 50, snap.Progress)
	assert.Equal(t, "fetching page 1", snap.Message)
}

func TestRegistryReportClampsOverflow(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, _ := reg.Register(KindScrape)
	reg.Report(id, 250, "overshoot")

	snap, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 100, snap.Progress)
}

func TestRegistryReportIgnoresRegression(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, _ := reg.Register(KindScrape)
	reg.Report(id, 60, "ahead")
	reg.Report(id, 30, "behind")

	snap, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 60, snap.Progress)
	// The message still updates even when the percent is held.
	assert.Equal(t, "behind", snap.Message)
}

func TestRegistryReportUnknownAndTerminal(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	// Unknown id must not panic; callbacks run inside worker code.
	reg.Report(uuid.New(), 10, "ghost")

	id, _ := reg.Register(KindScrape)
	reg.Complete(id, nil)
	reg.Report(id, 10, "late report")

	snap, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, 100, snap.Progress)
	assert.NotEqual(t, "late report", snap.Message)
}

func TestRegistryComplete(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, _ := reg.Register(KindMatch)
	reg.markRunning(id)
	reg.Complete(id, "batch-42")

	snap, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, 100, snap.Progress)
	assert.Equal(t, "batch-42", snap.Result)
	assert.Empty(t, snap.Error)
}

func TestRegistryFail(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, _ := reg.Register(KindMatch)
	reg.Fail(id, errors.New("upstream exploded"))

	snap, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "upstream exploded", snap.Error)
}

func TestRegistryFailNilError(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, _ := reg.Register(KindMatch)
	reg.Fail(id, nil)

	snap, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "unknown error", snap.Error)
}

func TestRegistryTerminalTransitionIsOneShot(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, _ := reg.Register(KindLetterSingle)
	reg.Cancel(id)

	// A cancelled operation never later reports completed or failed.
	reg.Complete(id, "too late")
	reg.Fail(id, errors.New("too late"))

	snap, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, snap.Status)
	assert.Nil(t, snap.Result)
	assert.Empty(t, snap.Error)
}

func TestRegistryRequestCancel(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, token := reg.Register(KindLetterBulk)
	require.False(t, token.Cancelled())

	assert.True(t, reg.RequestCancel(id))
	assert.True(t, token.Cancelled())

	// The operation stays non-terminal until the worker observes the token.
	snap, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, snap.Status)

	// Repeat requests while still non-terminal remain true.
	assert.True(t, reg.RequestCancel(id))
}

func TestRegistryRequestCancelTerminal(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, _ := reg.Register(KindScrape)
	reg.Complete(id, nil)

	assert.False(t, reg.RequestCancel(id))
	assert.False(t, reg.RequestCancel(uuid.New()))
}

func TestRegistryRequestCancelAll(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	_, active := reg.Register(KindScrape)
	doneID, done := reg.Register(KindMatch)
	reg.Complete(doneID, nil)

	reg.RequestCancelAll()

	assert.True(t, active.Cancelled())
	assert.False(t, done.Cancelled())
}

func TestRegistrySnapshotIsValueCopy(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, _ := reg.Register(KindScrape)
	before, err := reg.Get(id)
	require.NoError(t, err)

	reg.Report(id, 80, "almost there")

	// The earlier snapshot is unaffected by later mutation.
	assert.Equal(t, 0, before.Progress)
	assert.Empty(t, before.Message)
}

func TestRegistryEvictExpired(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(RegistryConfig{CompletedTTL: time.Hour}, testLogger())

	expiredID, _ := reg.Register(KindScrape)
	reg.Complete(expiredID, nil)

	freshID, _ := reg.Register(KindMatch)
	reg.Fail(freshID, errors.New("boom"))

	runningID, _ := reg.Register(KindLetterBulk)
	reg.markRunning(runningID)

	// Age only the first terminal entry past the TTL.
	reg.mu.Lock()
	reg.ops[expiredID].finishedAt = time.Now().UTC().Add(-2 * time.Hour)
	reg.mu.Unlock()

	evicted := reg.evictExpired(time.Now().UTC())
	assert.Equal(t, 1, evicted)

	_, err := reg.Get(expiredID)
	assert.ErrorIs(t, err, ErrOperationNotFound)

	_, err = reg.Get(freshID)
	assert.NoError(t, err)
	_, err = reg.Get(runningID)
	assert.NoError(t, err)
}

func TestRegistryStartStopIdempotent(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(RegistryConfig{
		CompletedTTL:  time.Hour,
		SweepInterval: time.Millisecond,
	}, testLogger())

	reg.Start()
	reg.Start()
	reg.Stop()
	reg.Stop()
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	id, _ := reg.Register(KindScrape)
	reg.markRunning(id)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i <= 100; i++ {
			reg.Report(id, i, "step")
		}
	}()

	// Reads race against the writer; the data race detector is the real
	// assertion here. Snapshots must still be internally consistent.
	for i := 0; i < 100; i++ {
		snap, err := reg.Get(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, snap.Progress, 0)
		assert.LessOrEqual(t, snap.Progress, 100)
	}
	<-done
}
