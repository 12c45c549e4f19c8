package operation

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RegistryConfig holds configuration for the operation registry.
type RegistryConfig struct {
	// CompletedTTL is how long terminal operations remain queryable before
	// the janitor evicts them. Zero or negative disables eviction.
	CompletedTTL time.Duration

	// SweepInterval is how often the janitor scans for evictable entries.
	// If zero, defaults to a quarter of CompletedTTL.
	SweepInterval time.Duration
}

// DefaultRegistryConfig returns a RegistryConfig with reasonable defaults.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		CompletedTTL:  time.Hour,
		SweepInterval: 15 * time.Minute,
	}
}

// entry pairs an operation's state with its cancellation token. Every
// mutation of snap happens under mu, so readers copying snap under mu never
// observe a partially written update.
type entry struct {
	mu         sync.Mutex
	snap       Snapshot
	token      *Token
	finishedAt time.Time
}

// Registry is the shared concurrent map of operation id to status record.
// It owns every lifecycle transition; workers and the web layer only reach
// operation state through its methods. It is the single piece of shared
// mutable state in the orchestrator.
type Registry struct {
	mu     sync.RWMutex
	ops    map[uuid.UUID]*entry
	config RegistryConfig
	logger *slog.Logger

	janitorStop chan struct{}
	janitorDone chan struct{}
	startOnce   sync.Once
	stopOnce    sync.Once
}

// NewRegistry creates a new, empty operation registry. Call Start to begin
// evicting old terminal entries and Stop on shutdown.
func NewRegistry(config RegistryConfig, logger *slog.Logger) *Registry {
	if config.SweepInterval <= 0 && config.CompletedTTL > 0 {
		config.SweepInterval = config.CompletedTTL / 4
	}

	return &Registry{
		ops:         make(map[uuid.UUID]*entry),
		config:      config,
		logger:      logger.With("component", "operation_registry"),
		janitorStop: make(chan struct{}),
		janitorDone: make(chan struct{}),
	}
}

// Register creates a new pending operation of the given kind and returns
// its id along with the cancellation token wired to it. Ids are fresh UUIDs
// and never reused.
func (r *Registry) Register(kind Kind) (uuid.UUID, *Token) {
	id := uuid.New()
	now := time.Now().UTC()

	e := &entry{
		snap: Snapshot{
			ID:        id,
			Kind:      kind,
			Status:    StatusPending,
			Progress:  0,
			CreatedAt: now,
			UpdatedAt: now,
		},
		token: newToken(),
	}

	r.mu.Lock()
	r.ops[id] = e
	r.mu.Unlock()

	r.logger.Debug("operation registered", "operation_id", id, "kind", kind)
	return id, e.token
}

// lookup returns the entry for id, or nil if unknown or evicted.
func (r *Registry) lookup(id uuid.UUID) *entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ops[id]
}

// markRunning transitions a pending operation to running. Called by the
// launcher when the worker goroutine picks the task up.
func (r *Registry) markRunning(id uuid.UUID) {
	e := r.lookup(id)
	if e == nil {
		r.logger.Warn("markRunning on unknown operation", "operation_id", id)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap.Status != StatusPending {
		r.logger.Warn("markRunning on operation not pending",
			"operation_id", id, "status", e.snap.Status)
		return
	}

	e.snap.Status = StatusRunning
	e.snap.UpdatedAt = time.Now().UTC()
}

// Report records task progress. Progress is clamped to 0-100 and never
// moves backwards; a regression is logged and ignored. Reports against an
// unknown or already terminal operation are logged warnings, never errors:
// progress callbacks run inside worker code that must not trip over a stale
// id.
func (r *Registry) Report(id uuid.UUID, progress int, message string) {
	e := r.lookup(id)
	if e == nil {
		r.logger.Warn("progress report for unknown operation", "operation_id", id)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap.Status.Terminal() {
		r.logger.Warn("progress report for terminal operation",
			"operation_id", id, "status", e.snap.Status)
		return
	}

	if progress > 100 {
		progress = 100
	}
	if progress < e.snap.Progress {
		r.logger.Warn("ignoring progress regression",
			"operation_id", id,
			"current", e.snap.Progress,
			"reported", progress)
		progress = e.snap.Progress
	}

	e.snap.Progress = progress
	if message != "" {
		e.snap.Message = message
	}
	e.snap.UpdatedAt = time.Now().UTC()
}

// Complete transitions the operation to completed and attaches its result.
// A second terminal transition on the same id is logged and ignored.
func (r *Registry) Complete(id uuid.UUID, result any) {
	r.finish(id, StatusCompleted, func(e *entry) {
		e.snap.Progress = 100
		e.snap.Result = result
	})
}

// Fail transitions the operation to failed and records the error message.
func (r *Registry) Fail(id uuid.UUID, err error) {
	r.finish(id, StatusFailed, func(e *entry) {
		if err != nil {
			e.snap.Error = err.Error()
		} else {
			e.snap.Error = "unknown error"
		}
	})
}

// Cancel transitions the operation to cancelled. A cancelled operation
// never later reports completed.
func (r *Registry) Cancel(id uuid.UUID) {
	r.finish(id, StatusCancelled, func(e *entry) {
		e.snap.Message = "operation cancelled"
	})
}

// finish applies a one-shot terminal transition. mutate runs under the
// entry lock after the status gate passes.
func (r *Registry) finish(id uuid.UUID, status Status, mutate func(*entry)) {
	e := r.lookup(id)
	if e == nil {
		r.logger.Warn("terminal transition for unknown operation",
			"operation_id", id, "target_status", status)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap.Status.Terminal() {
		r.logger.Warn("duplicate terminal transition ignored",
			"operation_id", id,
			"status", e.snap.Status,
			"target_status", status)
		return
	}

	e.snap.Status = status
	e.snap.UpdatedAt = time.Now().UTC()
	e.finishedAt = e.snap.UpdatedAt
	mutate(e)

	r.logger.Info("operation finished",
		"operation_id", id,
		"kind", e.snap.Kind,
		"status", status)
}

// RequestCancel flags the operation's cancellation token. It returns true
// iff the operation was still cancellable, i.e. known and not yet terminal.
// The operation itself transitions to cancelled only once its worker
// observes the token and unwinds.
func (r *Registry) RequestCancel(id uuid.UUID) bool {
	e := r.lookup(id)
	if e == nil {
		r.logger.Warn("cancel request for unknown operation", "operation_id", id)
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap.Status.Terminal() {
		return false
	}

	e.token.cancel()
	r.logger.Info("cancellation requested", "operation_id", id, "kind", e.snap.Kind)
	return true
}

// RequestCancelAll flags the token of every non-terminal operation. Used
// during shutdown so in-flight workers unwind at their next checkpoint.
func (r *Registry) RequestCancelAll() {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.ops))
	for _, e := range r.ops {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	for _, e := range entries {
		e.mu.Lock()
		if !e.snap.Status.Terminal() {
			e.token.cancel()
		}
		e.mu.Unlock()
	}
}

// Get returns a value copy of the operation's current state, or
// ErrOperationNotFound for unknown and evicted ids.
func (r *Registry) Get(id uuid.UUID) (Snapshot, error) {
	e := r.lookup(id)
	if e == nil {
		return Snapshot{}, ErrOperationNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap, nil
}

// Start launches the eviction janitor. Safe to call once; a registry with
// eviction disabled ignores it.
func (r *Registry) Start() {
	if r.config.CompletedTTL <= 0 {
		return
	}

	r.startOnce.Do(func() {
		go r.janitor()
	})
}

// Stop halts the eviction janitor. Operations already registered remain
// queryable until process exit.
func (r *Registry) Stop() {
	if r.config.CompletedTTL <= 0 {
		return
	}

	r.stopOnce.Do(func() {
		close(r.janitorStop)
		<-r.janitorDone
	})
}

// janitor periodically evicts terminal operations older than the
// configured TTL, bounding registry memory over long uptimes.
func (r *Registry) janitor() {
	defer close(r.janitorDone)

	ticker := time.NewTicker(r.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.janitorStop:
			return
		case <-ticker.C:
			evicted := r.evictExpired(time.Now().UTC())
			if evicted > 0 {
				r.logger.Info("evicted expired operations", "count", evicted)
			}
		}
	}
}

// evictExpired removes terminal entries whose finish time is older than the
// TTL relative to now. Returns the number of entries removed.
func (r *Registry) evictExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.ops {
		e.mu.Lock()
		expired := e.snap.Status.Terminal() &&
			now.Sub(e.finishedAt) > r.config.CompletedTTL
		e.mu.Unlock()

		if expired {
			delete(r.ops, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of operations currently tracked.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}
