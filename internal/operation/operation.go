package operation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Kind identifies what a background operation does.
type Kind string

// Possible operation kinds
const (
	KindScrape       Kind = "scrape"
	KindMatch        Kind = "match"
	KindLetterSingle Kind = "letter_single"
	KindLetterBulk   Kind = "letter_bulk"
	KindEmailBulk    Kind = "email_bulk"
)

// Valid reports whether k is a recognized operation kind.
func (k Kind) Valid() bool {
	switch k {
	case KindScrape, KindMatch, KindLetterSingle, KindLetterBulk, KindEmailBulk:
		return true
	}
	return false
}

// Status represents the lifecycle state of an operation.
type Status string

// Possible operation status values. Pending and running are transient;
// completed, failed and cancelled are terminal and final.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Errors returned by the registry.
var (
	// ErrOperationNotFound is returned when a status or cancel query names
	// an id the registry does not know, including ids already evicted.
	ErrOperationNotFound = errors.New("operation not found")

	// ErrAllItemsFailed is returned by the bulk runner when every single
	// item in a batch failed, which is the only per-item condition that
	// fails the parent operation.
	ErrAllItemsFailed = errors.New("all bulk items failed")
)

// Snapshot is a value copy of an operation's state at one point in time.
// Callers never receive a live reference into the registry; a snapshot may
// be slightly stale but is never torn.
type Snapshot struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message,omitempty"`
	Result    any       `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BulkItemResult records the outcome of one item within a bulk operation.
type BulkItemResult struct {
	Key         string `json:"key"`
	Success     bool   `json:"success"`
	ErrorDetail string `json:"error_detail,omitempty"`
	OutputRef   string `json:"output_ref,omitempty"`
}

// BulkResult aggregates the per-item outcomes of a bulk operation. Items
// appear in original submission order regardless of completion order, so a
// caller can line results up against its request and retry only failures.
type BulkResult struct {
	Items        []BulkItemResult `json:"items"`
	SuccessCount int              `json:"success_count"`
	FailureCount int              `json:"failure_count"`
	Errors       []string         `json:"errors"`
}
