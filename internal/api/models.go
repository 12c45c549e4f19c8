package api

import (
	"time"

	"github.com/jcarver/jobagent/internal/operation"
)

// ProfileRequest carries the candidate profile fields accepted over the
// wire.
type ProfileRequest struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	CVText  string `json:"cv_text" validate:"required,min=1"`
	Summary string `json:"summary,omitempty"`
}

// StartOperationRequest is the body of POST /api/operations.
type StartOperationRequest struct {
	Kind       string          `json:"kind" validate:"required"`
	URLs       []string        `json:"urls,omitempty" validate:"omitempty,dive,url"`
	URL        string          `json:"url,omitempty" validate:"omitempty,url"`
	ManualText string          `json:"manual_text,omitempty"`
	Profile    *ProfileRequest `json:"profile,omitempty"`
}

// StartOperationResponse is returned with 202 Accepted when an operation
// has been launched.
type StartOperationResponse struct {
	OperationID string `json:"operation_id"`
	Kind        string `json:"kind"`
}

// OperationStatusResponse is the polled status representation. Status,
// progress and message evolve until the operation is terminal, at which
// point result or error is fixed.
type OperationStatusResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message,omitempty"`
	Result    any       `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CancelOperationResponse is the body of a cancel call.
type CancelOperationResponse struct {
	Cancelled bool `json:"cancelled"`
}

// snapshotToResponse converts a registry snapshot to its wire form.
func snapshotToResponse(snap operation.Snapshot) OperationStatusResponse {
	return OperationStatusResponse{
		ID:        snap.ID.String(),
		Kind:      string(snap.Kind),
		Status:    string(snap.Status),
		Progress:  snap.Progress,
		Message:   snap.Message,
		Result:    snap.Result,
		Error:     snap.Error,
		CreatedAt: snap.CreatedAt,
		UpdatedAt: snap.UpdatedAt,
	}
}
