package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jcarver/jobagent/internal/api/shared"
	"github.com/jcarver/jobagent/internal/domain"
	"github.com/jcarver/jobagent/internal/operation"
	"github.com/jcarver/jobagent/internal/service"
)

// OperationHandler handles operation-related HTTP requests.
type OperationHandler struct {
	service   *service.OperationService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(svc *service.OperationService, logger *slog.Logger) *OperationHandler {
	return &OperationHandler{
		service:   svc,
		validator: validator.New(),
		logger:    logger.With("component", "operation_handler"),
	}
}

// Routes mounts the operation endpoints on a chi router.
func (h *OperationHandler) Routes(r chi.Router) {
	r.Post("/operations", h.StartOperation)
	r.Get("/operations/{id}", h.GetOperation)
	r.Post("/operations/{id}/cancel", h.CancelOperation)
}

// StartOperation handles POST /api/operations. It dispatches on the
// requested kind and returns 202 Accepted with the new operation id; the
// caller polls for completion.
func (h *OperationHandler) StartOperation(w http.ResponseWriter, r *http.Request) {
	var req StartOperationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	kind := operation.Kind(req.Kind)
	if !kind.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown operation kind: "+req.Kind)
		return
	}

	profile := domain.CandidateProfile{}
	if req.Profile != nil {
		profile = domain.CandidateProfile{
			Name:    req.Profile.Name,
			Email:   req.Profile.Email,
			CVText:  req.Profile.CVText,
			Summary: req.Profile.Summary,
		}
	}

	var (
		id  uuid.UUID
		err error
	)

	switch kind {
	case operation.KindScrape:
		id, err = h.service.StartScrape(service.ScrapeParams{URLs: req.URLs})
	case operation.KindMatch:
		id, err = h.service.StartMatch(service.MatchParams{URLs: req.URLs, Profile: profile})
	case operation.KindLetterSingle:
		id, err = h.service.StartLetter(service.LetterParams{
			URL:        req.URL,
			ManualText: req.ManualText,
			Profile:    profile,
		})
	case operation.KindLetterBulk:
		id, err = h.service.StartLetterBulk(service.BulkParams{URLs: req.URLs, Profile: profile})
	case operation.KindEmailBulk:
		id, err = h.service.StartEmailBulk(service.BulkParams{URLs: req.URLs, Profile: profile})
	}

	if err != nil {
		h.logger.Warn("failed to start operation", "kind", kind, "error", err)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, StartOperationResponse{
		OperationID: id.String(),
		Kind:        string(kind),
	})
}

// GetOperation handles GET /api/operations/{id}.
func (h *OperationHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.operationID(w, r)
	if !ok {
		return
	}

	snap, err := h.service.GetStatus(id)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(snap))
}

// CancelOperation handles POST /api/operations/{id}/cancel. The response
// reports whether the operation was still cancellable; the caller observes
// the actual transition to cancelled by polling.
func (h *OperationHandler) CancelOperation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.operationID(w, r)
	if !ok {
		return
	}

	cancelled, err := h.service.CancelOperation(id)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CancelOperationResponse{Cancelled: cancelled})
}

// operationID parses the {id} path parameter, responding with 400 on
// malformed ids.
func (h *OperationHandler) operationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")

	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid operation id")
		return uuid.Nil, false
	}

	return id, true
}
