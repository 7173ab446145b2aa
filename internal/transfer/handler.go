package transfer

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/amanah-zis/amanah-zis/internal/platform/httpx"
	"github.com/amanah-zis/amanah-zis/internal/shared"
)

// Handler wires HTTP endpoints for the transfer module.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type createTransferRequest struct {
	SourceID        string `json:"sourceId" validate:"required,uuid"`
	SourceName      string `json:"sourceName"`
	DestinationID   string `json:"destinationId" validate:"required,uuid"`
	DestinationName string `json:"destinationName"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
	Type            string `json:"type" validate:"required,oneof=aggregator_to_wallet wallet_to_wallet"`
	Proof           []byte `json:"proof,omitempty"`
	ProofURL        string `json:"proofUrl,omitempty"`
}

type queueItemResponse struct {
	ID              string `json:"id"`
	SourceID        string `json:"sourceId"`
	SourceName      string `json:"sourceName"`
	DestinationID   string `json:"destinationId"`
	DestinationName string `json:"destinationName"`
	Amount          int64  `json:"amount"`
	TransferAmount  int64  `json:"transferAmount"`
	Status          string `json:"status"`
	Type            string `json:"type"`
	ProofURL        string `json:"proofUrl,omitempty"`
	ProofChecksum   string `json:"proofChecksum,omitempty"`
}

type transferResponse struct {
	QueueID string        `json:"queueId"`
	State   TransferState `json:"state"`
}

func toQueueItemResponse(item QueueItem) queueItemResponse {
	return queueItemResponse{
		ID:              item.ID.String(),
		SourceID:        item.SourceID.String(),
		SourceName:      item.SourceName,
		DestinationID:   item.DestinationID.String(),
		DestinationName: item.DestinationName,
		Amount:          item.Amount,
		TransferAmount:  item.TransferAmount,
		Status:          string(item.Status),
		Type:            string(item.Type),
		ProofURL:        item.ProofURL,
		ProofChecksum:   item.ProofChecksum,
	}
}

// Create enqueues a transfer and executes it synchronously. The response
// status mirrors the transfer state's status code.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := CreateInput{
		SourceID:        uuid.MustParse(req.SourceID),
		SourceName:      req.SourceName,
		DestinationID:   uuid.MustParse(req.DestinationID),
		DestinationName: req.DestinationName,
		Amount:          req.Amount,
		Type:            Type(req.Type),
		Proof:           req.Proof,
		ProofURL:        req.ProofURL,
	}
	item, state, err := h.service.CreateAndExecute(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logger.Info("transfer executed",
		slog.String("queue_id", item.ID.String()),
		slog.String("status", string(item.Status)),
		slog.Int64("transfer_amount", item.TransferAmount))
	httpx.JSON(w, state.StatusCode, transferResponse{QueueID: item.ID.String(), State: state})
}

// Execute runs an already-enqueued pending item.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid queue item id")
		return
	}
	state, err := h.service.Execute(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, state.StatusCode, transferResponse{QueueID: id.String(), State: state})
}

// Resubmit clones a failed item into a new pending row.
func (h *Handler) Resubmit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid queue item id")
		return
	}
	item, err := h.service.Resubmit(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toQueueItemResponse(item))
}

// Get returns one queue item.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid queue item id")
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toQueueItemResponse(item))
}

// List returns queue items, optionally filtered by status.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Status: Status(r.URL.Query().Get("status"))}
	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]queueItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toQueueItemResponse(item))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrQueueItemNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrQueueItemNotPending), errors.Is(err, ErrNotResubmittable):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrTransferInFlight), errors.Is(err, shared.ErrConcurrencyConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrUnknownType), errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("transfer request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
