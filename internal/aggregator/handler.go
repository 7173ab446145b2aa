package aggregator

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/amanah-zis/amanah-zis/internal/platform/httpx"
	"github.com/amanah-zis/amanah-zis/internal/shared"
)

// Handler wires HTTP endpoints for aggregator accounts.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type creditRequest struct {
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	DocumentID string `json:"documentId,omitempty" validate:"omitempty,uuid"`
	Date       string `json:"date,omitempty"`
}

type accountResponse struct {
	ID      string `json:"id"`
	DonorID string `json:"donorId"`
	Balance int64  `json:"balance"`
}

func toAccountResponse(account Account) accountResponse {
	return accountResponse{
		ID:      account.ID.String(),
		DonorID: account.DonorID.String(),
		Balance: account.Balance,
	}
}

// Credit records one micro-donation against the donor's pooled balance.
func (h *Handler) Credit(w http.ResponseWriter, r *http.Request) {
	donorID, err := uuid.Parse(chi.URLParam(r, "donorId"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid donor id")
		return
	}
	var req creditRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := CreditInput{DonorID: donorID, Amount: req.Amount}
	if req.DocumentID != "" {
		input.DocumentID = uuid.MustParse(req.DocumentID)
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid date, want YYYY-MM-DD")
			return
		}
		input.Date = date
	}
	account, err := h.service.Credit(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAccountResponse(account))
}

// Get returns the donor's pooled balance.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	donorID, err := uuid.Parse(chi.URLParam(r, "donorId"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid donor id")
		return
	}
	account, err := h.service.Get(r.Context(), donorID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAccountResponse(account))
}

// MountRoutes registers aggregator routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/accounts/{donorId}/credit", h.Credit)
	r.Get("/accounts/{donorId}", h.Get)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidAmount):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInsufficientFunds):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Insufficient Funds", err.Error())
	case errors.Is(err, shared.ErrConcurrencyConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("aggregator request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
