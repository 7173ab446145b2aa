package ledger

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

// Handler wires HTTP endpoints for the ledger store.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type postTransactionRequest struct {
	WalletID         string `json:"walletId,omitempty" validate:"omitempty,uuid"`
	SourceKind       string `json:"sourceKind" validate:"required"`
	SourceDocumentID string `json:"sourceDocumentId,omitempty" validate:"omitempty,uuid"`
	Amount           int64  `json:"amount" validate:"required,gt=0"`
	Date             string `json:"date,omitempty"`
	Description      string `json:"description,omitempty"`
}

type createWalletRequest struct {
	OrganizationID string `json:"organizationId" validate:"required,uuid"`
	Kind           string `json:"kind" validate:"required,oneof=zakat infaq amil non_halal aggregator"`
}

type transactionResponse struct {
	ID               string `json:"id"`
	WalletID         string `json:"walletId,omitempty"`
	SourceKind       string `json:"sourceKind"`
	SourceDocumentID string `json:"sourceDocumentId"`
	Amount           int64  `json:"amount"`
	Date             string `json:"date"`
	Description      string `json:"description,omitempty"`
}

type walletResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Kind           string `json:"kind"`
	Balance        int64  `json:"balance"`
}

func toTransactionResponse(txn Transaction) transactionResponse {
	resp := transactionResponse{
		ID:               txn.ID.String(),
		SourceKind:       string(txn.Source.Kind),
		SourceDocumentID: txn.Source.DocumentID.String(),
		Amount:           txn.Amount,
		Date:             txn.Date.Format(time.RFC3339),
		Description:      txn.Description,
	}
	if txn.WalletID != nil {
		resp.WalletID = txn.WalletID.String()
	}
	return resp
}

// PostTransaction records a single ledger entry.
func (h *Handler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	var req postTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := PostInput{
		Source:      SourceDocument{Kind: SourceKind(req.SourceKind)},
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.WalletID != "" {
		id := uuid.MustParse(req.WalletID)
		input.WalletID = &id
	}
	if req.SourceDocumentID != "" {
		input.Source.DocumentID = uuid.MustParse(req.SourceDocumentID)
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid date, want YYYY-MM-DD")
			return
		}
		input.Date = date
	}
	txn, err := h.service.PostTransaction(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toTransactionResponse(txn))
}

// CreateWallet provisions a wallet for an organization.
func (h *Handler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	wallet, err := h.service.CreateWallet(r.Context(), CreateWalletInput{
		OrganizationID: uuid.MustParse(req.OrganizationID),
		Kind:           WalletKind(req.Kind),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, walletResponse{
		ID:             wallet.ID.String(),
		OrganizationID: wallet.OrganizationID.String(),
		Kind:           string(wallet.Kind),
		Balance:        wallet.Balance,
	})
}

// GetWallet returns a wallet with its current balance.
func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid wallet id")
		return
	}
	wallet, err := h.service.GetWallet(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, walletResponse{
		ID:             wallet.ID.String(),
		OrganizationID: wallet.OrganizationID.String(),
		Kind:           string(wallet.Kind),
		Balance:        wallet.Balance,
	})
}

// ListWalletTransactions lists a wallet's ledger entries.
func (h *Handler) ListWalletTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid wallet id")
		return
	}
	filter := TransactionFilter{WalletID: id}
	q := r.URL.Query()
	if from := q.Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = t
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = t.Add(24*time.Hour - time.Nanosecond)
		}
	}
	txns, err := h.service.ListTransactions(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]transactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, toTransactionResponse(txn))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrWalletNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrUnknownSourceKind), errors.Is(err, ErrUnknownWalletKind):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInsufficientFunds):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Insufficient Funds", err.Error())
	case errors.Is(err, shared.ErrConcurrencyConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("ledger request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
