package bulk

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/amanah-zis/amanah-zis/internal/ledger"
	"github.com/amanah-zis/amanah-zis/internal/platform/httpx"
)

// Handler wires the bulk posting endpoint.
type Handler struct {
	logger    *slog.Logger
	reporter  *Reporter
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, reporter *Reporter) *Handler {
	return &Handler{logger: logger, reporter: reporter, validator: validator.New()}
}

type postItemRequest struct {
	WalletID         string `json:"walletId,omitempty" validate:"omitempty,uuid"`
	SourceKind       string `json:"sourceKind" validate:"required"`
	SourceDocumentID string `json:"sourceDocumentId,omitempty" validate:"omitempty,uuid"`
	Amount           int64  `json:"amount"`
	Date             string `json:"date,omitempty"`
	Description      string `json:"description,omitempty"`
}

// PostBulk accepts a list of ledger postings and responds 207 Multi-Status
// with one result per input row. Rows that fail request-shape validation are
// reported in place; they never abort the batch.
func (h *Handler) PostBulk(w http.ResponseWriter, r *http.Request) {
	var reqs []postItemRequest
	if err := httpx.DecodeJSON(r, &reqs); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}

	results := make([]ItemResult, len(reqs))
	inputs := make([]*ledger.PostInput, len(reqs))
	for i, req := range reqs {
		input, err := h.toInput(req)
		if err != nil {
			results[i] = ItemResult{Index: i, Status: StatusFailed, Reason: ReasonValidation, Message: err.Error()}
			continue
		}
		inputs[i] = &input
	}
	for i, input := range inputs {
		if input == nil {
			continue
		}
		results[i] = h.reporter.postOne(r.Context(), i, *input)
	}

	h.logger.Info("bulk posting processed",
		slog.Int("items", len(results)),
		slog.Bool("has_failures", HasFailures(results)))
	httpx.JSON(w, http.StatusMultiStatus, results)
}

func (h *Handler) toInput(req postItemRequest) (ledger.PostInput, error) {
	if err := h.validator.Struct(req); err != nil {
		return ledger.PostInput{}, err
	}
	input := ledger.PostInput{
		Source:      ledger.SourceDocument{Kind: ledger.SourceKind(req.SourceKind)},
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
			return ledger.PostInput{}, err
		}
		input.Date = date
	}
	return input, nil
}
