package report

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amanah-zis/amanah-zis/internal/platform/httpx"
)

// Handler serves the reporting endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Balances serves the aggregate balance report.
func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Balances(r.Context())
	if err != nil {
		h.logger.Error("balance report failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/balances", h.Balances)
}
