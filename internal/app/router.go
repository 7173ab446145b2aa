package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amanah-zis/amanah-zis/internal/aggregator"
	"github.com/amanah-zis/amanah-zis/internal/bulk"
	"github.com/amanah-zis/amanah-zis/internal/ledger"
	"github.com/amanah-zis/amanah-zis/internal/observability"
	"github.com/amanah-zis/amanah-zis/internal/report"
	"github.com/amanah-zis/amanah-zis/internal/transfer"
	"github.com/amanah-zis/amanah-zis/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Pool              *pgxpool.Pool
	AggregatorHandler *aggregator.Handler
	LedgerHandler     *ledger.Handler
	BulkHandler       *bulk.Handler
	TransferHandler   *transfer.Handler
	ReportHandler     *report.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/ledger", func(lr chi.Router) {
		if params.LedgerHandler != nil {
			params.LedgerHandler.MountRoutes(lr)
		}
		if params.BulkHandler != nil {
			lr.Post("/transactions/bulk", params.BulkHandler.PostBulk)
		}
	})

	if params.AggregatorHandler != nil {
		r.Route("/aggregator", params.AggregatorHandler.MountRoutes)
	}

	if params.TransferHandler != nil {
		r.Route("/transfers", params.TransferHandler.MountRoutes)
	}

	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
