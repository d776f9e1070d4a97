package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-erp/meridian-erp/internal/accounting"
	"github.com/meridian-erp/meridian-erp/internal/observability"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/profitability"
	"github.com/meridian-erp/meridian-erp/internal/settlement"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	Metrics              *observability.Metrics
	SettlementHandler    *settlement.Handler
	LedgerHandler        *accounting.Handler
	ProfitabilityHandler *profitability.Handler
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	requestTimeout := 30 * time.Second
	if params.Config != nil && params.Config.AppRequestTimeout > 0 {
		requestTimeout = params.Config.AppRequestTimeout
	}
	r.Use(chimw.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/payables", params.SettlementHandler.MountRoutes)
		r.Route("/ledger", params.LedgerHandler.MountRoutes)
		r.Route("/reports", params.ProfitabilityHandler.MountRoutes)
	})

	return r
}
