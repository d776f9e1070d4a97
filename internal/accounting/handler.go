package accounting

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/accounting/accounts"
	"github.com/meridian-erp/meridian-erp/internal/export"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
)

// Handler exposes ledger report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/trial-balance", h.trialBalance)
	r.Get("/balance-sheet", h.balanceSheet)
}

// asOfParam parses ?as_of=YYYY-MM-DD, defaulting to today.
func asOfParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", raw)
}

func (h *Handler) trialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, err := asOfParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "as_of must be YYYY-MM-DD")
		return
	}
	report, err := h.service.TrialBalance(r.Context(), asOf)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		httpx.CSV(w, "trial-balance-"+dateKey(asOf)+".csv")
		if err := export.WriteTrialBalanceCSV(w, report); err != nil {
			h.logger.Error("trial balance csv", slog.Any("error", err))
		}
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, err := asOfParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "as_of must be YYYY-MM-DD")
		return
	}
	report, err := h.service.BalanceSheet(r.Context(), asOf)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		httpx.CSV(w, "balance-sheet-"+dateKey(asOf)+".csv")
		if err := export.WriteBalanceSheetCSV(w, report); err != nil {
			h.logger.Error("balance sheet csv", slog.Any("error", err))
		}
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, accounts.ErrCycleDetected),
		errors.Is(err, accounts.ErrOrphanParent),
		errors.Is(err, accounts.ErrDuplicateID):
		// Malformed chart of accounts is upstream data corruption; surface
		// it as unprocessable rather than a blank 500.
		httpx.Problem(w, http.StatusUnprocessableEntity, "Malformed Chart of Accounts", err.Error())
	default:
		h.logger.Error("ledger report failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
