package profitability

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/export"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
)

var errBadPeriod = errors.New("from and to must be YYYY-MM-DD with from <= to")

// Handler exposes the profitability report endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers profitability routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/profitability", h.report)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	period, err := periodParams(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	report, err := h.service.Report(r.Context(), period)
	if err != nil {
		h.logger.Error("profitability report failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		httpx.CSV(w, "profitability-"+period.From.Format("2006-01-02")+".csv")
		if err := export.WriteProfitabilityCSV(w, report); err != nil {
			h.logger.Error("profitability csv", slog.Any("error", err))
		}
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// periodParams parses ?from=YYYY-MM-DD&to=YYYY-MM-DD into a half-open
// range; to is advanced one day so the named end date is included.
func periodParams(r *http.Request) (DateRange, error) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		return DateRange{}, errBadPeriod
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		return DateRange{}, errBadPeriod
	}
	if to.Before(from) {
		return DateRange{}, errBadPeriod
	}
	return DateRange{From: from, To: to.AddDate(0, 0, 1)}, nil
}
