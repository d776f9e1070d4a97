package settlement

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/meridian-erp/internal/money"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
)

// Handler exposes settlement endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers settlement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{kind}/{id}", h.getState)
	r.Post("/{kind}/{id}/payments", h.recordPayment)
	r.Post("/{kind}/{id}/refunds", h.recordRefund)
}

// kindFromPath accepts lowercase path segments like "sales-invoice".
func kindFromPath(raw string) (DocumentKind, bool) {
	kind := DocumentKind(strings.ToUpper(strings.ReplaceAll(raw, "-", "_")))
	return kind, kind.Valid()
}

func (h *Handler) params(w http.ResponseWriter, r *http.Request) (DocumentKind, int64, bool) {
	kind, ok := kindFromPath(chi.URLParam(r, "kind"))
	if !ok {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown document kind")
		return "", 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid document id")
		return "", 0, false
	}
	return kind, id, true
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.params(w, r)
	if !ok {
		return
	}
	state, err := h.service.GetState(r.Context(), kind, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewStateView(state))
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	h.recordEvent(w, r, DirectionPayment)
}

func (h *Handler) recordRefund(w http.ResponseWriter, r *http.Request) {
	h.recordEvent(w, r, DirectionRefund)
}

func (h *Handler) recordEvent(w http.ResponseWriter, r *http.Request, direction EventDirection) {
	kind, id, ok := h.params(w, r)
	if !ok {
		return
	}

	var req recordEventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amount must be a decimal string")
		return
	}

	var occurredAt time.Time
	if req.OccurredAt != "" {
		occurredAt, err = time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "occurred_at must be RFC3339")
			return
		}
	}

	state, err := h.service.RecordEvent(r.Context(), RecordEventInput{
		Kind:       kind,
		DocumentID: id,
		Direction:  direction,
		Amount:     amount,
		Method:     req.Method,
		Reference:  req.Reference,
		OccurredAt: occurredAt,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, NewStateView(state))
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "payable document not found")
	case errors.Is(err, ErrInvalidAmount):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Amount", "settlement amount must be positive")
	case errors.Is(err, ErrExceedsPayable):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Exceeds Payable", "payment exceeds the amount still due")
	case errors.Is(err, ErrExceedsRefundable):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Exceeds Refundable", "cannot refund more than was paid")
	case errors.Is(err, ErrDuplicateReference):
		httpx.Problem(w, http.StatusConflict, "Conflict", "event reference already recorded")
	case errors.Is(err, ErrUnknownKind), errors.Is(err, ErrUnknownDirection):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("settlement request failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
