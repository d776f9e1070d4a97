package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-erp/meridian-erp/internal/accounting"
	jobmetrics "github.com/meridian-erp/meridian-erp/internal/jobs"
	"github.com/meridian-erp/meridian-erp/internal/profitability"
)

// WarmupJob rebuilds the cached ledger and profitability reports so the
// first dashboard request of the day hits a warm cache.
type WarmupJob struct {
	ledger  *accounting.Service
	profit  *profitability.Service
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewWarmupJob constructs the warmup handler. Metrics may be nil.
func NewWarmupJob(ledger *accounting.Service, profit *profitability.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *WarmupJob {
	return &WarmupJob{ledger: ledger, profit: profit, logger: logger, metrics: metrics}
}

// Handle processes TaskReportWarmup tasks.
func (j *WarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track(TaskReportWarmup)
	return tracker.End(j.handle(ctx, t))
}

func (j *WarmupJob) handle(ctx context.Context, t *asynq.Task) error {
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	asOf, err := parseDate(payload.AsOf, time.Now().UTC())
	if err != nil {
		return asynq.SkipRetry
	}

	if _, err := j.ledger.TrialBalance(ctx, asOf); err != nil {
		j.logger.Error("warmup trial balance", slog.Any("error", err))
		return err
	}
	if _, err := j.ledger.BalanceSheet(ctx, asOf); err != nil {
		j.logger.Error("warmup balance sheet", slog.Any("error", err))
		return err
	}

	if payload.From != "" && payload.To != "" {
		from, err := parseDate(payload.From, time.Time{})
		if err != nil {
			return asynq.SkipRetry
		}
		to, err := parseDate(payload.To, time.Time{})
		if err != nil {
			return asynq.SkipRetry
		}
		period := profitability.DateRange{From: from, To: to.AddDate(0, 0, 1)}
		if _, err := j.profit.Report(ctx, period); err != nil {
			j.logger.Error("warmup profitability", slog.Any("error", err))
			return err
		}
	}

	j.logger.Info("report warmup complete", slog.String("as_of", asOf.Format("2006-01-02")))
	return nil
}

func parseDate(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}
