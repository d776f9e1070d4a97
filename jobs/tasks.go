// Package jobs wires background report warmup through Asynq.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup pre-builds ledger and profitability report caches.
	TaskReportWarmup = "report:warmup"
)

// ReportWarmupPayload scopes one warmup run. Dates are YYYY-MM-DD; AsOf
// drives the ledger reports, From/To the profitability window.
type ReportWarmupPayload struct {
	AsOf string `json:"as_of"`
	From string `json:"from"`
	To   string `json:"to"`
}

// NewReportWarmupTask constructs an Asynq task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}
