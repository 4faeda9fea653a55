package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAnalyticsWarmup refreshes the cached request analytics summary.
	TaskAnalyticsWarmup = "analytics:warmup"
)

// AnalyticsWarmupPayload parameterizes a warmup run.
type AnalyticsWarmupPayload struct {
	Reason string `json:"reason"`
}

// NewAnalyticsWarmupTask constructs an Asynq task for the warmup job.
func NewAnalyticsWarmupTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(AnalyticsWarmupPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsWarmup, data), nil
}
