package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	statusNormalizationJob *StatusNormalizationJob
	capAuditJob            *ActiveOrderCapAuditJob
}

// Schedules are six-field cron expressions (seconds first). Empty fields take the job
// defaults.
type Schedules struct {
	StatusNormalization string
	CapAudit            string
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	normalizer ordersNormalizer,
	overCap overCapReader,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		statusNormalizationJob: NewStatusNormalizationJob(normalizer, schedules.StatusNormalization, logger),
		capAuditJob:            NewActiveOrderCapAuditJob(overCap, schedules.CapAudit, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.statusNormalizationJob.Start(); err != nil {
		return fmt.Errorf("failed to start status normalization job: %w", err)
	}

	if err := jm.capAuditJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.statusNormalizationJob.Stop()
		return fmt.Errorf("failed to start active order cap audit job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.capAuditJob.Stop()
	jm.statusNormalizationJob.Stop()
}
