package jobs

import (
	"context"
	"log/slog"

	"partnerdelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	DefaultStatusNormalizationSchedule = "0 */5 * * * *"
	normalizationBatchSize             = 100
	// maxNormalizationBatches bounds one run; the rest waits for the next tick.
	maxNormalizationBatches = 50
)

type ordersNormalizer interface {
	Handle(ctx context.Context, cmd commands.NormalizeOrdersCommand) (int, error)
}

// StatusNormalizationJob rewrites legacy order status spellings to the canonical ones in
// batches until none are left.
type StatusNormalizationJob struct {
	handler  ordersNormalizer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewStatusNormalizationJob(handler ordersNormalizer, schedule string, logger *slog.Logger) *StatusNormalizationJob {
	if schedule == "" {
		schedule = DefaultStatusNormalizationSchedule
	}
	return &StatusNormalizationJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "status_normalization_job"),
	}
}

func (j *StatusNormalizationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Status normalization job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running batch to finish.
func (j *StatusNormalizationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Status normalization job stopped")
}

// RunOnce normalizes batches until a short batch, an error or the per-run limit. It
// returns the number of orders rewritten.
func (j *StatusNormalizationJob) RunOnce(ctx context.Context) int {
	cmd, err := commands.NewNormalizeOrdersCommand(normalizationBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Status normalization job misconfigured", "error", err)
		return 0
	}

	total := 0
	for range maxNormalizationBatches {
		n, handleErr := j.handler.Handle(ctx, cmd)
		total += n
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Status normalization job failed", "normalized", total, "error", handleErr)
			return total
		}
		if n < normalizationBatchSize {
			break
		}
	}

	if total > 0 {
		j.logger.InfoContext(ctx, "Legacy orders normalized", "normalized", total)
	}
	return total
}
