package jobs

import (
	"context"
	"log/slog"

	"partnerdelivery/internal/core/application/usecases/queries"
	"partnerdelivery/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
)

const DefaultCapAuditSchedule = "0 */15 * * * *"

type overCapReader interface {
	Handle(ctx context.Context, query queries.GetOverCapPartnersQuery) ([]queries.GetOverCapPartnersQueryResponse, error)
}

// ActiveOrderCapAuditJob reports partners holding more active orders than the cap. The
// cap check runs apart from the claim, so concurrent claims can overshoot it; the job only
// makes that visible.
type ActiveOrderCapAuditJob struct {
	reader   overCapReader
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewActiveOrderCapAuditJob(reader overCapReader, schedule string, logger *slog.Logger) *ActiveOrderCapAuditJob {
	if schedule == "" {
		schedule = DefaultCapAuditSchedule
	}
	return &ActiveOrderCapAuditJob{
		reader:   reader,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "active_order_cap_audit_job"),
	}
}

func (j *ActiveOrderCapAuditJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Active order cap audit job started", "schedule", j.schedule)
	return nil
}

func (j *ActiveOrderCapAuditJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Active order cap audit job stopped")
}

// RunOnce logs one warning per partner over the cap and returns how many there were.
func (j *ActiveOrderCapAuditJob) RunOnce(ctx context.Context) int {
	overCap, err := j.reader.Handle(ctx, queries.NewGetOverCapPartnersQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Active order cap audit failed", "error", err)
		return 0
	}

	for _, p := range overCap {
		j.logger.WarnContext(ctx, "Partner above active order cap",
			"partner_id", p.PartnerID, "active_orders", p.ActiveOrders, "cap", order.MaxActiveOrdersPerPartner)
	}
	return len(overCap)
}
