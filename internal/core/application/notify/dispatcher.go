// Package notify turns committed aggregate writes into live-feed changes and integration
// events.
package notify

import (
	"context"
	"log/slog"
	"time"

	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/core/ports"
)

// Dispatcher is a ports.CommitObserver. Either collaborator may be nil to disable it.
// Delivery is best effort: failures are logged and never reach the committing caller.
type Dispatcher struct {
	notifier  ports.ChangeNotifier
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewDispatcher(notifier ports.ChangeNotifier, publisher ports.EventPublisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier:  notifier,
		publisher: publisher,
		logger:    logger.With("component", "commit_dispatcher"),
		now:       time.Now,
	}
}

func (d *Dispatcher) AfterCommit(ctx context.Context, aggregates []any) {
	at := d.now().UTC()
	changes := make([]ports.Change, 0, len(aggregates))
	seen := make(map[ports.Change]bool, len(aggregates))
	add := func(c ports.Change) {
		key := ports.Change{Collection: c.Collection, ID: c.ID}
		if !seen[key] {
			seen[key] = true
			changes = append(changes, c)
		}
	}

	for _, aggregate := range aggregates {
		switch a := aggregate.(type) {
		case *order.Order:
			partnerID := ""
			if id := a.Partner(); id != nil {
				partnerID = id.String()
			}
			add(ports.Change{Collection: ports.OrdersCollection, ID: a.ID().String(), PartnerID: partnerID, At: at})
			d.publish(ctx, ports.OrderChanged{
				OrderID:    a.ID().String(),
				Status:     a.Status().String(),
				PartnerID:  partnerID,
				OccurredAt: a.UpdatedAt().UTC(),
			})
		case *partner.Partner:
			add(ports.Change{Collection: ports.PartnersCollection, ID: a.ID().String(), PartnerID: a.ID().String(), At: at})
		case partner.Transaction:
			add(ports.Change{Collection: ports.PartnersCollection, ID: a.PartnerID().String(), PartnerID: a.PartnerID().String(), At: at})
		}
	}

	if d.notifier == nil || len(changes) == 0 {
		return
	}
	if err := d.notifier.Notify(ctx, changes); err != nil {
		d.logger.WarnContext(ctx, "live change broadcast failed", "changes", len(changes), "error", err)
	}
}

func (d *Dispatcher) publish(ctx context.Context, event ports.OrderChanged) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.PublishOrderChanged(ctx, event); err != nil {
		d.logger.WarnContext(ctx, "order changed event not published",
			"order_id", event.OrderID, "status", event.Status, "error", err)
	}
}
