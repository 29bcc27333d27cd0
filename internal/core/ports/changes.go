package ports

import (
	"context"
	"time"
)

// Collection names a kind of stored document whose changes are broadcast.
type Collection string

const (
	OrdersCollection   Collection = "orders"
	PartnersCollection Collection = "partners"
)

// Change announces that a document was written by a committed transaction.
type Change struct {
	Collection Collection `json:"collection"`
	ID         string     `json:"id"`
	// PartnerID is the partner the document belongs to, empty for unclaimed orders.
	PartnerID string    `json:"partner_id,omitempty"`
	At        time.Time `json:"at"`
}

// ChangeNotifier broadcasts committed changes to live subscribers.
type ChangeNotifier interface {
	Notify(ctx context.Context, changes []Change) error
}

// ChangeStream is an open subscription to broadcast changes.
type ChangeStream interface {
	// Changes yields changes until Close is called or the context of Subscribe ends.
	Changes() <-chan Change
	Close() error
}

// ChangeSubscriber opens change streams for collections.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context, collections ...Collection) (ChangeStream, error)
}

// OrderChanged is the integration event emitted for every committed order write.
type OrderChanged struct {
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	PartnerID  string    `json:"partner_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers integration events to other systems.
type EventPublisher interface {
	PublishOrderChanged(ctx context.Context, event OrderChanged) error
}
