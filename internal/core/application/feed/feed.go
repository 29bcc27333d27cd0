// Package feed serves live views of orders and partner profiles. A subscription yields a
// full snapshot of its view once on open and again after every committed change that can
// affect it.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"partnerdelivery/internal/core/application/usecases/queries"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/ports"
)

// View selects what a subscription watches.
type View string

const (
	// AvailablePool is the pending pool, optionally narrowed to the partner's zones.
	AvailablePool View = "available"
	// ActiveOrders is the partner's accepted, picked up and in-transit orders.
	ActiveOrders View = "active"
	// PartnerProfile is the partner's own profile, wallet included.
	PartnerProfile View = "profile"
)

var ErrUnknownView = errors.New("unknown feed view")

type Filter struct {
	View         View
	PartnerID    kernel.UUID
	MatchingOnly bool
}

// Snapshot is the complete current result of a filter. Orders is set for order views,
// Profile for PartnerProfile.
type Snapshot struct {
	View    View
	Orders  []queries.OrderView
	Profile *queries.PartnerProfileView
	At      time.Time
}

type (
	availableReader interface {
		Handle(ctx context.Context, query queries.GetAvailableOrdersQuery) ([]queries.OrderView, error)
	}
	activeReader interface {
		Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.OrderView, error)
	}
	profileReader interface {
		Handle(ctx context.Context, query queries.GetPartnerProfileQuery) (queries.PartnerProfileView, error)
	}
)

type Service struct {
	subscriber ports.ChangeSubscriber
	available  availableReader
	active     activeReader
	profile    profileReader
	logger     *slog.Logger
}

func NewService(
	subscriber ports.ChangeSubscriber,
	available availableReader,
	active activeReader,
	profile profileReader,
	logger *slog.Logger,
) *Service {
	return &Service{
		subscriber: subscriber,
		available:  available,
		active:     active,
		profile:    profile,
		logger:     logger.With("component", "live_feed"),
	}
}

// Subscription is one open feed. Events is closed after Unsubscribe, when the context
// passed to Subscribe ends, or when the change stream fails.
type Subscription struct {
	events chan Snapshot
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *Subscription) Events() <-chan Snapshot {
	return s.events
}

// Unsubscribe ends the subscription and waits for its goroutine to stop.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
	<-s.done
}

// Subscribe opens the change stream before reading the first snapshot, so no change
// committed in between is missed.
func (s *Service) Subscribe(ctx context.Context, filter Filter) (*Subscription, error) {
	if err := filter.PartnerID.Validate(); err != nil {
		return nil, err
	}

	var collections []ports.Collection
	switch filter.View {
	case AvailablePool:
		collections = []ports.Collection{ports.OrdersCollection}
		if filter.MatchingOnly {
			collections = append(collections, ports.PartnersCollection)
		}
	case ActiveOrders:
		collections = []ports.Collection{ports.OrdersCollection}
	case PartnerProfile:
		collections = []ports.Collection{ports.PartnersCollection}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, filter.View)
	}

	ctx, cancel := context.WithCancel(ctx)
	stream, err := s.subscriber.Subscribe(ctx, collections...)
	if err != nil {
		cancel()
		return nil, err
	}

	first, err := s.snapshot(ctx, filter)
	if err != nil {
		_ = stream.Close()
		cancel()
		return nil, err
	}

	sub := &Subscription{
		events: make(chan Snapshot, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	sub.events <- first

	go s.run(ctx, filter, stream, sub)
	return sub, nil
}

func (s *Service) run(ctx context.Context, filter Filter, stream ports.ChangeStream, sub *Subscription) {
	defer close(sub.done)
	defer close(sub.events)
	defer func() {
		_ = stream.Close()
	}()

	log := s.logger.With("view", filter.View, "partner_id", filter.PartnerID)
	changes := stream.Changes()

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				log.InfoContext(ctx, "change stream closed")
				return
			}
			if !affects(filter, change) {
				continue
			}
			drain(changes)

			snap, err := s.snapshot(ctx, filter)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.WarnContext(ctx, "feed refresh failed", "error", err)
				continue
			}

			select {
			case sub.events <- snap:
			case <-ctx.Done():
				return
			}
		}
	}
}

// drain discards queued changes; the next snapshot covers them.
func drain(changes <-chan ports.Change) {
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func affects(filter Filter, change ports.Change) bool {
	partnerID := filter.PartnerID.String()
	switch filter.View {
	case AvailablePool:
		if change.Collection == ports.PartnersCollection {
			return change.ID == partnerID
		}
		return change.Collection == ports.OrdersCollection
	case ActiveOrders:
		return change.Collection == ports.OrdersCollection && change.PartnerID == partnerID
	case PartnerProfile:
		return change.Collection == ports.PartnersCollection && change.ID == partnerID
	default:
		return false
	}
}

func (s *Service) snapshot(ctx context.Context, filter Filter) (Snapshot, error) {
	snap := Snapshot{View: filter.View, At: time.Now().UTC()}

	switch filter.View {
	case AvailablePool:
		query, err := queries.NewGetAvailableOrdersQuery(filter.PartnerID, filter.MatchingOnly)
		if err != nil {
			return Snapshot{}, err
		}
		if snap.Orders, err = s.available.Handle(ctx, query); err != nil {
			return Snapshot{}, err
		}
	case ActiveOrders:
		query, err := queries.NewGetActiveOrdersQuery(filter.PartnerID)
		if err != nil {
			return Snapshot{}, err
		}
		if snap.Orders, err = s.active.Handle(ctx, query); err != nil {
			return Snapshot{}, err
		}
	case PartnerProfile:
		query, err := queries.NewGetPartnerProfileQuery(filter.PartnerID)
		if err != nil {
			return Snapshot{}, err
		}
		profile, err := s.profile.Handle(ctx, query)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Profile = &profile
	default:
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownView, filter.View)
	}

	return snap, nil
}
