package commands

import (
	"context"
	"log/slog"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/ports"
)

// CreateOrderCommandHandler publishes a new pending order.
//
// Pickup and drop addresses without coordinates are geocoded first, taking the first
// hit. A failed or empty lookup is logged and the order is stored without coordinates.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	geocoder   ports.Geocoder
	logger     *slog.Logger
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates the handler. geocoder may be nil, in which case
// addresses are never resolved.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	geocoder ports.Geocoder,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		logger:     logger.With("component", "create_order_handler"),
		now:        time.Now,
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	draft := cmd.Draft()
	pickup, err := order.NewPlace(draft.PickupAddress, h.locate(ctx, draft.PickupAddress, draft.PickupPoint))
	if err != nil {
		return err
	}
	drop, err := order.NewPlace(draft.DropAddress, h.locate(ctx, draft.DropAddress, draft.DropPoint))
	if err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), pickup, drop, order.Details{
		PackageName: draft.PackageName,
		DistanceKm:  draft.DistanceKm,
		WeightKg:    draft.WeightKg,
		Price:       cmd.Price(),
		Commission:  cmd.Commission(),
		CustomerID:  draft.CustomerID,
	}, h.now())
	if err != nil {
		return err
	}

	return runInTransaction(ctx, h.uowFactory.Create, func(uow OrderUoW) error {
		return uow.OrderRepository().Add(ctx, o)
	})
}

func (h CreateOrderCommandHandler) locate(ctx context.Context, address string, known *kernel.GeoPoint) *kernel.GeoPoint {
	if known != nil || h.geocoder == nil {
		return known
	}

	places, err := h.geocoder.Geocode(ctx, address, 1)
	if err != nil {
		h.logger.WarnContext(ctx, "geocoding failed, storing address without coordinates",
			"address", address, "error", err)
		return nil
	}
	if len(places) == 0 {
		return nil
	}

	point := places[0].Point
	return &point
}
