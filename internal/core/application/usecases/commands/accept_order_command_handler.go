package commands

import (
	"context"
	"time"
)

// AcceptOrderCommandHandler claims an order for a partner.
//
// The order row is locked with GetForUpdate and the availability preconditions are
// checked on that locked read, never on data the caller saw earlier. Of any number of
// concurrent claims on one order exactly one commits; the others find the order taken
// and fail with order.ErrOrderUnavailable.
//
// The active-order cap is not checked here. See CanAcceptOrderQueryHandler.
type AcceptOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

func NewAcceptOrderCommandHandler(uowFactory OrderUoWFactory) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle returns order.ErrOrderUnavailable when the order cannot be claimed and an
// errs.ObjectNotFoundError when it does not exist.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return runInTransaction(ctx, h.uowFactory.Create, func(uow OrderUoW) error {
		orderRepo := uow.OrderRepository()

		o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		if err = o.Accept(cmd.PartnerID(), h.now()); err != nil {
			return err
		}

		return orderRepo.Update(ctx, o)
	})
}
