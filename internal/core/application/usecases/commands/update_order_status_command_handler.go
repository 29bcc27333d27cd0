package commands

import (
	"context"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/domain/services"
)

// UpdateOrderStatusCommandHandler advances an order and, on delivery, settles the
// partner's wallet in the same transaction.
//
// Locks are taken order first, partner second, so two deliveries by the same partner
// cannot deadlock each other. A second delivery of the same order fails with
// order.ErrOrderAlreadyCompleted before the partner is read, which is what makes
// settlement happen at most once per order.
//
// Whether the new status is the legitimate successor of the current one is left to the
// caller: skipping from accepted straight to delivered is allowed.
type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	settlement services.DeliverySettlement
	now        func() time.Time
}

func NewUpdateOrderStatusCommandHandler(uowFactory UoWFactory) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		settlement: services.NewDeliverySettlement(),
		now:        time.Now,
	}
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return runInTransaction(ctx, h.uowFactory.Create, func(uow UoW) error {
		now := h.now()
		orderRepo := uow.OrderRepository()

		o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		partnerID := cmd.PartnerID()
		if partnerID != nil {
			if err = ensureOwnership(o, *partnerID); err != nil {
				return err
			}
		}

		if err = o.ChangeStatus(cmd.Status(), now); err != nil {
			return err
		}

		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}

		if cmd.Status() != order.Delivered || partnerID == nil {
			return nil
		}

		partnerRepo := uow.PartnerRepository()
		p, err := partnerRepo.GetForUpdate(ctx, *partnerID)
		if err != nil {
			return err
		}

		entry, err := h.settlement.Settle(o, p, cmd.Amount(), now)
		if err != nil {
			return err
		}

		if err = partnerRepo.Update(ctx, p); err != nil {
			return err
		}

		return uow.TransactionRepository().Add(ctx, entry)
	})
}

func ensureOwnership(o *order.Order, partnerID kernel.UUID) error {
	switch {
	case o.IsOwnedBy(partnerID):
		return nil
	case o.Partner() == nil:
		return order.ErrOrderNotClaimed
	default:
		return order.ErrOrderOwnedByAnotherPartner
	}
}
