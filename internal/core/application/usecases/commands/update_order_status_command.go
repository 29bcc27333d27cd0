package commands

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand moves an order to a new status.
//
// PartnerID identifies the partner making the change. When present the partner must
// hold the claim, and a move to delivered settles that partner's wallet. Amount
// overrides the settled amount; without it the order's commission, or failing that its
// price, is credited.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	status    order.Status
	partnerID *kernel.UUID
	amount    *kernel.Money

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	status order.Status,
	partnerID *kernel.UUID,
	amount *kernel.Money,
) (UpdateOrderStatusCommand, error) {
	var partnerErr error
	if partnerID != nil {
		partnerErr = partnerID.Validate()
	}

	if err := errors.Join(orderID.Validate(), status.Validate(), partnerErr); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	cmd := UpdateOrderStatusCommand{
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}
	if partnerID != nil {
		id := *partnerID
		cmd.partnerID = &id
	}
	if amount != nil {
		a := *amount
		cmd.amount = &a
	}
	return cmd, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c UpdateOrderStatusCommand) PartnerID() *kernel.UUID {
	return c.partnerID
}

func (c UpdateOrderStatusCommand) Amount() *kernel.Money {
	return c.amount
}
