package commands

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand asks for a pending order to be claimed by a partner.
//
// Example:
//
//	cmd, err := NewAcceptOrderCommand(orderID, session.PartnerID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrOrderUnavailable) {
//	    // someone else got there first
//	}
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptOrderCommand(orderID, partnerID kernel.UUID) (AcceptOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), partnerID.Validate()); err != nil {
		return AcceptOrderCommand{}, err
	}

	return AcceptOrderCommand{
		orderID:   orderID,
		partnerID: partnerID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

func (c AcceptOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AcceptOrderCommand) PartnerID() kernel.UUID {
	return c.partnerID
}
