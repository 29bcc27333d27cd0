package services

import (
	"errors"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/domain/model/partner"
)

// ErrOrderNotDelivered is returned when settlement is attempted for an order that has not
// reached the delivered status.
var ErrOrderNotDelivered = errors.New("order is not delivered")

// DeliverySettlement credits a partner for a delivered order.
//
// The caller marks the order delivered first, inside the same transaction. Because a
// delivered order refuses every further status change, an order can only pass through
// here once and the wallet is credited exactly once per order.
type DeliverySettlement struct{}

func NewDeliverySettlement() DeliverySettlement {
	return DeliverySettlement{}
}

// Settle credits p with the order's settlement amount (explicit, else commission, else
// price) and returns the ledger entry to persist alongside the updated partner.
func (DeliverySettlement) Settle(
	o *order.Order,
	p *partner.Partner,
	explicit *kernel.Money,
	now time.Time,
) (partner.Transaction, error) {
	if err := errors.Join(o.Validate(), p.Validate()); err != nil {
		return partner.Transaction{}, err
	}
	if o.Status() != order.Delivered {
		return partner.Transaction{}, ErrOrderNotDelivered
	}
	if !o.IsOwnedBy(p.ID()) {
		return partner.Transaction{}, order.ErrOrderOwnedByAnotherPartner
	}

	return p.Settle(o.ID(), o.SettlementAmount(explicit), now)
}
