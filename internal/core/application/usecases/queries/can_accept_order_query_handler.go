package queries

import (
	"context"

	"partnerdelivery/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// CanAcceptOrderQueryHandler counts the partner's orders in accepted, picked_up or
// in_transit and compares the count with order.MaxActiveOrdersPerPartner.
//
// The check is advisory. It is not atomic with AcceptOrderCommandHandler, so concurrent
// accepts by one partner on different orders may all pass it and briefly exceed the cap.
// ActiveOrderCapAuditJob reports partners for whom that happened.
type CanAcceptOrderQueryHandler struct {
	db *gorm.DB
}

func NewCanAcceptOrderQueryHandler(db *gorm.DB) CanAcceptOrderQueryHandler {
	return CanAcceptOrderQueryHandler{db: db}
}

func (h CanAcceptOrderQueryHandler) Handle(ctx context.Context, query CanAcceptOrderQuery) (CanAcceptOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CanAcceptOrderQueryResponse{}, err
	}

	var active int64
	err := h.db.WithContext(ctx).Raw(`
		SELECT count(*)
		FROM orders
		WHERE partner_id = ?
		  AND `+statusKey+` IN ?
	`, query.PartnerID().Bytes(), activeStatusKeys()).Scan(&active).Error
	if err != nil {
		return CanAcceptOrderQueryResponse{}, err
	}

	return CanAcceptOrderQueryResponse{
		ActiveOrders: int(active),
		Cap:          order.MaxActiveOrdersPerPartner,
		CanAccept:    active < order.MaxActiveOrdersPerPartner,
	}, nil
}
