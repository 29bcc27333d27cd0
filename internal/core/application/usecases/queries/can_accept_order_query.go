package queries

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/guard"
)

var ErrCanAcceptOrderQueryIsNotConstructed = errors.New(
	"CanAcceptOrderQuery must be created via NewCanAcceptOrderQuery constructor",
)

// CanAcceptOrderQuery asks whether a partner is below the active-order cap.
type CanAcceptOrderQuery struct {
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCanAcceptOrderQuery(partnerID kernel.UUID) (CanAcceptOrderQuery, error) {
	if err := partnerID.Validate(); err != nil {
		return CanAcceptOrderQuery{}, err
	}
	return CanAcceptOrderQuery{partnerID: partnerID, guard: guard.NewConstructorGuard()}, nil
}

func (q CanAcceptOrderQuery) Validate() error {
	return q.guard.Validate(ErrCanAcceptOrderQueryIsNotConstructed)
}

func (q CanAcceptOrderQuery) PartnerID() kernel.UUID {
	return q.partnerID
}

type CanAcceptOrderQueryResponse struct {
	ActiveOrders int
	Cap          int
	CanAccept    bool
}
