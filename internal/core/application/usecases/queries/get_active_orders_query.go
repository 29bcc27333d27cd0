package queries

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery lists the orders a partner is currently working on.
type GetActiveOrdersQuery struct {
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetActiveOrdersQuery(partnerID kernel.UUID) (GetActiveOrdersQuery, error) {
	if err := partnerID.Validate(); err != nil {
		return GetActiveOrdersQuery{}, err
	}
	return GetActiveOrdersQuery{partnerID: partnerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

func (q GetActiveOrdersQuery) PartnerID() kernel.UUID {
	return q.partnerID
}
