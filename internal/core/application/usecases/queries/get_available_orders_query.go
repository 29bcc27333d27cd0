package queries

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/guard"
)

var ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
	"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
)

// GetAvailableOrdersQuery lists the pool of orders a partner may claim. With matchingOnly
// the pool is narrowed to the partner's saved zones.
type GetAvailableOrdersQuery struct {
	partnerID    kernel.UUID
	matchingOnly bool

	guard guard.ConstructorGuard
}

func NewGetAvailableOrdersQuery(partnerID kernel.UUID, matchingOnly bool) (GetAvailableOrdersQuery, error) {
	if err := partnerID.Validate(); err != nil {
		return GetAvailableOrdersQuery{}, err
	}
	return GetAvailableOrdersQuery{
		partnerID:    partnerID,
		matchingOnly: matchingOnly,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

func (q GetAvailableOrdersQuery) PartnerID() kernel.UUID { return q.partnerID }
func (q GetAvailableOrdersQuery) MatchingOnly() bool     { return q.matchingOnly }
