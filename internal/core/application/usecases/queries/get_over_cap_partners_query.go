package queries

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/guard"
)

var ErrGetOverCapPartnersQueryIsNotConstructed = errors.New(
	"GetOverCapPartnersQuery must be created via NewGetOverCapPartnersQuery constructor",
)

// GetOverCapPartnersQuery finds partners holding more active orders than the advisory cap.
type GetOverCapPartnersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetOverCapPartnersQuery() GetOverCapPartnersQuery {
	return GetOverCapPartnersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetOverCapPartnersQuery) Validate() error {
	return q.guard.Validate(ErrGetOverCapPartnersQueryIsNotConstructed)
}

type GetOverCapPartnersQueryResponse struct {
	PartnerID    kernel.UUID
	ActiveOrders int
}
