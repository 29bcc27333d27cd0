package queries

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/guard"
)

var ErrGetDashboardQueryIsNotConstructed = errors.New(
	"GetDashboardQuery must be created via NewGetDashboardQuery constructor",
)

// GetDashboardQuery summarizes a partner's workload and earnings.
type GetDashboardQuery struct {
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDashboardQuery(partnerID kernel.UUID) (GetDashboardQuery, error) {
	if err := partnerID.Validate(); err != nil {
		return GetDashboardQuery{}, err
	}
	return GetDashboardQuery{partnerID: partnerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDashboardQuery) Validate() error {
	return q.guard.Validate(ErrGetDashboardQueryIsNotConstructed)
}

func (q GetDashboardQuery) PartnerID() kernel.UUID {
	return q.partnerID
}

// GetDashboardQueryResponse carries the dashboard counters. CompletedEarnings is the sum
// of the prices of delivered orders, which is what the dashboard has always shown; the
// wallet holds the commissions actually credited.
type GetDashboardQueryResponse struct {
	ActiveOrders      int
	AvailableOrders   int
	CompletedOrders   int
	CompletedEarnings kernel.Money
	WalletBalance     kernel.Money
	TotalDeliveries   int
}
