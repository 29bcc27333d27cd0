package queries

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/guard"
)

var (
	ErrGetOrderRouteQueryIsNotConstructed = errors.New(
		"GetOrderRouteQuery must be created via NewGetOrderRouteQuery constructor",
	)
	// ErrOrderHasNoCoordinates is returned when pickup or drop was never geocoded.
	ErrOrderHasNoCoordinates = errors.New("order has no pickup or drop coordinates")
	// ErrRoutingUnavailable is returned when no routing provider is configured.
	ErrRoutingUnavailable = errors.New("routing is not configured")
)

// GetOrderRouteQuery asks for the driving route from an order's pickup to its drop.
type GetOrderRouteQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderRouteQuery(orderID kernel.UUID) (GetOrderRouteQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderRouteQuery{}, err
	}
	return GetOrderRouteQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderRouteQueryIsNotConstructed)
}

func (q GetOrderRouteQuery) OrderID() kernel.UUID {
	return q.orderID
}

type GetOrderRouteQueryResponse struct {
	Pickup         kernel.GeoPoint
	Drop           kernel.GeoPoint
	DistanceMeters float64
	DurationMillis int64
	Points         []kernel.GeoPoint
}
