package queries

import (
	"context"
	"fmt"

	"partnerdelivery/internal/core/ports"
	"partnerdelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderRouteQueryHandler struct {
	db     *gorm.DB
	router ports.Router
}

// NewGetOrderRouteQueryHandler accepts a nil router; Handle then fails with
// ErrRoutingUnavailable.
func NewGetOrderRouteQueryHandler(db *gorm.DB, router ports.Router) GetOrderRouteQueryHandler {
	return GetOrderRouteQueryHandler{db: db, router: router}
}

func (h GetOrderRouteQueryHandler) Handle(ctx context.Context, query GetOrderRouteQuery) (GetOrderRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderRouteQueryResponse{}, err
	}
	if h.router == nil {
		return GetOrderRouteQueryResponse{}, ErrRoutingUnavailable
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderViewColumns+`
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return GetOrderRouteQueryResponse{}, err
	}

	views, err := scanOrderViews(rows)
	if err != nil {
		return GetOrderRouteQueryResponse{}, err
	}
	if len(views) == 0 {
		return GetOrderRouteQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	view := views[0]
	if view.Pickup == nil || view.Drop == nil {
		return GetOrderRouteQueryResponse{}, ErrOrderHasNoCoordinates
	}

	route, err := h.router.Route(ctx, *view.Pickup, *view.Drop)
	if err != nil {
		return GetOrderRouteQueryResponse{}, fmt.Errorf("route order %s: %w", view.ID, err)
	}

	return GetOrderRouteQueryResponse{
		Pickup:         *view.Pickup,
		Drop:           *view.Drop,
		DistanceMeters: route.DistanceMeters,
		DurationMillis: route.DurationMillis,
		Points:         route.Points,
	}, nil
}
