package http

import (
	"net/http"
	"strconv"

	"partnerdelivery/internal/core/application/lifecycle"
	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/application/usecases/queries"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// GetAvailableOrders handles GET /api/v1/orders/available?matching=true.
//
//	@Summary	Pending order pool
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		matching	query		bool	false	"Only orders inside the partner's zones"
//	@Success	200			{array}		Order
//	@Failure	403			{object}	Error
//	@Router		/orders/available [get]
func (s *Server) GetAvailableOrders(c echo.Context) error {
	matching, _ := strconv.ParseBool(c.QueryParam("matching"))
	query, err := queries.NewGetAvailableOrdersQuery(sessionOf(c).PartnerID, matching)
	if err != nil {
		return s.fail(c, err)
	}
	orders, err := s.deps.AvailableOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toOrders(orders))
}

// GetActiveOrders handles GET /api/v1/orders/active.
//
//	@Summary	The partner's orders in progress
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	Order
//	@Router		/orders/active [get]
func (s *Server) GetActiveOrders(c echo.Context) error {
	query, err := queries.NewGetActiveOrdersQuery(sessionOf(c).PartnerID)
	if err != nil {
		return s.fail(c, err)
	}
	orders, err := s.deps.ActiveOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toOrders(orders))
}

// CanAcceptOrder handles GET /api/v1/orders/can-accept. The answer is advisory.
//
//	@Summary	Whether the partner is under the active order cap
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	CanAccept
//	@Router		/orders/can-accept [get]
func (s *Server) CanAcceptOrder(c echo.Context) error {
	ok := s.deps.Lifecycle.CanAcceptOrder(c.Request().Context(), sessionOf(c).PartnerID)
	return c.JSON(http.StatusOK, CanAccept{CanAccept: ok})
}

// AcceptOrder handles POST /api/v1/orders/{orderId}/accept. The cap is checked first, so
// a partner at the cap gets 409 without touching the order.
//
//	@Summary	Claim a pending order
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		orderId	path		string	true	"Order id"
//	@Success	200		{object}	lifecycle.Result
//	@Failure	404		{object}	lifecycle.Result
//	@Failure	409		{object}	lifecycle.Result
//	@Router		/orders/{orderId}/accept [post]
func (s *Server) AcceptOrder(c echo.Context) error {
	orderID, ok := pathUUID(c, "orderId")
	if !ok {
		return badRequest(c, "orderId must be a UUID")
	}
	ctx := c.Request().Context()
	partnerID := sessionOf(c).PartnerID

	if !s.deps.Lifecycle.CanAcceptOrder(ctx, partnerID) {
		return s.result(c, lifecycle.CapReached())
	}
	return s.result(c, s.deps.Lifecycle.AcceptOrder(ctx, orderID, partnerID))
}

// UpdateOrderStatus handles POST /api/v1/orders/{orderId}/status. Only the partner holding
// the order may change it; delivering credits their wallet.
//
//	@Summary	Advance an order's status
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		orderId	path		string				true	"Order id"
//	@Param		body	body		updateStatusRequest	true	"Target status"
//	@Success	200		{object}	lifecycle.Result
//	@Failure	403		{object}	lifecycle.Result
//	@Failure	409		{object}	lifecycle.Result
//	@Failure	422		{object}	lifecycle.Result
//	@Router		/orders/{orderId}/status [post]
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	orderID, ok := pathUUID(c, "orderId")
	if !ok {
		return badRequest(c, "orderId must be a UUID")
	}
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	var amount *kernel.Money
	if req.Amount != nil {
		m, moneyErr := kernel.NewMoney(*req.Amount)
		if moneyErr != nil {
			return s.fail(c, moneyErr)
		}
		amount = &m
	}

	partnerID := sessionOf(c).PartnerID
	return s.result(c, s.deps.Lifecycle.UpdateStatus(c.Request().Context(), orderID, status, &partnerID, amount))
}

func (s *Server) result(c echo.Context, res lifecycle.Result) error {
	if res.Success {
		return c.JSON(http.StatusOK, res)
	}
	return c.JSON(statusFor(res.Err()), res)
}

// GetOrderRoute handles GET /api/v1/orders/{orderId}/route.
//
//	@Summary	Driving route from pickup to drop
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		orderId	path		string	true	"Order id"
//	@Success	200		{object}	Route
//	@Failure	422		{object}	Error
//	@Failure	503		{object}	Error
//	@Router		/orders/{orderId}/route [get]
func (s *Server) GetOrderRoute(c echo.Context) error {
	orderID, ok := pathUUID(c, "orderId")
	if !ok {
		return badRequest(c, "orderId must be a UUID")
	}
	query, err := queries.NewGetOrderRouteQuery(orderID)
	if err != nil {
		return s.fail(c, err)
	}
	route, err := s.deps.Route.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toRoute(route))
}

// CreateOrder handles POST /api/v1/orders, the manual test-order surface. Missing fields
// take defaults and addresses without coordinates are geocoded.
//
//	@Summary	Publish a test order to the pool
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		createOrderRequest	true	"Order"
//	@Success	201		{object}	Created
//	@Failure	400		{object}	Error
//	@Failure	422		{object}	Error
//	@Router		/orders [post]
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	pickup, err := optionalGeoPoint(req.PickupLat, req.PickupLng)
	if err != nil {
		return s.fail(c, err)
	}
	drop, err := optionalGeoPoint(req.DropLat, req.DropLng)
	if err != nil {
		return s.fail(c, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, commands.OrderDraft{
		PickupAddress: req.PickupAddress,
		PickupPoint:   pickup,
		DropAddress:   req.DropAddress,
		DropPoint:     drop,
		PackageName:   req.PackageName,
		Price:         req.Price,
		WeightKg:      req.WeightKg,
		DistanceKm:    req.DistanceKm,
		Commission:    req.Commission,
		CustomerID:    req.CustomerID,
	})
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.deps.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, Created{ID: orderID.String()})
}

func optionalGeoPoint(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil //nolint:nilnil // no coordinates given
	}
	p, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
