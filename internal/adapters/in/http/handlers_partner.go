package http

import (
	"net/http"
	"strconv"
	"strings"

	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/application/usecases/queries"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// GetProfile handles GET /api/v1/me. Partners awaiting verification can read it too.
//
//	@Summary	Signed-in partner profile
//	@Tags		partner
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	Profile
//	@Failure	401	{object}	Error
//	@Router		/me [get]
func (s *Server) GetProfile(c echo.Context) error {
	query, err := queries.NewGetPartnerProfileQuery(sessionOf(c).PartnerID)
	if err != nil {
		return s.fail(c, err)
	}
	profile, err := s.deps.Profile.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toProfile(profile))
}

// GetDashboard handles GET /api/v1/me/dashboard.
//
//	@Summary	Dashboard counters
//	@Tags		partner
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	Dashboard
//	@Router		/me/dashboard [get]
func (s *Server) GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	partnerID := sessionOf(c).PartnerID

	query, err := queries.NewGetDashboardQuery(partnerID)
	if err != nil {
		return s.fail(c, err)
	}
	res, err := s.deps.Dashboard.Handle(ctx, query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, Dashboard{
		ActiveOrders:      res.ActiveOrders,
		AvailableOrders:   res.AvailableOrders,
		CompletedOrders:   res.CompletedOrders,
		CompletedEarnings: res.CompletedEarnings.Float64(),
		WalletBalance:     res.WalletBalance.Float64(),
		TotalDeliveries:   res.TotalDeliveries,
		CanAcceptMore:     s.deps.Lifecycle.CanAcceptOrder(ctx, partnerID),
	})
}

// GetWalletTransactions handles GET /api/v1/me/wallet/transactions?limit=N.
//
//	@Summary	Wallet ledger, newest first
//	@Tags		partner
//	@Produce	json
//	@Security	BearerAuth
//	@Param		limit	query		int	false	"1 to 100, default 20"
//	@Success	200		{array}		WalletTransaction
//	@Failure	422		{object}	Error
//	@Router		/me/wallet/transactions [get]
func (s *Server) GetWalletTransactions(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "limit must be a number")
		}
		limit = n
	}

	query, err := queries.NewGetWalletTransactionsQuery(sessionOf(c).PartnerID, limit)
	if err != nil {
		return s.fail(c, err)
	}
	txs, err := s.deps.Wallet.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toWalletTransactions(txs))
}

// AddZone handles POST /api/v1/me/zones.
//
//	@Summary	Add a preferred pickup zone
//	@Tags		zones
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		addZoneRequest	true	"Zone; radius_km defaults to 5"
//	@Success	201		{object}	Created
//	@Failure	400		{object}	Error
//	@Failure	409		{object}	Error
//	@Router		/me/zones [post]
func (s *Server) AddZone(c echo.Context) error {
	var req addZoneRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	center, err := kernel.NewGeoPoint(*req.Lat, *req.Lng)
	if err != nil {
		return s.fail(c, err)
	}
	zoneID := kernel.NewUUID()
	cmd, err := commands.NewAddSavedLocationCommand(
		sessionOf(c).PartnerID, zoneID, req.Name, req.Address, center, req.RadiusKm,
	)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.deps.AddZone.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, Created{ID: zoneID.String()})
}

// RemoveZone handles DELETE /api/v1/me/zones/{zoneId}.
//
//	@Summary	Remove a zone
//	@Tags		zones
//	@Security	BearerAuth
//	@Param		zoneId	path	string	true	"Zone id"
//	@Success	204
//	@Failure	404	{object}	Error
//	@Router		/me/zones/{zoneId} [delete]
func (s *Server) RemoveZone(c echo.Context) error {
	zoneID, ok := pathUUID(c, "zoneId")
	if !ok {
		return badRequest(c, "zoneId must be a UUID")
	}
	cmd, err := commands.NewRemoveSavedLocationCommand(sessionOf(c).PartnerID, zoneID)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.deps.RemoveZone.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

const placeSearchLimit = 5

// SearchPlaces handles GET /api/v1/places?q=, the address search behind zone creation.
//
//	@Summary	Search addresses
//	@Tags		zones
//	@Produce	json
//	@Security	BearerAuth
//	@Param		q	query		string	true	"Free text"
//	@Success	200	{array}		Place
//	@Failure	503	{object}	Error
//	@Router		/places [get]
func (s *Server) SearchPlaces(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return badRequest(c, "q is required")
	}
	if s.deps.Geocoder == nil {
		return c.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: "Address search is not configured",
		})
	}

	places, err := s.deps.Geocoder.Geocode(c.Request().Context(), q, placeSearchLimit)
	if err != nil {
		s.logger.WarnContext(c.Request().Context(), "address search failed", "error", err)
		return c.JSON(http.StatusOK, []Place{})
	}
	return c.JSON(http.StatusOK, toPlaces(places))
}

// ReversePlace handles GET /api/v1/places/reverse?lat=&lng=, naming a dropped zone pin.
//
//	@Summary	Address at a point
//	@Tags		zones
//	@Produce	json
//	@Security	BearerAuth
//	@Param		lat	query		number	true	"Latitude"
//	@Param		lng	query		number	true	"Longitude"
//	@Success	200	{object}	Place
//	@Failure	400	{object}	Error
//	@Failure	404	{object}	Error
//	@Failure	503	{object}	Error
//	@Router		/places/reverse [get]
func (s *Server) ReversePlace(c echo.Context) error {
	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if latErr != nil || lngErr != nil {
		return badRequest(c, "lat and lng must be numbers")
	}
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if s.deps.Geocoder == nil {
		return c.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: "Address search is not configured",
		})
	}

	place, err := s.deps.Geocoder.ReverseGeocode(c.Request().Context(), point)
	if err != nil {
		s.logger.WarnContext(c.Request().Context(), "reverse geocoding failed", "error", err)
		return c.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: "No address found at this point"})
	}
	return c.JSON(http.StatusOK, toPlaces([]ports.GeoPlace{place})[0])
}
