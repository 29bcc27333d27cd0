// Package http is the partner-facing REST API and live feed, served with echo.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"partnerdelivery/internal/core/application/auth"
	"partnerdelivery/internal/core/application/feed"
	"partnerdelivery/internal/core/application/lifecycle"
	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/application/usecases/queries"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "partnerdelivery/internal/adapters/in/http/docs" // swagger docs
)

type (
	authService interface {
		SignUp(ctx context.Context, in auth.SignUpInput) (auth.SignedIn, error)
		SignIn(ctx context.Context, email, password string) (auth.SignedIn, error)
		Authenticate(ctx context.Context, token string) (ports.Session, error)
		RequireOperational(ctx context.Context, session ports.Session) (*partner.Partner, error)
	}

	lifecycleEngine interface {
		CanAcceptOrder(ctx context.Context, partnerID kernel.UUID) bool
		AcceptOrder(ctx context.Context, orderID, partnerID kernel.UUID) lifecycle.Result
		UpdateStatus(ctx context.Context, orderID kernel.UUID, status order.Status, partnerID *kernel.UUID, amount *kernel.Money) lifecycle.Result
	}

	liveFeed interface {
		Subscribe(ctx context.Context, filter feed.Filter) (*feed.Subscription, error)
	}

	createOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	addZoneHandler interface {
		Handle(ctx context.Context, cmd commands.AddSavedLocationCommand) error
	}
	removeZoneHandler interface {
		Handle(ctx context.Context, cmd commands.RemoveSavedLocationCommand) error
	}

	availableOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetAvailableOrdersQuery) ([]queries.OrderView, error)
	}
	activeOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.OrderView, error)
	}
	dashboardHandler interface {
		Handle(ctx context.Context, query queries.GetDashboardQuery) (queries.GetDashboardQueryResponse, error)
	}
	walletHandler interface {
		Handle(ctx context.Context, query queries.GetWalletTransactionsQuery) ([]queries.WalletTransactionView, error)
	}
	profileHandler interface {
		Handle(ctx context.Context, query queries.GetPartnerProfileQuery) (queries.PartnerProfileView, error)
	}
	routeHandler interface {
		Handle(ctx context.Context, query queries.GetOrderRouteQuery) (queries.GetOrderRouteQueryResponse, error)
	}
)

// Dependencies are the use cases the API exposes. Geocoder and Feed may be nil, which
// turns the address search and the live feed off.
type Dependencies struct {
	Auth      authService
	Lifecycle lifecycleEngine
	Feed      liveFeed
	Geocoder  ports.Geocoder

	CreateOrder createOrderHandler
	AddZone     addZoneHandler
	RemoveZone  removeZoneHandler

	AvailableOrders availableOrdersHandler
	ActiveOrders    activeOrdersHandler
	Dashboard       dashboardHandler
	Wallet          walletHandler
	Profile         profileHandler
	Route           routeHandler
}

// Server holds the handlers of every route.
type Server struct {
	deps   Dependencies
	logger *slog.Logger
}

func NewServer(deps Dependencies, logger *slog.Logger) *Server {
	return &Server{
		deps:   deps,
		logger: logger.With("component", "http"),
	}
}

// NewEcho builds the echo instance with middleware and every route registered.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.Validator = newRequestValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())

	s.Register(e)
	return e
}

// Register mounts the API under /api/v1 plus /health and /swagger/*.
//
//	@title						Partner Delivery API
//	@version					1.0
//	@description				Order pool, order lifecycle, wallet and zones for delivery partners.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")
	api.POST("/auth/signup", s.SignUp)
	api.POST("/auth/signin", s.SignIn)

	signedIn := api.Group("", s.authenticate)
	signedIn.GET("/me", s.GetProfile)
	signedIn.GET("/me/dashboard", s.GetDashboard)
	signedIn.GET("/me/wallet/transactions", s.GetWalletTransactions)
	signedIn.POST("/me/zones", s.AddZone)
	signedIn.DELETE("/me/zones/:zoneId", s.RemoveZone)
	signedIn.GET("/places", s.SearchPlaces)
	signedIn.GET("/places/reverse", s.ReversePlace)
	signedIn.POST("/orders", s.CreateOrder)
	signedIn.GET("/feed", s.Feed)

	operational := signedIn.Group("", s.requireOperational)
	operational.GET("/orders/available", s.GetAvailableOrders)
	operational.GET("/orders/active", s.GetActiveOrders)
	operational.GET("/orders/can-accept", s.CanAcceptOrder)
	operational.POST("/orders/:orderId/accept", s.AcceptOrder)
	operational.POST("/orders/:orderId/status", s.UpdateOrderStatus)
	operational.GET("/orders/:orderId/route", s.GetOrderRoute)
}

var errInvalidBody = errors.New("Invalid request body") //nolint:staticcheck // shown verbatim to clients

// bindAndValidate returns a client-facing message on failure.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	return c.Validate(req)
}

func pathUUID(c echo.Context, name string) (kernel.UUID, bool) {
	id, err := kernel.UUIDFromString(c.Param(name))
	return id, err == nil
}
