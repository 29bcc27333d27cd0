package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "partnerdelivery/internal/adapters/in/http"
	"partnerdelivery/internal/adapters/out/graphhopper"
	"partnerdelivery/internal/adapters/out/kafka"
	"partnerdelivery/internal/adapters/out/postgres"
	"partnerdelivery/internal/adapters/out/redisfeed"
	"partnerdelivery/internal/adapters/out/security"
	"partnerdelivery/internal/core/application/auth"
	"partnerdelivery/internal/core/application/feed"
	"partnerdelivery/internal/core/application/lifecycle"
	"partnerdelivery/internal/core/application/notify"
	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/application/usecases/queries"
	"partnerdelivery/internal/core/ports"
	"partnerdelivery/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns the shared infrastructure and builds every handler from it.
// Optional collaborators (Redis, Kafka, GraphHopper) stay nil when not configured.
type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	redis     *redis.Client
	changes   *redisfeed.Feed
	publisher *kafka.OrderEventPublisher
	geo       *graphhopper.Client
	hasher    *security.BcryptHasher
	tokens    *security.JWTIssuer
}

func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	tokens, err := security.NewJWTIssuer(config.JWTSecret)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		config: config,
		logger: logger,
		gormDB: gormDB,
		hasher: security.NewBcryptHasher(0),
		tokens: tokens,
	}

	if config.RedisURL != "" {
		if c.redis, err = redisfeed.Connect(ctx, config.RedisURL); err != nil {
			return nil, err
		}
		c.changes = redisfeed.NewFeed(c.redis, logger)
	} else {
		logger.Warn("REDIS_URL not set, live feed disabled")
	}

	if brokers := config.KafkaBrokerList(); len(brokers) > 0 {
		if c.publisher, err = kafka.NewOrderEventPublisher(brokers, config.KafkaOrderChangedTopic); err != nil {
			_ = c.Close()
			return nil, err
		}
	} else {
		logger.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	if config.GraphHopperAPIKey != "" {
		c.geo = graphhopper.NewClient(config.GraphHopperAPIKey, graphhopper.WithBaseURL(config.GraphHopperBaseURL))
	} else {
		logger.Warn("GRAPHHOPPER_API_KEY not set, geocoding and routing disabled")
	}

	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, c.newDispatcher())
	return c, nil
}

// newDispatcher passes untyped nils for missing collaborators so the dispatcher sees them
// as absent.
func (c *CompositionRoot) newDispatcher() *notify.Dispatcher {
	var notifier ports.ChangeNotifier
	if c.changes != nil {
		notifier = c.changes
	}
	var publisher ports.EventPublisher
	if c.publisher != nil {
		publisher = c.publisher
	}
	return notify.NewDispatcher(notifier, publisher, c.logger)
}

func (c *CompositionRoot) geocoder() ports.Geocoder {
	if c.geo == nil {
		return nil
	}
	return c.geo
}

func (c *CompositionRoot) router() ports.Router {
	if c.geo == nil {
		return nil
	}
	return c.geo
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) partnerUoWFactory() commands.PartnerUoWFactory {
	return FuncPartnerUoWFactory(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) registrationUoWFactory() commands.RegistrationUoWFactory {
	return FuncRegistrationUoWFactory(func() commands.RegistrationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.uoWFactory())
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.geocoder(), c.logger)
}

func (c *CompositionRoot) CreateRegisterPartnerCommandHandler() commands.RegisterPartnerCommandHandler {
	return commands.NewRegisterPartnerCommandHandler(c.registrationUoWFactory(), c.hasher, c.config.RequireVerification)
}

func (c *CompositionRoot) CreateAddSavedLocationCommandHandler() commands.AddSavedLocationCommandHandler {
	return commands.NewAddSavedLocationCommandHandler(c.partnerUoWFactory())
}

func (c *CompositionRoot) CreateRemoveSavedLocationCommandHandler() commands.RemoveSavedLocationCommandHandler {
	return commands.NewRemoveSavedLocationCommandHandler(c.partnerUoWFactory())
}

func (c *CompositionRoot) CreateNormalizeOrdersCommandHandler() commands.NormalizeOrdersCommandHandler {
	return commands.NewNormalizeOrdersCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCanAcceptOrderQueryHandler() queries.CanAcceptOrderQueryHandler {
	return queries.NewCanAcceptOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB, c.geocoder(), c.logger)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPartnerProfileQueryHandler() queries.GetPartnerProfileQueryHandler {
	return queries.NewGetPartnerProfileQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOverCapPartnersQueryHandler() queries.GetOverCapPartnersQueryHandler {
	return queries.NewGetOverCapPartnersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateLifecycleEngine() *lifecycle.Engine {
	return lifecycle.NewEngine(
		c.CreateCanAcceptOrderQueryHandler(),
		c.CreateAcceptOrderCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateAuthService() *auth.Service {
	uow := c.uowFactory.Create()
	return auth.NewService(
		c.CreateRegisterPartnerCommandHandler(),
		uow.CredentialRepository(),
		uow.PartnerRepository(),
		c.hasher,
		c.tokens,
		c.config.SessionTTL,
		c.logger,
	)
}

// CreateFeedService returns nil when Redis is not configured.
func (c *CompositionRoot) CreateFeedService() *feed.Service {
	if c.changes == nil {
		return nil
	}
	return feed.NewService(
		c.changes,
		c.CreateGetAvailableOrdersQueryHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.CreateGetPartnerProfileQueryHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	deps := httpadapter.Dependencies{
		Auth:            c.CreateAuthService(),
		Lifecycle:       c.CreateLifecycleEngine(),
		Geocoder:        c.geocoder(),
		CreateOrder:     c.CreateCreateOrderCommandHandler(),
		AddZone:         c.CreateAddSavedLocationCommandHandler(),
		RemoveZone:      c.CreateRemoveSavedLocationCommandHandler(),
		AvailableOrders: c.CreateGetAvailableOrdersQueryHandler(),
		ActiveOrders:    c.CreateGetActiveOrdersQueryHandler(),
		Dashboard:       queries.NewGetDashboardQueryHandler(c.gormDB),
		Wallet:          queries.NewGetWalletTransactionsQueryHandler(c.gormDB),
		Profile:         c.CreateGetPartnerProfileQueryHandler(),
		Route:           queries.NewGetOrderRouteQueryHandler(c.gormDB, c.router()),
	}
	if liveFeed := c.CreateFeedService(); liveFeed != nil {
		deps.Feed = liveFeed
	}
	return httpadapter.NewServer(deps, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateNormalizeOrdersCommandHandler(),
		c.CreateGetOverCapPartnersQueryHandler(),
		jobs.Schedules{
			StatusNormalization: c.config.StatusNormalizationSchedule,
			CapAudit:            c.config.CapAuditSchedule,
		},
		c.logger,
	)
}

// Close releases the optional connections. The database pool is owned by the caller.
func (c *CompositionRoot) Close() error {
	var errList []error
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close kafka producer: %w", err))
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errList...)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncPartnerUoWFactory func() commands.PartnerUoW

func (f FuncPartnerUoWFactory) Create() commands.PartnerUoW {
	return f()
}

type FuncRegistrationUoWFactory func() commands.RegistrationUoW

func (f FuncRegistrationUoWFactory) Create() commands.RegistrationUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
