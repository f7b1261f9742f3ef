package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	httpin "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/out/events"
	"storefront/internal/adapters/out/idempotency"
	"storefront/internal/adapters/out/notification"
	"storefront/internal/adapters/out/postgres"
	"storefront/internal/adapters/out/postgres/historyrepo"
	"storefront/internal/adapters/out/postgres/outboxrepo"
	"storefront/internal/core/application/effects"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/ports"
	"storefront/internal/jobs"
	"storefront/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
	metrics    *metrics.Metrics

	outbox      *outboxrepo.GormOutboxRepository
	notifier    ports.Notifier
	publisher   ports.OrderEventPublisher
	idempotency *idempotency.RedisStore
	dispatcher  *effects.Dispatcher

	kafkaWriters []*kafka.Writer
}

// NewCompositionRoot wires the adapters selected by cfg. Notifications go over
// SMTP when SMTP_HOST is set, else to the Kafka email topic, else to the log.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	catalogue, err := notification.LoadCatalogue()
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		metrics:    metrics.New(),
		outbox:     outboxrepo.NewGormOutboxRepository(gormDB),
	}

	brokers := cfg.KafkaBrokers()
	switch {
	case cfg.SMTPHost != "":
		c.notifier = notification.NewSMTPNotifier(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, catalogue)
	case len(brokers) > 0 && cfg.KafkaNotificationTopic != "":
		c.notifier = notification.NewKafkaNotifier(c.kafkaWriter(brokers, cfg.KafkaNotificationTopic), catalogue)
	default:
		c.notifier = notification.NewLogNotifier(catalogue, logger)
	}

	if len(brokers) > 0 && cfg.KafkaOrderChangedTopic != "" {
		c.publisher = events.NewKafkaOrderEventPublisher(c.kafkaWriter(brokers, cfg.KafkaOrderChangedTopic))
	}

	if cfg.RedisAddr != "" {
		c.idempotency = idempotency.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, 0)
	}

	c.dispatcher = effects.NewDispatcher(c.notifier, c.outbox, c.publisher, logger,
		effects.WithTimeout(cfg.EffectTimeout),
		effects.WithMetrics(c.metrics),
	)

	return c, nil
}

func (c *CompositionRoot) kafkaWriter(brokers []string, topic string) *kafka.Writer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	c.kafkaWriters = append(c.kafkaWriters, w)
	return w
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewCreateOrderCommandHandler(f, c.dispatcher)
	return &h
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() *commands.TransitionOrderCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewTransitionOrderCommandHandler(f, c.dispatcher, c.metrics)
	return &h
}

func (c *CompositionRoot) CreateUpdatePaymentStatusCommandHandler() *commands.UpdatePaymentStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewUpdatePaymentStatusCommandHandler(f)
	return &h
}

func (c *CompositionRoot) CreateSetStockCommandHandler() *commands.SetStockCommandHandler {
	var f commands.InventoryUoWFactory = FuncInventoryUoWFactory(func() commands.InventoryUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewSetStockCommandHandler(f)
	return &h
}

func (c *CompositionRoot) CreateRetryNotificationsCommandHandler() *commands.RetryNotificationsCommandHandler {
	h := commands.NewRetryNotificationsCommandHandler(c.outbox, c.notifier, c.logger)
	return &h
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB, historyrepo.NewGormHistoryRepository(c.gormDB))
}

func (c *CompositionRoot) CreateGetStockQueryHandler() queries.GetStockQueryHandler {
	return queries.NewGetStockQueryHandler(c.gormDB)
}

// CreateHTTPServer wires the API server and the router settings.
func (c *CompositionRoot) CreateHTTPServer() (*httpin.Server, httpin.RouterConfig) {
	var store ports.IdempotencyStore
	if c.idempotency != nil {
		store = c.idempotency
	}

	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:   c.CreateCreateOrderCommandHandler(),
		Transition:    c.CreateTransitionOrderCommandHandler(),
		UpdatePayment: c.CreateUpdatePaymentStatusCommandHandler(),
		SetStock:      c.CreateSetStockCommandHandler(),
		GetOrder:      c.CreateGetOrderQueryHandler(),
		ListOrders:    c.CreateListOrdersQueryHandler(),
		OrderHistory:  c.CreateGetOrderHistoryQueryHandler(),
		GetStock:      c.CreateGetStockQueryHandler(),
	}, store, c.logger)

	return server, httpin.RouterConfig{
		Logger:       c.logger,
		Metrics:      c.metrics,
		Registry:     c.metrics.Registry(),
		RateLimitRPS: c.cfg.RateLimitRPS,
		Ready:        c.ready,
	}
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	cmd, err := commands.NewRetryNotificationsCommand(c.cfg.NotificationBatchSize, c.cfg.NotificationMaxAttempts)
	if err != nil {
		return nil, err
	}

	retry := jobs.NewNotificationRetryJob(
		c.CreateRetryNotificationsCommandHandler(),
		cmd,
		c.cfg.NotificationRetrySchedule,
		c.outbox,
		c.metrics,
		c.logger,
	)
	return jobs.NewJobManager(retry), nil
}

func (c *CompositionRoot) ready(ctx context.Context) error {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the Kafka writers and the Redis client.
func (c *CompositionRoot) Close() error {
	var err error
	for _, w := range c.kafkaWriters {
		err = errors.Join(err, w.Close())
	}
	if c.idempotency != nil {
		err = errors.Join(err, c.idempotency.Close())
	}
	return err
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncInventoryUoWFactory func() commands.InventoryUoW

func (f FuncInventoryUoWFactory) Create() commands.InventoryUoW {
	return f()
}
