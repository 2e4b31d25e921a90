package cqrs

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	wmcqrs "github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/pkg/logger"
)

// BusConfig controls topic naming and shutdown
type BusConfig struct {
	TopicPrefix  string
	CloseTimeout time.Duration
}

func (c BusConfig) topic(eventName string) string {
	return fmt.Sprintf("%s.%s", c.TopicPrefix, eventName)
}

// Bus publishes lecturer events and dispatches them to registered handlers
type Bus struct {
	eventBus  *wmcqrs.EventBus
	processor *wmcqrs.EventProcessor
	router    *message.Router
	logger    *logger.Logger
}

// NewBus wires a watermill event bus and processor over any pub/sub pair
func NewBus(publisher message.Publisher, subscriber message.Subscriber, cfg BusConfig, log *logger.Logger) (*Bus, error) {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "lecturer"
	}
	if cfg.CloseTimeout == 0 {
		cfg.CloseTimeout = 5 * time.Second
	}

	wmLogger := NewWatermillLogger(log)
	marshaler := wmcqrs.JSONMarshaler{GenerateName: wmcqrs.StructName}

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	eventBus, err := wmcqrs.NewEventBusWithConfig(publisher, wmcqrs.EventBusConfig{
		GeneratePublishTopic: func(params wmcqrs.GenerateEventPublishTopicParams) (string, error) {
			return cfg.topic(params.EventName), nil
		},
		Marshaler: marshaler,
		Logger:    wmLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	processor, err := wmcqrs.NewEventProcessorWithConfig(router, wmcqrs.EventProcessorConfig{
		GenerateSubscribeTopic: func(params wmcqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return cfg.topic(params.EventName), nil
		},
		SubscriberConstructor: func(params wmcqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return subscriber, nil
		},
		Marshaler: marshaler,
		Logger:    wmLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event processor: %w", err)
	}

	return &Bus{
		eventBus:  eventBus,
		processor: processor,
		router:    router,
		logger:    log.WithComponent("event-bus"),
	}, nil
}

// NewRedisStreamBus builds a Bus on Redis Streams. Every instance gets its own
// consumer group so each server sees every event for its SSE clients.
func NewRedisStreamBus(client redis.UniversalClient, consumerGroup string, cfg BusConfig, log *logger.Logger) (*Bus, error) {
	wmLogger := NewWatermillLogger(log)

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		ConsumerGroup: fmt.Sprintf("%s-%s", consumerGroup, instanceID()),
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}

	return NewBus(publisher, subscriber, cfg, log)
}

func instanceID() string {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-%d", hostname, time.Now().UnixNano())
}

// Publish sends a *LecturerSavedEvent or *LecturerDeletedEvent
func (b *Bus) Publish(ctx context.Context, event any) error {
	return b.eventBus.Publish(ctx, event)
}

// AddHandlers registers event handlers; call before Run
func (b *Bus) AddHandlers(handlers ...wmcqrs.EventHandler) error {
	return b.processor.AddHandlers(handlers...)
}

// Run blocks until ctx is cancelled or the router is closed
func (b *Bus) Run(ctx context.Context) error {
	b.logger.Info("Starting event router")
	return b.router.Run(ctx)
}

// Running is closed once all handlers are subscribed
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

func (b *Bus) Close() error {
	b.logger.Info("Closing event router")
	if err := b.router.Close(); err != nil {
		b.logger.Error("Router shutdown error", zap.Error(err))
		return err
	}
	return nil
}
