package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/internal/api"
	"github.com/danghamo/lecturer-service/internal/api/middleware"
	"github.com/danghamo/lecturer-service/internal/app/service"
	"github.com/danghamo/lecturer-service/internal/cqrs"
	cqrshandlers "github.com/danghamo/lecturer-service/internal/cqrs/handlers"
	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/internal/metrics"
	"github.com/danghamo/lecturer-service/pkg/config"
	"github.com/danghamo/lecturer-service/pkg/logger"
	"github.com/danghamo/lecturer-service/pkg/postgresx"
	"github.com/danghamo/lecturer-service/pkg/redisx"
	"github.com/danghamo/lecturer-service/pkg/sse"
)

const version = "1.0.0"

// @title Lecturer Service API
// @version 1.0
// @description Lecturer records for the LMS: JSON-RPC 2.0 methods, REST compatibility routes and a live change stream.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT issued by the auth-service.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
func main() {
	// Initialize configuration and logger
	cfg, log, err := config.Initialize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("Server error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}

	log.Info("Server gracefully stopped")
	_ = log.Sync()
}

func run(cfg *config.Config, log *logger.Logger) error {
	log.Info("Starting lecturer service",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("Shutting down server...")
		cancel()
	}()

	var redisClient *redisx.Client
	if cfg.Storage.Driver == config.StorageRedis || cfg.Events.Enabled {
		client, err := redisx.NewClient(ctx, cfg.Redis.URL, log)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		defer client.Close()
		redisClient = client
	}

	repo, closeRepo, err := newRepository(ctx, cfg, redisClient, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	broadcaster := sse.NewBroadcaster(log,
		sse.WithHeartbeat(cfg.SSE.HeartbeatInterval),
		sse.WithStaleAfter(cfg.SSE.StaleAfter),
		sse.WithConnectionHooks(m.IncrementSubscribers, m.DecrementSubscribers))

	serviceOpts := []service.Option{service.WithLogger(log), service.WithMetrics(m)}

	var bus *cqrs.Bus
	if cfg.Events.Enabled {
		bus, err = cqrs.NewRedisStreamBus(redisClient.Client, cfg.Events.ConsumerGroup, cqrs.BusConfig{
			TopicPrefix: cfg.Events.TopicPrefix,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to create event bus: %w", err)
		}

		sseEventHandler := cqrshandlers.NewSSEEventHandler(broadcaster, log)
		if err := bus.AddHandlers(sseEventHandler.EventHandlers()...); err != nil {
			return fmt.Errorf("failed to register event handlers: %w", err)
		}
		serviceOpts = append(serviceOpts, service.WithEventPublisher(bus))
	}

	var jwtService *middleware.JWTService
	if cfg.Auth.JWTSecret != "" {
		jwtService = middleware.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	}

	var rateLimit *middleware.RateLimitConfig
	if cfg.RateLimit.Enabled {
		rateLimit = &middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}
	}

	apiServer, err := api.NewServer(api.ServerConfig{
		Port:            cfg.Server.Port,
		Host:            cfg.Server.Host,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		HealthCheckPath: cfg.Server.HealthCheckPath,
		MetricsPath:     cfg.Metrics.Path,
		Version:         version,
		Environment:     cfg.Server.Environment,
		StorageDriver:   cfg.Storage.Driver,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
		},
		RateLimit: rateLimit,
	}, api.Dependencies{
		Service:     service.NewLecturerService(repo, serviceOpts...),
		Store:       repo,
		Auth:        middleware.NewAuthMiddleware(cfg.Auth.APIKey, jwtService, log),
		Broadcaster: broadcaster,
		Metrics:     m,
		Bus:         bus,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	return apiServer.Start(ctx)
}

// newRepository builds the lecturer store selected by storage.driver
func newRepository(ctx context.Context, cfg *config.Config, redisClient *redisx.Client, log *logger.Logger) (lecturer.Repository, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageRedis:
		return lecturer.NewRedisRepository(redisClient.Client), func() {}, nil

	case config.StoragePostgres:
		pool, err := postgresx.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Postgres pool: %w", err)
		}
		if cfg.Postgres.AutoMigrate {
			if err := pool.Migrate(ctx, postgresx.MigrateUp); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return lecturer.NewPostgresRepository(pool), pool.Close, nil

	default:
		log.Warn("Using in-memory lecturer store; records are lost on restart")
		return lecturer.NewMemoryRepository(), func() {}, nil
	}
}
