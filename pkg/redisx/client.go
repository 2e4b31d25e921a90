package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/pkg/logger"
)

const defaultPingTimeout = 5 * time.Second

// Client wraps redis.Client with connection logging and health checks
type Client struct {
	*redis.Client
	logger *logger.Logger
}

// ClientOption represents an option for creating a new Redis client
type ClientOption func(*clientOptions)

type clientOptions struct {
	pingTimeout time.Duration
	poolSize    int
}

// WithPingTimeout bounds the connectivity check done by NewClient
func WithPingTimeout(d time.Duration) ClientOption {
	return func(opts *clientOptions) {
		opts.pingTimeout = d
	}
}

// WithPoolSize overrides the pool size parsed from the URL
func WithPoolSize(n int) ClientOption {
	return func(opts *clientOptions) {
		opts.poolSize = n
	}
}

// ParseOptions validates a redis:// or rediss:// URL and applies opts
func ParseOptions(redisURL string, opts ...ClientOption) (*redis.Options, time.Duration, error) {
	if redisURL == "" {
		return nil, 0, fmt.Errorf("redis URL cannot be empty")
	}

	options := &clientOptions{pingTimeout: defaultPingTimeout}
	for _, opt := range opts {
		opt(options)
	}

	redisOptions, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if options.poolSize > 0 {
		redisOptions.PoolSize = options.poolSize
	}

	return redisOptions, options.pingTimeout, nil
}

// NewClient creates a new Redis client from URL and verifies the connection
func NewClient(ctx context.Context, redisURL string, log *logger.Logger, opts ...ClientOption) (*Client, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	redisOptions, pingTimeout, err := ParseOptions(redisURL, opts...)
	if err != nil {
		return nil, err
	}

	client := &Client{
		Client: redis.NewClient(redisOptions),
		logger: log.WithComponent("redisx"),
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	client.logger.Info("Redis client connected successfully",
		zap.String("addr", redisOptions.Addr),
		zap.Int("db", redisOptions.DB),
		zap.Int("pool_size", redisOptions.PoolSize),
	)

	return client, nil
}

// Close closes the Redis client connection
func (c *Client) Close() error {
	c.logger.Info("Closing Redis connection")
	return c.Client.Close()
}

// HealthCheck pings Redis and logs the round trip
func (c *Client) HealthCheck(ctx context.Context) error {
	start := time.Now()
	err := c.Ping(ctx).Err()
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Redis health check failed",
			zap.Error(err),
			zap.Duration("duration", duration),
		)
		return err
	}

	c.logger.Debug("Redis health check passed", zap.Duration("duration", duration))
	return nil
}
