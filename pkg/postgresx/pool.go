package postgresx

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/migrations"
	"github.com/danghamo/lecturer-service/pkg/logger"
)

// Pool wraps pgxpool.Pool with logging and migrations
type Pool struct {
	*pgxpool.Pool
	logger *logger.Logger
}

// NewPool parses the DSN, connects and pings the database
func NewPool(ctx context.Context, dsn string, maxConns int32, log *logger.Logger) (*Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN cannot be empty")
	}

	if log == nil {
		log = logger.GetGlobalLogger()
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres DSN: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	p := &Pool{
		Pool:   pool,
		logger: log.WithComponent("postgresx"),
	}

	p.logger.Info("Postgres pool connected successfully",
		zap.String("host", cfg.ConnConfig.Host),
		zap.String("database", cfg.ConnConfig.Database),
		zap.Int32("max_conns", cfg.MaxConns),
	)

	return p, nil
}

// Close closes every connection in the pool
func (p *Pool) Close() {
	p.logger.Info("Closing Postgres pool")
	p.Pool.Close()
}

// HealthCheck pings the database and logs the outcome
func (p *Pool) HealthCheck(ctx context.Context) error {
	start := time.Now()
	err := p.Ping(ctx)
	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Postgres health check failed",
			zap.Error(err),
			zap.Duration("duration", duration),
		)
		return err
	}

	p.logger.Debug("Postgres health check passed", zap.Duration("duration", duration))
	return nil
}

// MigrationCommand is a goose command accepted by Migrate
type MigrationCommand string

const (
	MigrateUp     MigrationCommand = "up"
	MigrateDown   MigrationCommand = "down"
	MigrateStatus MigrationCommand = "status"
)

// Migrate runs the embedded goose migrations over a database/sql handle borrowed from the pool
func (p *Pool) Migrate(ctx context.Context, command MigrationCommand) error {
	db := stdlib.OpenDBFromPool(p.Pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	p.logger.Info("Running migrations", zap.String("command", string(command)))

	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, db, ".")
	case MigrateDown:
		err = goose.DownContext(ctx, db, ".")
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	return nil
}
