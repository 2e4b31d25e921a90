package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/pkg/config"
	"github.com/danghamo/lecturer-service/pkg/logger"
	"github.com/danghamo/lecturer-service/pkg/postgresx"
)

const usage = "usage: migrate [up|down|status]"

func main() {
	command := postgresx.MigrateUp
	if len(os.Args) > 1 {
		command = postgresx.MigrationCommand(os.Args[1])
	}
	switch command {
	case postgresx.MigrateUp, postgresx.MigrateDown, postgresx.MigrateStatus:
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, log, err := config.Initialize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log, command); err != nil {
		log.Error("Migration failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}

	log.Info("Migration finished", zap.String("command", string(command)))
	_ = log.Sync()
}

func run(cfg *config.Config, log *logger.Logger, command postgresx.MigrationCommand) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgresx.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	return pool.Migrate(ctx, command)
}
