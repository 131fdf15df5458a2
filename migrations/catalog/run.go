// Command catalog applies the catalog schema migrations.
package main

import (
	"context"
	"embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/logger"
	"github.com/ghuser/shopfloor/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg).With("component", "migrate")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrator.Run(ctx, cfg.DatabaseURL, MigrationsFS, "catalog", log); err != nil {
		log.Error("migration failed", "service", "catalog", "error", err)
		os.Exit(1) //nolint:gocritic
	}
}
