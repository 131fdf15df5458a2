// Package migrator applies the embedded goose migrations of one bounded
// context. Each context keeps its own version table, and concurrent runs are
// serialised with a postgres advisory lock.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/pressly/goose/v3/lock"

	"github.com/ghuser/shopfloor/pkg/logger"
)

// VersionTable returns the goose bookkeeping table for service.
func VersionTable(service string) string {
	return "goose_db_version_" + service
}

func newProvider(db *sql.DB, files fs.FS, service string) (*goose.Provider, error) {
	store, err := database.NewStore(database.DialectPostgres, VersionTable(service))
	if err != nil {
		return nil, fmt.Errorf("%s version store: %w", service, err)
	}
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return nil, fmt.Errorf("%s session locker: %w", service, err)
	}
	return goose.NewProvider(goose.DialectCustom, db, files,
		goose.WithStore(store),
		goose.WithSessionLocker(locker),
		goose.WithAllowOutofOrder(true),
	)
}

// Up applies every pending migration for service and logs each one.
func Up(ctx context.Context, db *sql.DB, files fs.FS, service string, log logger.Logger) error {
	p, err := newProvider(db, files, service)
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", service, err)
	}
	for _, r := range results {
		log.InfoContext(ctx, "migration applied",
			"service", service, "version", r.Source.Version, "file", r.Source.Path, "duration", r.Duration)
	}
	if len(results) == 0 {
		log.InfoContext(ctx, "migrations up to date", "service", service)
	}
	return nil
}

// Run opens dsn and calls Up. Used by the per-context migration binaries.
func Run(ctx context.Context, dsn string, files fs.FS, service string, log logger.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck
	return Up(ctx, db, files, service, log)
}
