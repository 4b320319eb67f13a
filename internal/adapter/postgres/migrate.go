package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/migrations"
)

// MigrationDirection selects what Migrate does.
type MigrationDirection string

const (
	MigrateUp     MigrationDirection = "up"
	MigrateDown   MigrationDirection = "down"
	MigrateStatus MigrationDirection = "status"
)

// Migrate applies, rolls back one step of, or reports on the embedded goose
// migrations using a database/sql handle borrowed from the pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, dir MigrationDirection, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	switch dir {
	case MigrateUp:
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		for _, r := range results {
			log.InfoContext(ctx, "migration applied",
				slog.String("file", r.Source.Path),
				slog.Duration("took", r.Duration),
			)
		}
		if len(results) == 0 {
			log.InfoContext(ctx, "migrations up to date")
		}
	case MigrateDown:
		r, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		log.InfoContext(ctx, "migration rolled back", slog.String("file", r.Source.Path))
	case MigrateStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		for _, s := range statuses {
			log.InfoContext(ctx, "migration",
				slog.Int64("version", s.Source.Version),
				slog.String("file", s.Source.Path),
				slog.String("state", string(s.State)),
			)
		}
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}

	return nil
}
