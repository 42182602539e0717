package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/rs2go/internal/db/migrations"
)

// RunMigrations brings the profile schema up to date and returns the schema
// version it ends at. Already applied migrations are skipped.
func RunMigrations(ctx context.Context, dsn string) (int64, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("opening sql connection for migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		sqlDB.Close()
		return 0, fmt.Errorf("creating migration provider: %w", err)
	}
	defer provider.Close() // закрывает и sqlDB

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("applying migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}
