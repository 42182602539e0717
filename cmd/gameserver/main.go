package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/udisondev/rs2go/internal/config"
	"github.com/udisondev/rs2go/internal/db"
)

const ConfigPath = "config/gameserver.yaml"

var (
	Root = &cobra.Command{
		Use:           "gameserver",
		Short:         "RS2 game server",
		SilenceErrors: true,
	}
	fConfig = Root.PersistentFlags().StringP("config", "c", "", "config file (default $RS2GO_CONFIG or "+ConfigPath+")")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Root.ExecuteContext(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// loadConfig reads the game server config and installs the logger.
func loadConfig() (config.GameServer, error) {
	path := *fConfig
	if path == "" {
		path = ConfigPath
		if p := os.Getenv("RS2GO_CONFIG"); p != "" {
			path = p
		}
	}
	cfg, err := config.LoadGameServer(path)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return cfg, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
	return cfg, nil
}

// openDatabase connects and applies pending migrations.
func openDatabase(ctx context.Context, cfg config.GameServer) (*db.DB, error) {
	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	version, err := db.RunMigrations(ctx, cfg.Database.DSN())
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready", "schema_version", version)
	return database, nil
}
