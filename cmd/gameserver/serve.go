package main

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/rs2go/internal/config"
	"github.com/udisondev/rs2go/internal/crypto"
	"github.com/udisondev/rs2go/internal/db"
	"github.com/udisondev/rs2go/internal/gameserver"
	"github.com/udisondev/rs2go/internal/login"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/world"
)

func init() {
	Root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	})
}

func serve(ctx context.Context, cfg config.GameServer) error {
	slog.Info("rs2go game server starting", "revision", cfg.Revision, "log_level", cfg.LogLevel)

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	defs, err := model.LoadEquipment(cfg.EquipmentPath)
	if err != nil {
		return fmt.Errorf("loading equipment: %w", err)
	}
	slog.Info("equipment definitions loaded", "path", cfg.EquipmentPath, "items", defs.Len())

	var key *rsa.PrivateKey
	if cfg.RSAKeyPath != "" {
		if key, err = crypto.LoadRSAKey(cfg.RSAKeyPath); err != nil {
			return fmt.Errorf("loading rsa key: %w", err)
		}
	} else {
		slog.Warn("no rsa key configured, login blocks are read in the clear")
	}

	profiles := db.NewProfileRepository(database.Pool())
	sessions := login.NewSessionManager(login.Limits{
		Capacity:      cfg.MaxPlayers,
		MaxAttempts:   cfg.LoginTryBeforeBan,
		BlockDuration: cfg.LoginBlockDuration(),
		MaxPerAddress: cfg.MaxConnectionPerIP,
	})
	handshaker := login.NewHandshaker(login.HandshakeConfig{
		Revision:   cfg.Revision,
		RSAKey:     key,
		AutoCreate: cfg.AutoCreateAccounts,
		Timeout:    cfg.ReadTimeout,
	}, profiles, sessions)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	w := world.New(cfg.MaxPlayers)
	srv := gameserver.NewServer(cfg, w, handshaker, profiles, defs, gameserver.NewMetrics(reg))
	sync := srv.Synchronizer()
	ticker := world.NewTicker(w, cfg.TickInterval, sync.Sync,
		world.WithMetrics(world.NewMetrics(reg)),
		world.WithLeaveHook(sync.Leave),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ticker.Run(gctx); err != nil {
			return fmt.Errorf("world ticker: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting game server", "port", cfg.Port)
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("game server: %w", err)
		}
		return nil
	})

	if cfg.MetricsAddress != "" {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.MetricsAddress, reg)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	hs := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	})
	defer stop()

	slog.Info("serving metrics", "address", addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
