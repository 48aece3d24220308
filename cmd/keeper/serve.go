package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/server"
	"github.com/KirkDiggler/coc-keeper/internal/telemetry"
	"github.com/KirkDiggler/coc-keeper/internal/transport/discord"
)

const (
	shutdownTimeout = 30 * time.Second
	healthInterval  = 5 * time.Second
)

var (
	serveRedisURL    string
	serveSheetStore  string
	serveMetricsAddr string
	serveHealthPort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and serve rooms",
	Long:  `Connect to Discord, answer commands in every channel the bot can read and expose health and metrics endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveRedisURL, "redis-url", "", "override KEEPER_REDIS_URL")
	serveCmd.Flags().StringVar(&serveSheetStore, "sheet-store", "", "override KEEPER_SHEET_STORE (redis|sqlite)")
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", "", "override KEEPER_METRICS_ADDR")
	serveCmd.Flags().IntVar(&serveHealthPort, "health-port", 0, "override KEEPER_HEALTH_PORT")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("redis-url") {
		cfg.RedisURL = serveRedisURL
	}
	if cmd.Flags().Changed("sheet-store") {
		cfg.SheetStore = serveSheetStore
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.MetricsAddr = serveMetricsAddr
	}
	if cmd.Flags().Changed("health-port") {
		cfg.HealthPort = serveHealthPort
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if err := cfg.RequireDiscord(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: "coc-keeper",
		Version:     cfg.Version,
	})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bot, err := discord.New(&discord.Config{Token: cfg.DiscordToken})
	if err != nil {
		return err
	}

	a, err := buildApp(ctx, cfg, bot, registry)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to close storage", "error", err)
		}
	}()

	httpSrv, err := server.NewHTTPServer(&server.HTTPConfig{
		Addr:     cfg.MetricsAddr,
		Gatherer: registry,
		Checks:   map[string]server.Check{"redis": a.pingRedis},
	})
	if err != nil {
		return err
	}

	grpcSrv, err := server.NewGRPCServer(cfg.HealthPort)
	if err != nil {
		return err
	}

	if err := bot.Start(ctx, a.handler); err != nil {
		return err
	}

	errChan := make(chan error, 2)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil {
			errChan <- err
		}
	}()
	go func() {
		if err := grpcSrv.Serve(); err != nil {
			errChan <- err
		}
	}()
	go grpcSrv.Watch(ctx, healthInterval, bot.Connected)

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal, gracefully stopping...")
	case runErr = <-errChan:
		slog.Error("server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := bot.Stop(); err != nil {
		slog.Warn("failed to stop discord bot", "error", err)
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("failed to stop ops HTTP server", "error", err)
	}
	grpcSrv.Stop(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Warn("failed to flush traces", "error", err)
	}

	slog.Info("keeper stopped")
	return runErr
}
