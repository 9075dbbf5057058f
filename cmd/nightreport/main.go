package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lsst-ts/nightreport/internal/api"
	"github.com/lsst-ts/nightreport/internal/config"
	"github.com/lsst-ts/nightreport/internal/daemon"
	nrlog "github.com/lsst-ts/nightreport/internal/log"
	"github.com/lsst-ts/nightreport/internal/storage"
	"github.com/lsst-ts/nightreport/internal/telemetry"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded
	nrlog.Configure(nrlog.Config{
		Service: "nightreport",
		Version: version,
	})

	logger := nrlog.WithComponent("daemon")

	// Create a context that listens for the interrupt signal from the OS
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Msg("failed to load configuration")
	}

	// Re-configure logger with loaded configuration
	nrlog.Configure(nrlog.Config{
		Level:   cfg.LogLevel,
		Service: "nightreport",
		Version: version,
	})

	logger.Info().
		Str(nrlog.FieldEvent, "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str(nrlog.FieldSiteID, cfg.SiteID).
		Str("addr", cfg.ListenAddr).
		Msg("starting nightreport")

	logger.Info().Msgf("→ Database: %s@%s:%d/%s", cfg.DB.User, cfg.DB.Host, cfg.DB.Port, cfg.DB.Database)
	if cfg.MetricsAddr != "" {
		logger.Info().Msgf("→ Metrics: %s", cfg.MetricsAddr)
	}
	if cfg.TracingEnabled {
		logger.Info().Msgf("→ Tracing: %s (%s)", cfg.TracingEndpoint, cfg.TracingExporter)
	}

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    "nightreport",
		ServiceVersion: version,
		Environment:    cfg.Environment,
		ExporterType:   cfg.TracingExporter,
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   cfg.TracingSampling,
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "telemetry.init_failed").
			Msg("failed to initialize tracing")
	}

	store, err := storage.NewPostgres(ctx, cfg.DB.URL())
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "storage.init_failed").
			Msg("failed to connect to database")
	}

	s := api.New(cfg, store, api.WithVersion(version))

	serverCfg := config.ParseServerConfig(cfg.ListenAddr)

	deps := daemon.Deps{
		Logger:         logger,
		APIHandler:     s.Handler(),
		MetricsHandler: promhttp.Handler(),
		MetricsAddr:    cfg.MetricsAddr,
	}

	mgr, err := daemon.NewManager(serverCfg, deps)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.creation.failed").
			Msg("failed to create daemon manager")
	}

	mgr.RegisterShutdownHook("storage", func(ctx context.Context) error {
		store.Close()
		return nil
	})
	mgr.RegisterShutdownHook("telemetry", provider.Shutdown)

	// Blocks until shutdown
	if err := mgr.Start(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon manager failed")
	}
}
