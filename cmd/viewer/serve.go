package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ton-sc-viewer/internal/api"
	"ton-sc-viewer/internal/config"
	"ton-sc-viewer/internal/daemons"
	"ton-sc-viewer/internal/database"
	"ton-sc-viewer/internal/fetcher"
	"ton-sc-viewer/internal/logging"
	"ton-sc-viewer/internal/metrics"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:	"serve",
		Short:	"Run the HTTP API",
		RunE:	runServe,
	}
	cmd.Flags().String("port", "", "listen address (overrides SERVER_PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.ServerPort = port
	}

	log := logging.New(cfg.LogLevel, cfg.LogJSON)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	metrics.MustRegister()

	client, err := newClient(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("❌ TON client init failed")
		return err
	}
	log.Info().Str("transport", cfg.Transport).Msg("✅ TON client initialized")

	f := fetcher.New(client, fetcherOptions(cfg,
		fetcher.WithRegistry(fetcher.NewTTLRegistry(cfg.CoalesceTTL)),
		fetcher.WithLogger(log.With().Str("component", "fetcher").Logger()),
	)...)

	var journal database.Journal = database.NopJournal{}
	var cleanerPool *daemons.DaemonPool

	if cfg.DatabaseURL != "" {
		db, err := database.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error().Err(err).Msg("❌ DB Init failed")
			return err
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			log.Error().Err(err).Msg("❌ DB Schema Init failed")
			return err
		}
		log.Info().Msg("✅ Database connected")
		journal = db

		cleanerCfg := daemons.CleanerConfig{Retention: cfg.LookupRetention, Interval: cfg.CleanerInterval}
		cleanerLog := log.With().Str("component", "cleaner").Logger()
		cleanerPool = daemons.NewPool(ctx, 1, func(ctx context.Context, id int, total int) {
			daemons.RunJournalCleaner(ctx, id, total, db, cleanerCfg, cleanerLog)
		})
		cleanerPool.Start()
		log.Info().Dur("retention", cfg.LookupRetention).Msg("✅ Started journal cleaner")
	} else {
		log.Warn().Msg("⚠️ DB_URL is empty, lookup journal disabled")
	}

	server := api.NewServer(f, api.Options{
		Journal:	journal,
		Logger:		log,
		LookupsLimit:	cfg.LookupsLimit,
		AccessLog:	log.GetLevel() <= zerolog.DebugLevel,
	})

	go func() {
		if err := server.Start(cfg.ServerPort); err != nil {
			log.Error().Err(err).Msg("❌ API Server Error")
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("🛑 Received signal. Shutting down...")
	case <-ctx.Done():
		log.Info().Msg("🛑 Context cancelled. Shutting down...")
	}

	if err := server.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("API shutdown")
	}

	if cleanerPool != nil {
		log.Info().Msg("Waiting for cleaner to finish...")
		cleanerPool.Stop()
	}

	cancel()

	log.Info().Msg("👋 Shutdown complete.")
	return nil
}
