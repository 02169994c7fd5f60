package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpadapter "missioncontrol/internal/adapters/http"
	"missioncontrol/internal/config"
	"missioncontrol/internal/services/dashboard"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the dashboard api server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "listen address (overrides LISTEN_ADDR)")
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, backend, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := []httpadapter.Option{httpadapter.WithCronSecret(cfg.Cron.Secret)}
	if rel := setupRelay(cfg, setupDiscord(cfg), store); rel != nil {
		opts = append(opts, httpadapter.WithReporter(rel))
	}
	if cfg.Cron.Secret == "" {
		log.Warn().Msg("CRON_SECRET not set, cron endpoint is unauthenticated")
	}

	api := httpadapter.New(dashboard.New(store), setupAuditRunner(cfg, store), backend, opts...)

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      api.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Str("backend", backend.String()).Msg("starting mission control api")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
