package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"missioncontrol/internal/adapters/storage"
	"missioncontrol/internal/config"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "run the weekly site audit once and relay the reports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return runAudit(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAudit(ctx context.Context, cfg *config.Config) error {
	if storage.Select(cfg.Database.URL) != storage.BackendPostgres {
		return storage.ErrPersistentStoreRequired
	}

	store, _, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := setupAuditRunner(cfg, store).Run(ctx)
	if err != nil {
		return fmt.Errorf("audit run: %w", err)
	}

	for _, r := range results {
		log.Info().Str("site", string(r.Site)).Int("lighthouse", r.Lighthouse).Int("issues", r.Issues).Msg("audit complete")
	}

	if rel := setupRelay(cfg, setupDiscord(cfg), store); rel != nil {
		if err := rel.ReportAudits(ctx, results); err != nil {
			log.Warn().Err(err).Msg("failed to relay audit reports")
		}
		if err := rel.AlertCriticalFindings(ctx, results); err != nil {
			log.Warn().Err(err).Msg("failed to post critical alerts")
		}
	}

	return nil
}
