package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"missioncontrol/internal/adapters/discord"
	"missioncontrol/internal/adapters/storage"
	"missioncontrol/internal/config"
	"missioncontrol/internal/domain"
	"missioncontrol/internal/services/bot"
	"missioncontrol/internal/services/dashboard"
	"missioncontrol/internal/services/relay"
	"missioncontrol/internal/workers/poller"
)

var errBotHealthCheck = errors.New("discord health check failed")

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "poll discord channels and answer bot commands",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return runBot(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
	botCmd.Flags().String("state-file", "", "poller state file (overrides POLLER_STATE_FILE)")
	botCmd.Flags().Duration("interval", 0, "poll interval (overrides POLL_INTERVAL)")
}

func runBot(ctx context.Context, cfg *config.Config) error {
	if !cfg.DiscordConfigured() {
		return discord.ErrMissingToken
	}

	client := setupDiscord(cfg)
	if client == nil {
		return errBotHealthCheck
	}
	if !client.HealthCheck(ctx) {
		return errBotHealthCheck
	}
	log.Info().Str("bot_id", cfg.Discord.BotID).Msg("discord connection ok")

	var opts []bot.Option
	if cfg.Database.URL != "" {
		store, err := storage.Open(ctx, storage.BackendPostgres, cfg.Database.URL, false)
		if err != nil {
			return err
		}
		defer store.Close()

		opts = append(opts, bot.WithDataSource(dashboard.New(store)))
		log.Info().Msg("bot commands answer from the audit database")
	}

	dispatcher := bot.NewDispatcher(cfg.Discord.BotID, client, opts...)

	channels := []poller.Channel{
		{Name: string(domain.SiteBruceAC), ID: cfg.Discord.Channels.BruceAC},
		{Name: string(domain.SiteMeraki), ID: cfg.Discord.Channels.Meraki},
		{Name: relay.GeneralChannel, ID: cfg.Discord.Channels.General},
	}

	p := poller.New(client, dispatcher, channels,
		poller.NewStateFile(cfg.Poller.StateFile),
		poller.WithInterval(cfg.Poller.Interval),
		poller.WithLimit(cfg.Poller.Limit),
	)

	log.Info().
		Dur("interval", cfg.Poller.Interval).
		Str("state_file", cfg.Poller.StateFile).
		Int("channels", len(channels)).
		Msg("starting discord poller")

	return p.Run(ctx)
}
