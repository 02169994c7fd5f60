package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"missioncontrol/internal/adapters/discord"
	"missioncontrol/internal/adapters/formcheck"
	"missioncontrol/internal/adapters/pagespeed"
	"missioncontrol/internal/adapters/storage"
	"missioncontrol/internal/config"
	"missioncontrol/internal/domain"
	"missioncontrol/internal/ports"
	"missioncontrol/internal/services/audits"
	"missioncontrol/internal/services/relay"
)

// openStore connects the backend chosen by the database URL.
func openStore(ctx context.Context, cfg *config.Config) (ports.Store, storage.Backend, error) {
	backend := storage.Select(cfg.Database.URL)
	store, err := storage.Open(ctx, backend, cfg.Database.URL, cfg.Database.Migrate)
	if err != nil {
		return nil, backend, err
	}
	log.Info().Str("backend", backend.String()).Msg("store ready")
	return store, backend, nil
}

func setupAuditRunner(cfg *config.Config, store ports.AuditWriter) *audits.Service {
	metrics := pagespeed.New(
		pagespeed.WithAPIKey(cfg.PageSpeed.APIKey),
		pagespeed.WithHTTPClient(&http.Client{Timeout: cfg.PageSpeed.RequestTimeout}),
	)
	return audits.New(store, metrics, formcheck.New())
}

// setupDiscord returns nil when no bot token is configured
func setupDiscord(cfg *config.Config) *discord.Client {
	if !cfg.DiscordConfigured() {
		log.Info().Msg("discord not configured, skipping")
		return nil
	}

	client, err := discord.New(
		cfg.Discord.BotToken,
		discord.WithHTTPClient(&http.Client{Timeout: cfg.Discord.RequestTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize discord client")
		return nil
	}
	return client
}

func channelTable(cfg *config.Config) relay.Channels {
	return relay.Channels{
		string(domain.SiteBruceAC): cfg.Discord.Channels.BruceAC,
		string(domain.SiteMeraki):  cfg.Discord.Channels.Meraki,
		relay.GeneralChannel:       cfg.Discord.Channels.General,
	}
}

// setupRelay returns nil when Discord is not configured
func setupRelay(cfg *config.Config, client *discord.Client, recs ports.RecommendationRepository) *relay.Relay {
	if client == nil {
		return nil
	}
	log.Info().Msg("discord relay configured")
	return relay.New(client, channelTable(cfg), relay.WithRecommendations(recs))
}
