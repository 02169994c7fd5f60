// Package config loads service configuration from defaults, an optional YAML
// file, the environment (including a .env file) and command line flags, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/mcuadros/go-defaults"
	"github.com/spf13/pflag"
)

type Config struct {
	// Env names the deployment, e.g. development or production
	Env       string    `koanf:"env" default:"development"`
	Server    Server    `koanf:"server"`
	Database  Database  `koanf:"database"`
	Discord   Discord   `koanf:"discord"`
	PageSpeed PageSpeed `koanf:"pagespeed"`
	Cron      Cron      `koanf:"cron"`
	Poller    Poller    `koanf:"poller"`
}

type Server struct {
	Listen              string        `koanf:"listen" default:":8080"`
	ReadTimeout         time.Duration `koanf:"read_timeout" default:"30s"`
	WriteTimeout        time.Duration `koanf:"write_timeout" default:"6m"`
	ShutdownGracePeriod time.Duration `koanf:"shutdown_grace_period" default:"10s"`
}

type Database struct {
	// URL selects the Postgres backend when set; otherwise the in-memory demo store is used
	URL     string `koanf:"url" sensitive:"true"`
	Migrate bool   `koanf:"migrate" default:"true"`
}

type Discord struct {
	BotToken       string        `koanf:"bot_token" sensitive:"true"`
	BotID          string        `koanf:"bot_id" default:"1475400776485441567"`
	Channels       Channels      `koanf:"channels"`
	RequestTimeout time.Duration `koanf:"request_timeout" default:"10s"`
}

type Channels struct {
	BruceAC string `koanf:"bruceac" default:"1476075748958666873"`
	Meraki  string `koanf:"meraki" default:"1476075750162567268"`
	General string `koanf:"general" default:"1475414276478075035"`
}

type PageSpeed struct {
	APIKey         string        `koanf:"api_key" sensitive:"true"`
	RequestTimeout time.Duration `koanf:"request_timeout" default:"90s"`
}

type Cron struct {
	// Secret is the bearer token required by the cron endpoint; empty disables the check
	Secret string `koanf:"secret" sensitive:"true"`
}

type Poller struct {
	StateFile string        `koanf:"state_file" default:".discord-poller-state.json"`
	Interval  time.Duration `koanf:"interval" default:"5s"`
	Limit     int           `koanf:"limit" default:"5"`
}

// DiscordConfigured reports whether a bot token is available.
func (c *Config) DiscordConfigured() bool { return c.Discord.BotToken != "" }

// envKeys maps the supported environment variables onto config keys.
var envKeys = map[string]string{
	"APP_ENV":                 "env",
	"LISTEN_ADDR":             "server.listen",
	"DATABASE_URL":            "database.url",
	"DATABASE_MIGRATE":        "database.migrate",
	"DISCORD_BOT_TOKEN":       "discord.bot_token",
	"DISCORD_BOT_ID":          "discord.bot_id",
	"DISCORD_CHANNEL_BRUCEAC": "discord.channels.bruceac",
	"DISCORD_CHANNEL_MERAKI":  "discord.channels.meraki",
	"DISCORD_CHANNEL_GENERAL": "discord.channels.general",
	"PAGESPEED_API_KEY":       "pagespeed.api_key",
	"CRON_SECRET":             "cron.secret",
	"POLLER_STATE_FILE":       "poller.state_file",
	"POLL_INTERVAL":           "poller.interval",
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"listen":     "server.listen",
	"state-file": "poller.state_file",
	"interval":   "poller.interval",
}

// Load builds the configuration. cfgFile may be empty or point to a missing
// file; flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrConfigLoad, err)
	}

	k := koanf.New(".")

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrConfigLoad, cfgFile, err)
			}
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrConfigLoad, err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, fmt.Errorf("%w: flags: %v", ErrConfigLoad, err)
		}
	}

	cfg := &Config{}
	defaults.SetDefaults(cfg)
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}
	return cfg, nil
}

// msDurationKeys are duration settings whose environment value may also be a
// bare integer count of milliseconds, e.g. POLL_INTERVAL=5000.
var msDurationKeys = map[string]bool{
	"poller.interval": true,
}

// envKey skips unknown and empty variables so they never clobber defaults.
func envKey(name, value string) (string, any) {
	key, ok := envKeys[name]
	if !ok || value == "" {
		return "", nil
	}
	if msDurationKeys[key] {
		if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
			return key, (time.Duration(ms) * time.Millisecond).String()
		}
	}
	return key, value
}

func flagKey(flags *pflag.FlagSet) func(f *pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	}
}
