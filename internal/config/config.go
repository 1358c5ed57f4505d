package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Bot      BotConfig      `koanf:"bot"`
	Log      LogConfig      `koanf:"log"`
	Store    StoreConfig    `koanf:"store"`
	Sessions SessionsConfig `koanf:"sessions"`
	Adapters AdaptersConfig `koanf:"adapters"`
}

type BotConfig struct {
	Prefix   string `koanf:"prefix"`
	OwnerTag string `koanf:"owner_tag"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type StoreConfig struct {
	Path         string `koanf:"path"`
	LockRetry    string `koanf:"lock_retry"`
	LockMaxRetry int    `koanf:"lock_max_retry"`
}

type SessionsConfig struct {
	IdleTTL       string `koanf:"idle_ttl"`
	SweepSchedule string `koanf:"sweep_schedule"`
}

type AdaptersConfig struct {
	Discord DiscordConfig `koanf:"discord"`
	Console ConsoleConfig `koanf:"console"`
}

type DiscordConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token"`
}

type ConsoleConfig struct {
	Enabled bool   `koanf:"enabled"`
	GuildID string `koanf:"guild_id"`
	UserTag string `koanf:"user_tag"`
}

const (
	DefaultBotPrefix             = "!"
	DefaultLogLevel              = "info"
	DefaultStoreLockRetry        = "250ms"
	DefaultStoreLockMaxRetry     = 8
	DefaultSessionsIdleTTL       = "0"
	DefaultSessionsSweepSchedule = "@every 5m"
	DefaultConsoleGuildID        = "console"
	DefaultConsoleUserTag        = "operator#0000"
)

// Load layers hardcoded defaults, an optional YAML file, WARDEN_ environment
// variables, and the command's flags, in that order. When no --config flag is
// set, ~/.warden/config.yaml is tried and missing files are ignored.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"bot.prefix":                DefaultBotPrefix,
		"bot.owner_tag":             "",
		"log.level":                 DefaultLogLevel,
		"store.path":                "",
		"store.lock_retry":          DefaultStoreLockRetry,
		"store.lock_max_retry":      DefaultStoreLockMaxRetry,
		"sessions.idle_ttl":         DefaultSessionsIdleTTL,
		"sessions.sweep_schedule":   DefaultSessionsSweepSchedule,
		"adapters.discord.enabled":  false,
		"adapters.discord.token":    "",
		"adapters.console.enabled":  true,
		"adapters.console.guild_id": DefaultConsoleGuildID,
		"adapters.console.user_tag": DefaultConsoleUserTag,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".warden", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	k.Load(env.Provider("WARDEN_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "WARDEN_")), "_", ".", -1)
	}), nil)

	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if token := os.Getenv("DISCORD_BOT_TOKEN"); token != "" && cfg.Adapters.Discord.Token == "" {
		cfg.Adapters.Discord.Token = token
	}

	return &cfg, nil
}
