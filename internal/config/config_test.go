package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCommand builds a command wired like the real root command, pointed at
// the given config file so the test never reads ~/.warden.
func newCommand(t *testing.T, configYAML string) *cobra.Command {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o644))

	cmd := &cobra.Command{Use: "warden"}
	cmd.Flags().String("config", "", "config file")
	cmd.Flags().String("log.level", DefaultLogLevel, "log level")
	cmd.Flags().String("bot.prefix", DefaultBotPrefix, "command prefix")
	cmd.Flags().String("store.path", "", "store base path")
	require.NoError(t, cmd.Flags().Set("config", path))
	return cmd
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newCommand(t, "{}"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBotPrefix, cfg.Bot.Prefix)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultStoreLockRetry, cfg.Store.LockRetry)
	assert.Equal(t, DefaultStoreLockMaxRetry, cfg.Store.LockMaxRetry)
	assert.Equal(t, DefaultSessionsIdleTTL, cfg.Sessions.IdleTTL)
	assert.Equal(t, DefaultSessionsSweepSchedule, cfg.Sessions.SweepSchedule)
	assert.False(t, cfg.Adapters.Discord.Enabled)
	assert.True(t, cfg.Adapters.Console.Enabled)
	assert.Equal(t, DefaultConsoleGuildID, cfg.Adapters.Console.GuildID)
}

func TestLoad_ConfigFile(t *testing.T) {
	cfg, err := Load(newCommand(t, `
bot:
  prefix: "?"
  owner_tag: "alice#1234"
sessions:
  idle_ttl: "10m"
adapters:
  discord:
    enabled: true
    token: "file-token"
`))
	require.NoError(t, err)

	assert.Equal(t, "?", cfg.Bot.Prefix)
	assert.Equal(t, "alice#1234", cfg.Bot.OwnerTag)
	assert.Equal(t, "10m", cfg.Sessions.IdleTTL)
	assert.True(t, cfg.Adapters.Discord.Enabled)
	assert.Equal(t, "file-token", cfg.Adapters.Discord.Token)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("WARDEN_LOG_LEVEL", "debug")
	t.Setenv("WARDEN_BOT_PREFIX", "$")

	cfg, err := Load(newCommand(t, "log:\n  level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "$", cfg.Bot.Prefix)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("WARDEN_LOG_LEVEL", "debug")

	cmd := newCommand(t, "{}")
	require.NoError(t, cmd.Flags().Set("log.level", "error"))

	cfg, err := Load(cmd)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_DiscordTokenFromEnv(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "env-token")

	cfg, err := Load(newCommand(t, "{}"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Adapters.Discord.Token)
}

func TestLoad_DiscordTokenFileWins(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "env-token")

	cfg, err := Load(newCommand(t, "adapters:\n  discord:\n    token: file-token\n"))
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.Adapters.Discord.Token)
}

func TestDurationOrDefault(t *testing.T) {
	cases := []struct {
		value, def string
		want       time.Duration
		wantErr    bool
	}{
		{"1m30s", "5m", 90 * time.Second, false},
		{"", "5m", 5 * time.Minute, false},
		{"", "", 0, false},
		{"0", "5m", 0, false},
		{"  250ms  ", "", 250 * time.Millisecond, false},
		{"soon", "", 0, true},
	}
	for _, tc := range cases {
		got, err := DurationOrDefault(tc.value, tc.def)
		if tc.wantErr {
			assert.Error(t, err, "value %q", tc.value)
			continue
		}
		require.NoError(t, err, "value %q", tc.value)
		assert.Equal(t, tc.want, got, "value %q", tc.value)
	}
}
