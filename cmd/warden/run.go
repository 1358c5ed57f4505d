package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wardenlabs/warden/internal/adapter"
	"github.com/wardenlabs/warden/internal/commands"
	"github.com/wardenlabs/warden/internal/config"
	"github.com/wardenlabs/warden/internal/dispatch"
	"github.com/wardenlabs/warden/internal/links"
	"github.com/wardenlabs/warden/internal/permission"
	"github.com/wardenlabs/warden/internal/session"
	"github.com/wardenlabs/warden/internal/settings"
	"github.com/wardenlabs/warden/internal/store"
	"github.com/wardenlabs/warden/internal/trigger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run(cfg *config.Config) error {
	signals := NewSignalHandler(context.Background())
	signals.Start()
	defer signals.Stop()
	ctx := signals.Context()

	lockRetry, err := config.DurationOrDefault(cfg.Store.LockRetry, config.DefaultStoreLockRetry)
	if err != nil {
		return fmt.Errorf("store.lock_retry: %w", err)
	}
	db, err := store.Open(cfg.Store.Path, store.Config{
		Lock: store.FileLockConfig{Retry: lockRetry, MaxRetry: cfg.Store.LockMaxRetry},
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	manager, err := adapter.NewManager(cfg.Adapters)
	if err != nil {
		return err
	}

	st := settings.New(db)
	perms := permission.NewResolver(st, manager, cfg.Bot.OwnerTag)
	runtime := session.NewRuntime()

	idleTTL, err := config.DurationOrDefault(cfg.Sessions.IdleTTL, config.DefaultSessionsIdleTTL)
	if err != nil {
		return fmt.Errorf("sessions.idle_ttl: %w", err)
	}
	sweeper, err := session.NewSweeper(runtime, idleTTL, cfg.Sessions.SweepSchedule)
	if err != nil {
		return fmt.Errorf("sessions.sweep_schedule: %w", err)
	}

	registry := dispatch.NewRegistry()
	commands.Register(registry, cfg.Bot.Prefix, commands.Deps{
		Settings:  st,
		Links:     links.New(db),
		Sessions:  runtime,
		Perms:     perms,
		Directory: manager,
		Version:   Version,
	})

	dispatcher := dispatch.New(cfg.Bot.Prefix, registry, st, perms, runtime, trigger.New(st))

	if err := manager.Start(ctx, dispatcher); err != nil {
		return err
	}
	sweeper.Start()
	slog.Info("bot running", "prefix", cfg.Bot.Prefix)

	<-ctx.Done()

	shutdown := context.Background()
	sweeper.Stop()
	manager.Stop(shutdown)
	slog.Info("bot stopped")
	return nil
}
