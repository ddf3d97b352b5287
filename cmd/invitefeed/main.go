package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"invitefeed/internal/adapters/discord"
	"invitefeed/internal/application"
	"invitefeed/internal/config"
	"invitefeed/internal/infrastructure/database"
	"invitefeed/internal/infrastructure/i18n"
	"invitefeed/internal/infrastructure/memory"
	"invitefeed/internal/infrastructure/realtime"
	"invitefeed/internal/infrastructure/scheduler"
	"invitefeed/internal/ports/output"
	"invitefeed/pkg/tz"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("❌ Configuration invalide", "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("❌ Arrêt sur erreur", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := tz.Load(cfg.Timezone)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(logger)
	g, gctx := errgroup.WithContext(ctx)

	var (
		repo  output.EventRepository
		store output.DismissalStore
	)
	switch cfg.Storage {
	case config.StorageMemory:
		repo = memory.NewStore(hub.Publish)
		logger.Info("💾 Stockage en mémoire")
	default:
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return err
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		repo = database.NewEventRepository(pool, output.StaticSession(cfg.ViewerID))
		store = database.NewDismissalRepository(pool)

		switch cfg.PushTransport {
		case config.TransportWebSocket:
			g.Go(func() error { return realtime.NewWSClient(cfg.PushWSURL, hub, logger).Run(gctx) })
		default:
			g.Go(func() error { return database.NewListener(pool, hub, logger).Run(gctx) })
		}
	}

	feed := application.NewLiveFeed(repo, hub, logger)
	if err := feed.Load(ctx); err != nil {
		logger.Warn("⚠️ Premier chargement du fil échoué, la resynchronisation prendra le relais", "err", err)
	}
	feed.Start(gctx)
	defer feed.Stop()

	dismissals := application.NewDismissals(store)
	if err := dismissals.RestoreAll(ctx); err != nil {
		logger.Warn("⚠️ Invitations masquées non restaurées", "err", err)
	}

	resync, err := scheduler.NewResync(cfg.ResyncCron, feed, loc, logger)
	if err != nil {
		return err
	}
	g.Go(func() error { return resync.Run(gctx) })

	feedService := application.NewFeedService(feed, dismissals, loc)
	membershipService := application.NewMembershipService(repo, feed, dismissals)

	if cfg.DiscordEnabled() {
		t := i18n.NewTranslator(cfg.Locale, logger)
		bot, err := discord.NewBot(cfg, feedService, membershipService, t, logger)
		if err != nil {
			return err
		}
		g.Go(func() error { return bot.Start(gctx) })
	} else {
		logger.Info("ℹ️ DISCORD_TOKEN absent, pas d'interface Discord")
	}

	logger.Info("✅ Fil d'invitations démarré", "storage", cfg.Storage, "transport", cfg.PushTransport, "events", feed.Len())
	return g.Wait()
}
