package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"invitefeed/internal/config"
	"invitefeed/internal/ports/input"
	"invitefeed/internal/ports/output"
)

// Bot is the Discord adapter.
type Bot struct {
	session *discordgo.Session
	guildID string
	handler *Handler
	logger  *slog.Logger
}

// NewBot creates a Bot and wires the use cases into the interaction handler.
func NewBot(cfg *config.Config, feed input.FeedUseCase, membership input.MembershipUseCase, t output.T, logger *slog.Logger) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("création de la session Discord: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		session: s,
		guildID: cfg.GuildID,
		handler: NewHandler(feed, membership, t, cfg.Locale, logger),
		logger:  logger,
	}
	bot.setupHandlers()
	return bot, nil
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleInteraction)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == feedCommandName {
			b.handler.HandleFeedCommand(s, i)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		if i.ApplicationCommandData().Name == feedCommandName {
			b.handler.HandleCategoryAutocomplete(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case strings.HasPrefix(customID, selectEventPrefix):
			b.handler.HandleSelectEvent(s, i)
		case strings.HasPrefix(customID, buttonPrefix):
			b.handler.HandleAction(s, i)
		}
	}
}

// Start opens the gateway, registers the slash command and blocks until ctx
// is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("erreur lors de l'ouverture de la session: %w", err)
	}
	defer b.session.Close()
	defer b.handler.CloseAll()

	if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, feedCommand()); err != nil {
		b.logger.Warn("⚠️ Erreur lors de l'enregistrement de la commande", "command", feedCommandName, "err", err)
	}

	b.logger.Info("🤖 Bot en ligne", "user", b.session.State.User.Username, "guild", b.guildID)
	<-ctx.Done()
	b.logger.Info("🛑 Arrêt du bot")
	return nil
}
