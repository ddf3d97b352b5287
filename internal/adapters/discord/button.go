package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"invitefeed/internal/domain"
	"invitefeed/internal/domain/entities"
	pkgdiscord "invitefeed/pkg/discord"
)

// HandleAction runs a join/leave/hide/unhide button and redraws the detail
// message it sits on.
func (h *Handler) HandleAction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	locale := h.localeOf(i)
	viewer := viewerFrom(i)
	if viewer == nil {
		respondEphemeral(s, i.Interaction, h.t.T(locale, "feed.signed_out", nil))
		return
	}

	action, bucket, eventID, err := parseActionID(i.MessageComponentData().CustomID)
	if err != nil {
		h.logger.Warn("⚠️ Bouton invalide", "user", viewer.ID, "err", err)
		respondEphemeral(s, i.Interaction, "❌ "+h.t.T(locale, "error.generic", nil))
		return
	}

	event, reply, err := h.runAction(ctx, locale, viewer, action, eventID)
	if err != nil {
		h.logger.Info("action refusée", "user", viewer.ID, "action", action, "event_id", eventID, "err", err)
		respondEphemeral(s, i.Interaction, "❌ "+pkgdiscord.DomainErrorMessage(h.t, locale, err))
		return
	}

	switch action {
	case actionHide:
		bucket = entities.BucketDismissed
	case actionUnhide:
		bucket = entities.BucketAll
	}
	embeds, components := h.detailMessage(locale, viewer, bucket, event)
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    reply,
			Embeds:     embeds,
			Components: components,
		},
	})
	if err != nil {
		h.logger.Error("❌ Erreur lors de la mise à jour du message", "event_id", eventID, "err", err)
	}
}

// runAction applies action and returns the event to redraw with the reply
// to show above it.
func (h *Handler) runAction(ctx context.Context, locale string, viewer *entities.Viewer, action, eventID string) (entities.Event, string, error) {
	switch action {
	case actionJoin:
		updated, err := h.membership.Join(ctx, viewer, eventID)
		if err != nil {
			return entities.Event{}, "", err
		}
		return *updated, h.t.T(locale, "reply.joined", map[string]any{"Title": updated.Title}), nil
	case actionLeave:
		updated, err := h.membership.Leave(ctx, viewer, eventID)
		if err != nil {
			return entities.Event{}, "", err
		}
		return *updated, h.t.T(locale, "reply.left", map[string]any{"Title": updated.Title}), nil
	}

	event, ok := h.feed.Event(eventID)
	if !ok {
		return entities.Event{}, "", domain.ErrEventNotFound
	}
	if action == actionUnhide {
		if err := h.membership.Unhide(ctx, viewer, eventID); err != nil {
			return entities.Event{}, "", err
		}
		return event, h.t.T(locale, "reply.unhidden", nil), nil
	}
	if err := h.membership.Hide(ctx, viewer, eventID); err != nil {
		return entities.Event{}, "", err
	}
	return event, h.t.T(locale, "reply.hidden", nil), nil
}
