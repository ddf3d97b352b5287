package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"invitefeed/internal/domain/entities"
	pkgdiscord "invitefeed/pkg/discord"
)

const buttonPrefix = "btn_"

const (
	actionJoin   = "join"
	actionLeave  = "leave"
	actionHide   = "hide"
	actionUnhide = "unhide"
)

func actionID(action string, bucket entities.Bucket, eventID string) string {
	return fmt.Sprintf("%s%s_%s_%s", buttonPrefix, action, bucket, eventID)
}

// parseActionID splits a button id built by actionID.
func parseActionID(customID string) (action string, bucket entities.Bucket, eventID string, err error) {
	rest, ok := strings.CutPrefix(customID, buttonPrefix)
	if !ok {
		return "", "", "", fmt.Errorf("bouton inconnu: %q", customID)
	}
	parts := strings.SplitN(rest, "_", 3)
	if len(parts) != 3 || parts[2] == "" {
		return "", "", "", fmt.Errorf("bouton mal formé: %q", customID)
	}
	bucket, err = entities.ParseBucket(parts[1])
	if err != nil {
		return "", "", "", err
	}
	switch parts[0] {
	case actionJoin, actionLeave, actionHide, actionUnhide:
	default:
		return "", "", "", fmt.Errorf("action inconnue: %q", parts[0])
	}
	return parts[0], bucket, parts[2], nil
}

// availableActions lists what viewer can do on event from the given bucket:
// hosts get nothing, participants can leave, others can join; anyone but the
// host can hide, or unhide from the dismissed tab.
func availableActions(viewer *entities.Viewer, bucket entities.Bucket, event entities.Event) []string {
	var actions []string
	switch event.RelationTo(viewer.ID) {
	case entities.RelationHost:
		return nil
	case entities.RelationParticipant:
		actions = append(actions, actionLeave)
	default:
		if !event.IsFull() {
			actions = append(actions, actionJoin)
		}
	}
	if bucket == entities.BucketDismissed {
		return append(actions, actionUnhide)
	}
	return append(actions, actionHide)
}

func (h *Handler) actionButtons(locale string, viewer *entities.Viewer, bucket entities.Bucket, event entities.Event) []discordgo.MessageComponent {
	actions := availableActions(viewer, bucket, event)
	if len(actions) == 0 {
		return nil
	}
	buttons := make([]discordgo.MessageComponent, 0, len(actions))
	for _, a := range actions {
		style := discordgo.SecondaryButton
		switch a {
		case actionJoin:
			style = discordgo.SuccessButton
		case actionLeave:
			style = discordgo.DangerButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    h.t.T(locale, "action."+a, nil),
			Style:    style,
			CustomID: actionID(a, bucket, event.ID),
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func (h *Handler) detailMessage(locale string, viewer *entities.Viewer, bucket entities.Bucket, event entities.Event) ([]*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := pkgdiscord.EventDetailEmbed(h.t, locale, event, h.feed.Times(event), h.feed.Location())
	return []*discordgo.MessageEmbed{embed}, h.actionButtons(locale, viewer, bucket, event)
}

// watch keeps the detail message sent in response to interaction live. A
// viewer has at most one live detail; opening another closes the previous.
func (h *Handler) watch(s *discordgo.Session, interaction *discordgo.Interaction, locale string, viewer *entities.Viewer, bucket entities.Bucket, eventID string) {
	view := h.feed.Watch(context.Background(), eventID, func(event *entities.Event) {
		edit := &discordgo.WebhookEdit{}
		if event == nil {
			content := h.t.T(locale, "detail.deleted", nil)
			embeds := []*discordgo.MessageEmbed{}
			components := []discordgo.MessageComponent{}
			edit.Content, edit.Embeds, edit.Components = &content, &embeds, &components
		} else {
			embeds, components := h.detailMessage(locale, viewer, bucket, *event)
			if components == nil {
				components = []discordgo.MessageComponent{}
			}
			edit.Embeds, edit.Components = &embeds, &components
		}
		if _, err := s.InteractionResponseEdit(interaction, edit); err != nil {
			h.logger.Warn("⚠️ Mise à jour du détail impossible", "event_id", eventID, "err", err)
		}
	})

	w := &watch{view: view}
	w.timer = time.AfterFunc(detailLifetime, func() { h.unwatch(viewer.ID, w) })

	h.mu.Lock()
	prev := h.watching[viewer.ID]
	h.watching[viewer.ID] = w
	h.mu.Unlock()
	if prev != nil {
		prev.timer.Stop()
		prev.view.Close()
	}
}

func (h *Handler) unwatch(userID string, w *watch) {
	h.mu.Lock()
	if h.watching[userID] == w {
		delete(h.watching, userID)
	}
	h.mu.Unlock()
	w.view.Close()
}
