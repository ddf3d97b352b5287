package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"invitefeed/internal/application"
	"invitefeed/internal/domain/entities"
	pkgdiscord "invitefeed/pkg/discord"
)

const (
	selectEventPrefix = "select_event_"
	maxSelectOptions  = 25
)

// eventSelect lists the feed's invites, in section order, in a menu whose
// id carries the bucket they were shown under.
func (h *Handler) eventSelect(locale string, bucket entities.Bucket, sections []application.Section) []discordgo.MessageComponent {
	var options []discordgo.SelectMenuOption
	for _, s := range sections {
		for _, e := range s.Events {
			if len(options) == maxSelectOptions {
				break
			}
			options = append(options, discordgo.SelectMenuOption{
				Label:       truncate(e.Title, 100),
				Value:       e.ID,
				Description: truncate(pkgdiscord.FormatWhen(h.t, locale, h.feed.Times(e)), 100),
			})
		}
	}
	if len(options) == 0 {
		return nil
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    selectEventPrefix + string(bucket),
				Placeholder: h.t.T(locale, "feed.select", nil),
				Options:     options,
			},
		}},
	}
}

// HandleSelectEvent opens the detail of the chosen invite and keeps the
// message in step with its changes until the interaction token expires.
func (h *Handler) HandleSelectEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	locale := h.localeOf(i)
	viewer := viewerFrom(i)
	data := i.MessageComponentData()
	if viewer == nil || len(data.Values) == 0 {
		respondEphemeral(s, i.Interaction, h.t.T(locale, "feed.signed_out", nil))
		return
	}
	bucket, err := entities.ParseBucket(strings.TrimPrefix(data.CustomID, selectEventPrefix))
	if err != nil {
		bucket = entities.BucketAll
	}

	id := data.Values[0]
	event, ok := h.feed.Event(id)
	if !ok {
		respondEphemeral(s, i.Interaction, "❌ "+h.t.T(locale, "error.event_not_found", nil))
		return
	}

	embeds, components := h.detailMessage(locale, viewer, bucket, event)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     embeds,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Error("❌ Erreur lors de l'envoi du détail", "event_id", id, "err", err)
		return
	}
	h.watch(s, i.Interaction, locale, viewer, bucket, id)
}
