package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"invitefeed/internal/application"
	"invitefeed/internal/domain/entities"
	pkgdiscord "invitefeed/pkg/discord"
)

const feedCommandName = "invitations"

func feedCommand() *discordgo.ApplicationCommand {
	bucketChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(entities.Buckets))
	for _, b := range entities.Buckets {
		bucketChoices = append(bucketChoices, &discordgo.ApplicationCommandOptionChoice{Name: string(b), Value: string(b)})
	}
	horizonChoices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Toutes les dates", Value: string(entities.HorizonAll)},
		{Name: "Aujourd'hui", Value: string(entities.HorizonToday)},
		{Name: "Demain", Value: string(entities.HorizonTomorrow)},
		{Name: "Cette semaine", Value: string(entities.HorizonWeek)},
	}
	return &discordgo.ApplicationCommand{
		Name:        feedCommandName,
		Description: "Afficher tes invitations",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "bucket", Description: "Onglet du fil", Choices: bucketChoices},
			{Type: discordgo.ApplicationCommandOptionString, Name: "horizon", Description: "Fenêtre de temps", Choices: horizonChoices},
			{Type: discordgo.ApplicationCommandOptionString, Name: "category", Description: "Type d'activité", Autocomplete: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "search", Description: "Recherche dans le titre, le lieu ou la description"},
			{Type: discordgo.ApplicationCommandOptionBoolean, Name: "open_seats", Description: "Seulement les invitations avec des places libres"},
		},
	}
}

// categoryChoices keeps the categories containing typed, at most
// maxSelectOptions of them.
func categoryChoices(categories []string, typed string) []*discordgo.ApplicationCommandOptionChoice {
	typed = strings.ToLower(strings.TrimSpace(typed))
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, min(len(categories), maxSelectOptions))
	for _, c := range categories {
		if len(choices) == maxSelectOptions {
			break
		}
		if typed != "" && !strings.Contains(strings.ToLower(c), typed) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: truncate(c, 100), Value: c})
	}
	return choices
}

// HandleCategoryAutocomplete suggests the activity types currently in the feed.
func (h *Handler) HandleCategoryAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var typed string
	for _, o := range i.ApplicationCommandData().Options {
		if o.Name == "category" && o.Focused {
			typed = o.StringValue()
		}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: categoryChoices(h.feed.Categories(), typed)},
	})
	if err != nil {
		h.logger.Warn("⚠️ Suggestions de catégories non envoyées", "err", err)
	}
}

// filterFromOptions maps slash command options onto a feed filter.
func filterFromOptions(options []*discordgo.ApplicationCommandInteractionDataOption) (application.FeedFilter, error) {
	filter := application.FeedFilter{
		Bucket:   entities.BucketAll,
		Category: application.CategoryAll,
		Horizon:  entities.HorizonAll,
	}
	for _, o := range options {
		switch o.Name {
		case "bucket":
			b, err := entities.ParseBucket(o.StringValue())
			if err != nil {
				return filter, err
			}
			filter.Bucket = b
		case "horizon":
			hz, err := entities.ParseHorizon(o.StringValue())
			if err != nil {
				return filter, err
			}
			filter.Horizon = hz
		case "category":
			if v := o.StringValue(); v != "" {
				filter.Category = v
			}
		case "search":
			filter.Search = o.StringValue()
		case "open_seats":
			filter.OpenSeatsOnly = o.BoolValue()
		default:
			return filter, fmt.Errorf("option inconnue: %q", o.Name)
		}
	}
	return filter, nil
}

// HandleFeedCommand answers /invitations with the viewer's grouped feed and a
// menu to open one invite.
func (h *Handler) HandleFeedCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	locale := h.localeOf(i)
	viewer := viewerFrom(i)
	if viewer == nil {
		respondEphemeral(s, i.Interaction, h.t.T(locale, "feed.signed_out", nil))
		return
	}

	filter, err := filterFromOptions(i.ApplicationCommandData().Options)
	if err != nil {
		h.logger.Warn("⚠️ Options de commande invalides", "user", viewer.ID, "err", err)
		respondEphemeral(s, i.Interaction, "❌ "+h.t.T(locale, "error.generic", nil))
		return
	}

	sections := h.feed.Sections(viewer, filter, h.now())
	title := h.t.T(locale, "feed.title", map[string]any{
		"Bucket": h.t.T(locale, "bucket."+string(filter.Bucket), nil),
	})
	embeds := pkgdiscord.BuildSectionEmbeds(h.t, locale, title, sections, h.feed.Times)

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     embeds,
			Components: h.eventSelect(locale, filter.Bucket, sections),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Error("❌ Erreur lors de l'envoi du fil", "user", viewer.ID, "err", err)
	}
}
