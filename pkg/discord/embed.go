package discord

import (
	"fmt"
	"strings"
	"time"

	"invitefeed/internal/application"
	"invitefeed/internal/domain/entities"
	"invitefeed/internal/ports/output"

	"github.com/bwmarrin/discordgo"
)

const (
	embedColor = 0x5865F2

	// Discord limits.
	maxEmbeds         = 10
	maxFieldsPerEmbed = 25
	maxFieldValue     = 1024
)

// FormatPlaces renders seat usage, e.g. "3/4 places".
func FormatPlaces(t output.T, locale string, e entities.Event) string {
	if e.MaxSeats == nil {
		return t.T(locale, "card.seats_unlimited", map[string]any{"Taken": len(e.Participants)})
	}
	return t.T(locale, "card.seats", map[string]any{"Taken": len(e.Participants), "Max": *e.MaxSeats})
}

// EventFieldValue is the body of one invite inside a section embed.
func EventFieldValue(t output.T, locale string, e entities.Event, times application.DerivedTimes) string {
	var b strings.Builder
	b.WriteString("🕒 " + FormatWhen(t, locale, times))
	if e.Location != "" {
		b.WriteString("\n📍 " + e.Location)
	}
	b.WriteString("\n👥 " + FormatPlaces(t, locale, e))
	if n := len(e.ItineraryItems); n > 0 {
		b.WriteString("\n🗺️ " + t.T(locale, "card.itinerary", map[string]any{"Count": n}))
	}
	b.WriteString("\n" + t.T(locale, "card.host", map[string]any{"Host": fmt.Sprintf("<@%s>", e.HostID)}))
	return truncateField(b.String(), maxFieldValue)
}

// BuildSectionEmbeds renders one embed per feed section, in order. Sections
// and invites beyond Discord's limits are dropped.
func BuildSectionEmbeds(t output.T, locale string, title string, sections []application.Section, times func(entities.Event) application.DerivedTimes) []*discordgo.MessageEmbed {
	if len(sections) == 0 {
		return []*discordgo.MessageEmbed{{
			Title:       title,
			Description: t.T(locale, "feed.empty", nil),
			Color:       embedColor,
		}}
	}

	embeds := make([]*discordgo.MessageEmbed, 0, min(len(sections), maxEmbeds))
	for i, s := range sections {
		if i == maxEmbeds {
			break
		}
		embed := &discordgo.MessageEmbed{
			Title: SectionLabel(t, locale, s),
			Color: embedColor,
		}
		if i == 0 {
			embed.Author = &discordgo.MessageEmbedAuthor{Name: title}
		}
		for j, e := range s.Events {
			if j == maxFieldsPerEmbed {
				break
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  e.Title,
				Value: EventFieldValue(t, locale, e, times(e)),
			})
		}
		embeds = append(embeds, embed)
	}
	return embeds
}

// EventDetailEmbed renders a single invite with its full itinerary.
func EventDetailEmbed(t output.T, locale string, e entities.Event, times application.DerivedTimes, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: truncateField(e.Description, 4096),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: t.T(locale, "detail.when", nil), Value: FormatWhen(t, locale, times)},
			{Name: t.T(locale, "detail.seats", nil), Value: FormatPlaces(t, locale, e), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: e.Slug},
	}
	if e.Location != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: t.T(locale, "detail.where", nil), Value: truncateField(e.Location, maxFieldValue), Inline: true,
		})
	}
	if e.ActivityType != "" {
		embed.Footer.Text = e.ActivityType + " · " + e.Slug
	}

	if len(e.ItineraryItems) > 0 {
		var b strings.Builder
		for _, item := range e.ItineraryItems {
			line := "• " + item.Title
			if start, end, ok := application.ItemWindow(item, loc); ok {
				line = fmt.Sprintf("• %s–%s %s", start.Format(application.TimeLayout), end.Format(application.TimeLayout), item.Title)
			}
			if item.Location != "" {
				line += " (" + item.Location + ")"
			}
			b.WriteString(line + "\n")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  t.T(locale, "detail.itinerary", nil),
			Value: truncateField(strings.TrimSuffix(b.String(), "\n"), maxFieldValue),
		})
	}

	if len(e.Participants) > 0 {
		mentions := make([]string, 0, len(e.Participants))
		for _, p := range e.Participants {
			mentions = append(mentions, fmt.Sprintf("<@%s>", p))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  t.T(locale, "detail.participants", nil),
			Value: truncateField(strings.Join(mentions, " "), maxFieldValue),
		})
	}
	return embed
}

// truncateField cuts s to at most n runes.
func truncateField(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
