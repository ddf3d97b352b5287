package discord

import (
	"strconv"

	"invitefeed/internal/application"
	"invitefeed/internal/ports/output"
)

// FormatWhen renders the "when" line of an invite card from its derived
// times: two date+time lines for multi-day ranges, one date with a time
// range otherwise, or a lone start when there is no end.
func FormatWhen(t output.T, locale string, d application.DerivedTimes) string {
	switch {
	case d.ShowMultiDay:
		return t.T(locale, "card.when.multi", map[string]any{
			"Start": d.StartDateText + " " + d.StartTimeText,
			"End":   d.EndDateText + " " + d.EndTimeText,
		})
	case d.ShowItineraryTimesOnly:
		return t.T(locale, "card.when.range", map[string]any{
			"Date":  d.StartDateText,
			"Range": d.TimeRangeText,
		})
	default:
		return t.T(locale, "card.when.single", map[string]any{
			"Date": d.StartDateText,
			"Time": d.StartTimeText,
		})
	}
}

// SectionLabel localises a feed section header.
func SectionLabel(t output.T, locale string, s application.Section) string {
	if s.Kind == application.SectionMonth {
		return t.T(locale, "section.month", map[string]any{
			"Month": t.T(locale, "month."+strconv.Itoa(int(s.Month.Month())), nil),
			"Year":  s.Month.Year(),
		})
	}
	return t.T(locale, "section."+string(s.Kind), nil)
}
