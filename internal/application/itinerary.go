package application

import (
	"strings"
	"time"

	"invitefeed/internal/domain/entities"
)

// Display layouts used for the derived text fields.
const (
	DateLayout = "Mon, Jan 2"
	TimeLayout = "15:04"
)

// itemLayouts are tried in order when parsing an itinerary item start.
var itemLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// DerivedTimes is what the feed card shows as "when".
type DerivedTimes struct {
	Start time.Time
	End   *time.Time

	// FromItinerary is set when at least one itinerary item was usable.
	FromItinerary bool

	// ShowMultiDay: render separate start and end date+time lines.
	ShowMultiDay bool
	// ShowItineraryTimesOnly: render one date with a time range, even when
	// the range crosses midnight.
	ShowItineraryTimesOnly bool

	StartDateText string
	StartTimeText string
	EndDateText   string
	EndTimeText   string
	TimeRangeText string
}

// DeriveTimes computes the effective range of event. When the event has an
// itinerary the range spans all parseable items; otherwise the stored
// start/end are used. Times are rendered in loc (time.Local when nil).
func DeriveTimes(event entities.Event, loc *time.Location) DerivedTimes {
	if loc == nil {
		loc = time.Local
	}

	var out DerivedTimes
	start, end, ok := itineraryRange(event.ItineraryItems, loc)
	if ok {
		out.Start = start
		out.End = &end
		out.FromItinerary = true
	} else {
		out.Start = event.StartTime.In(loc)
		if event.EndTime != nil {
			e := event.EndTime.In(loc)
			out.End = &e
		}
	}

	out.StartDateText = out.Start.Format(DateLayout)
	out.StartTimeText = out.Start.Format(TimeLayout)
	if out.End == nil {
		return out
	}

	span := out.End.Sub(out.Start)
	switch {
	case span >= 24*time.Hour:
		out.ShowMultiDay = true
	case span >= 0:
		out.ShowItineraryTimesOnly = true
	}
	out.EndDateText = out.End.Format(DateLayout)
	out.EndTimeText = out.End.Format(TimeLayout)
	if out.ShowItineraryTimesOnly {
		out.TimeRangeText = out.StartTimeText + " – " + out.EndTimeText
	}
	return out
}

// itineraryRange returns [min start, max start+duration] over the items
// that parse. ok is false when no item is usable.
func itineraryRange(items []entities.ItineraryItem, loc *time.Location) (start, end time.Time, ok bool) {
	for _, item := range items {
		s, e, usable := ItemWindow(item, loc)
		if !usable {
			continue
		}
		if !ok || s.Before(start) {
			start = s
		}
		if !ok || e.After(end) {
			end = e
		}
		ok = true
	}
	return start, end, ok
}

// ItemWindow returns the time span one itinerary item covers. ok is false
// when its start does not parse or its duration is negative.
func ItemWindow(item entities.ItineraryItem, loc *time.Location) (start, end time.Time, ok bool) {
	if item.DurationMinutes < 0 {
		return time.Time{}, time.Time{}, false
	}
	start, err := parseItemStart(item.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, start.Add(time.Duration(item.DurationMinutes) * time.Minute), true
}

func parseItemStart(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var err error
	for i, layout := range itemLayouts {
		var t time.Time
		if i == 0 {
			t, err = time.Parse(layout, raw)
		} else {
			t, err = time.ParseInLocation(layout, raw, loc)
		}
		if err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, err
}
