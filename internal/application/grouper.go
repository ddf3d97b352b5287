package application

import (
	"time"

	"invitefeed/internal/domain/entities"
)

// SectionKind identifies a feed section independently of its display text.
type SectionKind string

const (
	SectionPast      SectionKind = "past"
	SectionToday     SectionKind = "today"
	SectionTomorrow  SectionKind = "tomorrow"
	SectionThisWeek  SectionKind = "this_week"
	SectionThisMonth SectionKind = "this_month"
	SectionMonth     SectionKind = "month"
)

var sectionLabels = map[SectionKind]string{
	SectionPast:      "Past",
	SectionToday:     "Today",
	SectionTomorrow:  "Tomorrow",
	SectionThisWeek:  "This Week",
	SectionThisMonth: "This Month",
}

// Section is a labelled run of consecutive feed events.
type Section struct {
	Kind SectionKind
	// Month is the first day of the month for SectionMonth, zero otherwise.
	Month  time.Time
	Label  string
	Events []entities.Event
}

// GroupByDate splits the already sorted output of Classify into sections.
// It is a single forward pass: an event joins the previous section only when
// the labels match, so a label may appear more than once.
func GroupByDate(events []entities.Event, bucket entities.Bucket, now time.Time) []Section {
	loc := now.Location()
	today := calendarDay(now, loc)
	tomorrow := today.AddDate(0, 0, 1)
	weekEnd := today.AddDate(0, 0, 7)

	var sections []Section
	for _, e := range events {
		kind, month := sectionFor(e, bucket, now, today, tomorrow, weekEnd)
		label := sectionLabels[kind]
		if kind == SectionMonth {
			label = month.Format("January 2006")
		}
		if n := len(sections); n > 0 && sections[n-1].Label == label {
			sections[n-1].Events = append(sections[n-1].Events, e)
			continue
		}
		sections = append(sections, Section{Kind: kind, Month: month, Label: label, Events: []entities.Event{e}})
	}
	return sections
}

func sectionFor(e entities.Event, bucket entities.Bucket, now, today, tomorrow, weekEnd time.Time) (SectionKind, time.Time) {
	if bucket == entities.BucketPast {
		return SectionPast, time.Time{}
	}
	if bucket == entities.BucketDismissed && e.StartTime.Before(now) {
		return SectionPast, time.Time{}
	}

	day := calendarDay(e.StartTime, now.Location())
	switch {
	case day.Equal(today):
		return SectionToday, time.Time{}
	case day.Equal(tomorrow):
		return SectionTomorrow, time.Time{}
	case day.Before(weekEnd):
		return SectionThisWeek, time.Time{}
	case day.Year() == now.Year() && day.Month() == now.Month():
		return SectionThisMonth, time.Time{}
	default:
		return SectionMonth, time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}
