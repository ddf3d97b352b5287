package application

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"invitefeed/internal/domain/entities"
)

// CategoryAll disables the category filter.
const CategoryAll = "ALL"

// FeedFilter is the full set of user-selected feed controls.
type FeedFilter struct {
	Bucket        entities.Bucket
	Search        string
	Category      string // "" or CategoryAll = any
	OpenSeatsOnly bool
	Horizon       entities.Horizon
}

// classifyInput is what every stage may look at. It is built once per
// Classify call.
type classifyInput struct {
	viewerID  string
	now       time.Time
	today     time.Time
	filter    FeedFilter
	dismissed DismissedSet
	search    string
	fold      cases.Caser
}

// stage is one short-circuiting predicate of the feed pipeline.
type stage struct {
	name string
	keep func(in *classifyInput, e *entities.Event) bool
}

// feedStages run in this exact order; the first stage returning false drops
// the event.
var feedStages = []stage{
	{"dismissal", keepDismissal},
	{"timeline", keepTimeline},
	{"relationship", keepRelationship},
	{"search", keepSearch},
	{"category", keepCategory},
	{"open_seats", keepOpenSeats},
	{"horizon", keepHorizon},
}

// Classify returns the events visible to viewer under filter at instant now,
// sorted by start (most recent first for the PAST bucket). A nil viewer sees
// nothing. events is not modified.
func Classify(events []entities.Event, viewer *entities.Viewer, now time.Time, filter FeedFilter, dismissed DismissedSet) []entities.Event {
	if viewer == nil || viewer.ID == "" {
		return nil
	}
	if filter.Bucket == "" {
		filter.Bucket = entities.BucketAll
	}
	if filter.Horizon == "" {
		filter.Horizon = entities.HorizonAll
	}

	in := &classifyInput{
		viewerID:  viewer.ID,
		now:       now,
		today:     calendarDay(now, now.Location()),
		filter:    filter,
		dismissed: dismissed,
		fold:      cases.Fold(),
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		in.search = in.fold.String(q)
	}

	out := make([]entities.Event, 0, len(events))
	for i := range events {
		if passes(in, &events[i]) {
			out = append(out, events[i])
		}
	}

	past := filter.Bucket == entities.BucketPast
	slices.SortStableFunc(out, func(a, b entities.Event) int {
		c := a.StartTime.Compare(b.StartTime)
		if past {
			return -c
		}
		return c
	})
	return out
}

func passes(in *classifyInput, e *entities.Event) bool {
	for _, s := range feedStages {
		if !s.keep(in, e) {
			return false
		}
	}
	return true
}

func keepDismissal(in *classifyInput, e *entities.Event) bool {
	hidden := in.dismissed.Has(e.ID)
	if in.filter.Bucket == entities.BucketDismissed {
		return hidden
	}
	return !hidden
}

func keepTimeline(in *classifyInput, e *entities.Event) bool {
	isPast := e.StartTime.Before(in.now)
	switch in.filter.Bucket {
	case entities.BucketDismissed:
		return true
	case entities.BucketPast:
		// Only past events the viewer took part in.
		return isPast && (e.IsHost(in.viewerID) || e.IsParticipant(in.viewerID))
	default:
		return !isPast
	}
}

func keepRelationship(in *classifyInput, e *entities.Event) bool {
	switch in.filter.Bucket {
	case entities.BucketHosting:
		return e.IsHost(in.viewerID)
	case entities.BucketAttending:
		return e.IsParticipant(in.viewerID) && !e.IsHost(in.viewerID)
	case entities.BucketPending:
		return !e.IsHost(in.viewerID) && !e.IsParticipant(in.viewerID)
	default:
		return true
	}
}

func keepSearch(in *classifyInput, e *entities.Event) bool {
	if in.search == "" {
		return true
	}
	for _, field := range []string{e.Title, e.Description, e.Location} {
		if strings.Contains(in.fold.String(field), in.search) {
			return true
		}
	}
	return false
}

func keepCategory(in *classifyInput, e *entities.Event) bool {
	c := in.filter.Category
	if c == "" || c == CategoryAll {
		return true
	}
	return e.ActivityType == c
}

func keepOpenSeats(in *classifyInput, e *entities.Event) bool {
	if !in.filter.OpenSeatsOnly {
		return true
	}
	switch in.filter.Bucket {
	case entities.BucketAll, entities.BucketPending:
		return !e.IsFull()
	default:
		return true
	}
}

func keepHorizon(in *classifyInput, e *entities.Event) bool {
	if in.filter.Bucket == entities.BucketPast {
		return true
	}
	day := calendarDay(e.StartTime, in.now.Location())
	switch in.filter.Horizon {
	case entities.HorizonToday:
		return day.Equal(in.today)
	case entities.HorizonTomorrow:
		return day.Equal(in.today.AddDate(0, 0, 1))
	case entities.HorizonWeek:
		return !day.Before(in.today) && !day.After(in.today.AddDate(0, 0, 7))
	default:
		return true
	}
}

// calendarDay strips the time of day of t as seen in loc.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
