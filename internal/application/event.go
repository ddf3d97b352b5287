package application

import (
	"context"
	"slices"
	"time"

	"invitefeed/internal/domain/entities"
)

// FeedService answers read queries against the live feed. It never mutates
// the collection.
type FeedService struct {
	feed       *LiveFeed
	dismissals *Dismissals
	loc        *time.Location
}

func NewFeedService(feed *LiveFeed, dismissals *Dismissals, loc *time.Location) *FeedService {
	if loc == nil {
		loc = time.Local
	}
	return &FeedService{
		feed:       feed,
		dismissals: dismissals,
		loc:        loc,
	}
}

func (s *FeedService) Feed(viewer *entities.Viewer, filter FeedFilter, now time.Time) []entities.Event {
	if viewer == nil {
		return nil
	}
	return Classify(s.feed.Snapshot(), viewer, now.In(s.loc), filter, s.dismissals.Set(viewer.ID))
}

func (s *FeedService) Sections(viewer *entities.Viewer, filter FeedFilter, now time.Time) []Section {
	return GroupByDate(s.Feed(viewer, filter, now), filter.Bucket, now.In(s.loc))
}

func (s *FeedService) Event(id string) (entities.Event, bool) {
	return s.feed.Get(id)
}

// Watch opens a live detail view on id. See LiveFeed.OpenDetail.
func (s *FeedService) Watch(ctx context.Context, id string, onChange func(*entities.Event)) *DetailView {
	return s.feed.OpenDetail(ctx, id, onChange)
}

func (s *FeedService) Times(event entities.Event) DerivedTimes {
	return DeriveTimes(event, s.loc)
}

func (s *FeedService) Location() *time.Location {
	return s.loc
}

// Categories lists the activity types present in the feed, sorted.
func (s *FeedService) Categories() []string {
	var out []string
	for _, e := range s.feed.Snapshot() {
		if e.ActivityType != "" && !slices.Contains(out, e.ActivityType) {
			out = append(out, e.ActivityType)
		}
	}
	slices.Sort(out)
	return out
}
