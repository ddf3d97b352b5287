package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"invitefeed/internal/domain"
	"invitefeed/internal/domain/entities"
	"invitefeed/internal/infrastructure/memory"
	"invitefeed/internal/infrastructure/realtime"
)

type membershipFixture struct {
	store   *memory.Store
	feed    *LiveFeed
	service *MembershipService
	reads   *FeedService
	open    string
	capped  string
}

func newMembershipFixture(t *testing.T) *membershipFixture {
	t.Helper()
	ctx := context.Background()
	hub := realtime.NewHub(discardLogger())
	store := memory.NewStore(hub.Publish)

	start := time.Now().Add(48 * time.Hour)
	open, err := store.Create(ctx, &entities.Event{Title: "Rando", HostID: "host", StartTime: start})
	if err != nil {
		t.Fatal(err)
	}
	capped, err := store.Create(ctx, &entities.Event{Title: "Escape game", HostID: "host", StartTime: start.Add(time.Hour), MaxSeats: ptr(2)})
	if err != nil {
		t.Fatal(err)
	}

	feed := NewLiveFeed(store, hub, discardLogger())
	if err := feed.Load(ctx); err != nil {
		t.Fatal(err)
	}
	feed.Start(ctx)
	t.Cleanup(feed.Stop)

	dismissals := NewDismissals(nil)
	return &membershipFixture{
		store:   store,
		feed:    feed,
		service: NewMembershipService(store, feed, dismissals),
		reads:   NewFeedService(feed, dismissals, time.UTC),
		open:    open.ID,
		capped:  capped.ID,
	}
}

func TestMembershipJoinLeave(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t)
	me := &entities.Viewer{ID: "me"}

	updated, err := f.service.Join(ctx, me, f.open)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !updated.IsParticipant("me") {
		t.Error("returned record misses the viewer")
	}
	if e, _ := f.feed.Get(f.open); !e.IsParticipant("me") {
		t.Error("feed not updated after join")
	}
	attending := f.reads.Feed(me, FeedFilter{Bucket: entities.BucketAttending}, time.Now())
	if len(attending) != 1 || attending[0].ID != f.open {
		t.Errorf("ATTENDING = %v", ids(attending))
	}

	if _, err := f.service.Join(ctx, me, f.open); !errors.Is(err, domain.ErrAlreadyParticipant) {
		t.Errorf("second Join err = %v", err)
	}

	if _, err := f.service.Leave(ctx, me, f.open); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if _, err := f.service.Leave(ctx, me, f.open); !errors.Is(err, domain.ErrNotParticipant) {
		t.Errorf("second Leave err = %v", err)
	}
}

func TestMembershipRules(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t)
	host := &entities.Viewer{ID: "host"}

	if _, err := f.service.Join(ctx, nil, f.open); !errors.Is(err, domain.ErrNoViewer) {
		t.Errorf("nil viewer: %v", err)
	}
	if _, err := f.service.Join(ctx, host, f.open); !errors.Is(err, domain.ErrHostCannotJoin) {
		t.Errorf("host join: %v", err)
	}
	if _, err := f.service.Leave(ctx, host, f.open); !errors.Is(err, domain.ErrHostCannotLeave) {
		t.Errorf("host leave: %v", err)
	}

	if _, err := f.service.Join(ctx, &entities.Viewer{ID: "a"}, f.capped); err != nil {
		t.Fatalf("filling capped event: %v", err)
	}
	_, err := f.service.Join(ctx, &entities.Viewer{ID: "b"}, f.capped)
	if !errors.Is(err, domain.ErrEventFull) || domain.Code(err) != "event_full" {
		t.Errorf("full event: %v (code %q)", err, domain.Code(err))
	}

	if _, err := f.service.Join(ctx, &entities.Viewer{ID: "a"}, "missing"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("unknown event: %v", err)
	}
}

func TestMembershipHide(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t)
	me := &entities.Viewer{ID: "me"}

	if err := f.service.Hide(ctx, me, f.open); err != nil {
		t.Fatal(err)
	}
	all := ids(f.reads.Feed(me, FeedFilter{}, time.Now()))
	hidden := ids(f.reads.Feed(me, FeedFilter{Bucket: entities.BucketDismissed}, time.Now()))
	if len(all) != 1 || all[0] != f.capped || len(hidden) != 1 || hidden[0] != f.open {
		t.Errorf("all=%v dismissed=%v", all, hidden)
	}

	if err := f.service.Unhide(ctx, me, f.open); err != nil {
		t.Fatal(err)
	}
	if got := f.reads.Feed(me, FeedFilter{}, time.Now()); len(got) != 2 {
		t.Errorf("after unhide: %v", ids(got))
	}
	if err := f.service.Hide(ctx, nil, f.open); !errors.Is(err, domain.ErrNoViewer) {
		t.Errorf("nil viewer hide: %v", err)
	}
}

func TestMembershipSwipeCard(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t)
	me := &entities.Viewer{ID: "me"}
	event, _ := f.feed.Get(f.open)
	clock := &manualClock{}

	var failures []error
	card := f.service.SwipeCard(ctx, me, event, entities.BucketPending, clock, func(_ SwipeAction, err error) {
		failures = append(failures, err)
	})
	if err := card.DragStart(0); err != nil {
		t.Fatal(err)
	}
	card.DragMove(SwipeThreshold + 1)
	if card.DragEnd() != SwipeJoin {
		t.Fatal("expected join")
	}
	clock.Advance(SlideDuration + CollapseDuration)

	if e, _ := f.feed.Get(f.open); !e.IsParticipant("me") {
		t.Error("swipe did not join")
	}
	if len(failures) != 0 || card.Height() != 0 {
		t.Errorf("failures=%v height=%v", failures, card.Height())
	}
	pending := f.reads.Feed(me, FeedFilter{Bucket: entities.BucketPending}, time.Now())
	if len(pending) != 1 || pending[0].ID != f.capped {
		t.Errorf("PENDING = %v", ids(pending))
	}
}

func TestMembershipSwipeCardJoinThenLeaveFromAll(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t)
	me := &entities.Viewer{ID: "me"}
	event, _ := f.feed.Get(f.open)
	clock := &manualClock{}

	var failures []error
	card := f.service.SwipeCard(ctx, me, event, entities.BucketAll, clock, func(_ SwipeAction, err error) {
		failures = append(failures, err)
	})
	swipe := func(dx float64) SwipeAction {
		t.Helper()
		if err := card.DragStart(0); err != nil {
			t.Fatalf("DragStart: %v", err)
		}
		card.DragMove(dx)
		action := card.DragEnd()
		clock.Advance(SnapBackDuration)
		return action
	}

	if got := swipe(SwipeThreshold + 1); got != SwipeJoin {
		t.Fatalf("first swipe = %v, want join", got)
	}
	if got := swipe(SwipeThreshold + 1); got != SwipeNone {
		t.Errorf("second right swipe = %v, want none", got)
	}
	if got := swipe(-SwipeThreshold - 1); got != SwipeLeave {
		t.Fatalf("left swipe while attending = %v, want leave", got)
	}

	if len(failures) != 0 {
		t.Errorf("failures = %v", failures)
	}
	if e, _ := f.feed.Get(f.open); e.IsParticipant("me") {
		t.Error("viewer still attending after leave")
	}
	if dismissed := f.reads.Feed(me, FeedFilter{Bucket: entities.BucketDismissed}, time.Now()); len(dismissed) != 0 {
		t.Errorf("event was hidden: %v", ids(dismissed))
	}
	if card.Height() != 1 {
		t.Errorf("card collapsed in ALL: height=%v", card.Height())
	}
}

func TestFeedServiceSectionsAndCategories(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()
	if _, err := f.store.Update(ctx, &entities.Event{ID: f.open, Title: "Rando", ActivityType: "outdoor", StartTime: time.Now().Add(48 * time.Hour)}); err != nil {
		t.Fatal(err)
	}

	cats := f.reads.Categories()
	if len(cats) != 1 || cats[0] != "outdoor" {
		t.Errorf("Categories = %v", cats)
	}

	sections := f.reads.Sections(&entities.Viewer{ID: "me"}, FeedFilter{}, time.Now())
	total := 0
	for _, s := range sections {
		total += len(s.Events)
	}
	if total != 2 {
		t.Errorf("sections hold %d events", total)
	}
	if got := f.reads.Sections(nil, FeedFilter{}, time.Now()); len(got) != 0 {
		t.Errorf("signed out sections = %v", got)
	}
}
