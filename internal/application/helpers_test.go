package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"invitefeed/internal/domain"
	"invitefeed/internal/domain/entities"
)

var errBoom = errors.New("boom")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepo serves events from a map and can be told to fail fetches.
type fakeRepo struct {
	mu       sync.Mutex
	events   map[string]entities.Event
	order    []string
	failAll  bool
	failByID map[string]bool
	fetches  map[string]int

	// afterRead, if set, runs once FetchByID has read its record.
	afterRead func(id string)
}

func newFakeRepo(events ...entities.Event) *fakeRepo {
	r := &fakeRepo{
		events:   make(map[string]entities.Event),
		failByID: make(map[string]bool),
		fetches:  make(map[string]int),
	}
	for _, e := range events {
		r.put(e)
	}
	return r
}

func (r *fakeRepo) put(e entities.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; !ok {
		r.order = append(r.order, e.ID)
	}
	r.events[e.ID] = e.Clone()
}

func (r *fakeRepo) drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *fakeRepo) FetchAll(context.Context) ([]entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errBoom
	}
	out := make([]entities.Event, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.events[id].Clone())
	}
	return out, nil
}

func (r *fakeRepo) FetchByID(_ context.Context, id string) (*entities.Event, error) {
	r.mu.Lock()
	r.fetches[id]++
	if r.failByID[id] {
		r.mu.Unlock()
		return nil, errBoom
	}
	e, ok := r.events[id]
	hook := r.afterRead
	r.mu.Unlock()
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	out := e.Clone()
	if hook != nil {
		hook(id)
	}
	return &out, nil
}

func (r *fakeRepo) fetchCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches[id]
}

func (r *fakeRepo) Create(_ context.Context, e *entities.Event) (*entities.Event, error) {
	r.put(*e)
	return e, nil
}

func (r *fakeRepo) Update(_ context.Context, e *entities.Event) (*entities.Event, error) {
	r.put(*e)
	return e, nil
}

func (r *fakeRepo) Join(ctx context.Context, eventID, userID string) (*entities.Event, error) {
	e, err := r.FetchByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	e.Participants = append(e.Participants, userID)
	r.put(*e)
	return e, nil
}

func (r *fakeRepo) Leave(ctx context.Context, eventID, userID string) (*entities.Event, error) {
	e, err := r.FetchByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	var kept []string
	for _, p := range e.Participants {
		if p != userID {
			kept = append(kept, p)
		}
	}
	e.Participants = kept
	r.put(*e)
	return e, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.drop(id)
	return nil
}

// manualClock fires timers only when Advance moves time past them.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()
	for {
		c.mu.Lock()
		var next *manualTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
	}
}

func ptr[T any](v T) *T { return &v }

func eventAt(id string, start time.Time) entities.Event {
	return entities.Event{ID: id, Title: id, HostID: "host", StartTime: start, Participants: []string{"host"}}
}

func ids(events []entities.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}
