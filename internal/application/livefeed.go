package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"invitefeed/internal/domain/entities"
	"invitefeed/internal/ports/output"
)

// LiveFeed owns the client-side copy of the feed and keeps it in step with
// push notifications. It is the only writer of the collection; everybody
// else reads through Snapshot.
//
// Notifications are applied when their refetch completes, under one lock, so
// the last completed refetch wins regardless of arrival order.
type LiveFeed struct {
	repo   output.EventRepository
	push   output.PushTransport
	logger *slog.Logger

	mu    sync.RWMutex
	order []string // front = most recently announced
	byID  map[string]entities.Event
	gone  map[string]struct{} // deleted ids; a late refetch must not bring them back

	subMu   sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	global  func()
	details map[string]*DetailView
}

func NewLiveFeed(repo output.EventRepository, push output.PushTransport, logger *slog.Logger) *LiveFeed {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &LiveFeed{
		repo:    repo,
		push:    push,
		logger:  logger,
		byID:    make(map[string]entities.Event),
		gone:    make(map[string]struct{}),
		ctx:     ctx,
		cancel:  cancel,
		details: make(map[string]*DetailView),
	}
}

// Load replaces the collection with a fresh bulk fetch. On failure the
// previous snapshot is kept and the error is returned for the caller to log
// or ignore.
func (f *LiveFeed) Load(ctx context.Context) error {
	events, err := f.repo.FetchAll(ctx)
	if err != nil {
		f.logger.Error("❌ Chargement du fil impossible, on garde la version précédente", "err", err)
		return fmt.Errorf("fetch all: %w", err)
	}

	order := make([]string, 0, len(events))
	byID := make(map[string]entities.Event, len(events))
	for _, e := range events {
		if _, dup := byID[e.ID]; !dup {
			order = append(order, e.ID)
		}
		byID[e.ID] = e.Clone()
	}

	f.mu.Lock()
	f.order, f.byID = order, byID
	f.mu.Unlock()
	f.logger.Debug("fil chargé", "count", len(order))
	return nil
}

// Start subscribes to new-or-changed announcements for the whole feed.
// Calling Start twice replaces the previous subscription.
func (f *LiveFeed) Start(ctx context.Context) {
	f.subMu.Lock()
	defer f.subMu.Unlock()
	if f.global != nil {
		f.global()
	}
	f.cancel()
	f.ctx, f.cancel = context.WithCancel(ctx)
	refetchCtx := f.ctx
	f.global = f.push.SubscribeAll(func(id string) {
		f.OnEventAnnounced(refetchCtx, id)
	})
}

// Stop cancels every subscription and in-flight refetch.
func (f *LiveFeed) Stop() {
	f.subMu.Lock()
	details := make([]*DetailView, 0, len(f.details))
	for _, d := range f.details {
		details = append(details, d)
	}
	if f.global != nil {
		f.global()
		f.global = nil
	}
	f.cancel()
	f.subMu.Unlock()

	for _, d := range details {
		d.Close()
	}
}

// OnEventAnnounced refetches id and upserts it: replaced in place when
// known, prepended otherwise.
func (f *LiveFeed) OnEventAnnounced(ctx context.Context, id string) {
	event, err := f.repo.FetchByID(ctx, id)
	if err != nil {
		f.logger.Warn("⚠️ Rechargement de l'invitation annoncée impossible", "event_id", id, "err", err)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, deleted := f.gone[id]; deleted {
		return
	}
	f.applyLocked(*event)
}

// Apply upserts event into the collection. Used for announcements and for
// records returned by local mutations.
func (f *LiveFeed) Apply(event entities.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyLocked(event)
}

func (f *LiveFeed) applyLocked(event entities.Event) {
	if _, ok := f.byID[event.ID]; !ok {
		f.order = slices.Insert(f.order, 0, event.ID)
	}
	f.byID[event.ID] = event.Clone()
}

// replace swaps the record for id only if the collection still holds it, so
// a change refetched after a delete cannot resurrect the event.
func (f *LiveFeed) replace(event entities.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[event.ID]; !ok {
		return false
	}
	f.byID[event.ID] = event.Clone()
	return true
}

// Remove drops id from the collection. Announcements for id are ignored
// from then on.
func (f *LiveFeed) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gone[id] = struct{}{}
	if _, ok := f.byID[id]; !ok {
		return
	}
	delete(f.byID, id)
	f.order = slices.DeleteFunc(f.order, func(v string) bool { return v == id })
}

// Snapshot returns deep copies of the current collection in feed order.
func (f *LiveFeed) Snapshot() []entities.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]entities.Event, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.byID[id].Clone())
	}
	return out
}

// Get returns a copy of the cached record for id.
func (f *LiveFeed) Get(id string) (entities.Event, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.byID[id]
	if !ok {
		return entities.Event{}, false
	}
	return e.Clone(), true
}

func (f *LiveFeed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.order)
}

// DetailView is the single-event view model kept live while a detail screen
// is open.
type DetailView struct {
	id     string
	feed   *LiveFeed
	cancel context.CancelFunc

	onChange func(*entities.Event)

	mu          sync.RWMutex
	event       *entities.Event
	deleted     bool
	closed      bool
	unsubscribe func()
}

// OpenDetail starts the per-event subscription for id. A view already open
// for the same id is closed first so that only one subscription exists.
// onChange, if not nil, is called after every refresh with the new record,
// or with nil once the event is deleted.
func (f *LiveFeed) OpenDetail(ctx context.Context, id string, onChange func(*entities.Event)) *DetailView {
	ctx, cancel := context.WithCancel(ctx)
	view := &DetailView{id: id, feed: f, cancel: cancel, onChange: onChange}
	if cached, ok := f.Get(id); ok {
		view.event = &cached
	}

	f.subMu.Lock()
	prev := f.details[id]
	f.details[id] = view
	f.subMu.Unlock()
	if prev != nil {
		prev.Close()
	}

	unsubscribe := f.push.SubscribeEvent(id,
		func(string) { f.onDetailChanged(ctx, view) },
		func(string) { f.onDetailDeleted(view) },
	)
	view.mu.Lock()
	if view.closed {
		view.mu.Unlock()
		unsubscribe()
		return view
	}
	view.unsubscribe = unsubscribe
	view.mu.Unlock()

	if view.Event() == nil {
		f.onDetailChanged(ctx, view)
	}
	return view
}

func (f *LiveFeed) onDetailChanged(ctx context.Context, view *DetailView) {
	if view.isClosed() || view.isDeleted() {
		return
	}
	event, err := f.repo.FetchByID(ctx, view.id)
	if err != nil {
		f.logger.Warn("⚠️ Rechargement de l'invitation impossible, on garde la version en cache", "event_id", view.id, "err", err)
		return
	}
	f.replace(*event)
	view.set(event)
}

func (f *LiveFeed) onDetailDeleted(view *DetailView) {
	f.Remove(view.id)
	view.set(nil)
}

func (f *LiveFeed) forget(view *DetailView) {
	f.subMu.Lock()
	defer f.subMu.Unlock()
	if f.details[view.id] == view {
		delete(f.details, view.id)
	}
}

// Event returns a copy of the current record, or nil once deleted.
func (v *DetailView) Event() *entities.Event {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.event == nil {
		return nil
	}
	e := v.event.Clone()
	return &e
}

func (v *DetailView) ID() string { return v.id }

// Close cancels the subscription and any refetch still running for it.
func (v *DetailView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	unsubscribe := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	v.cancel()
	v.feed.forget(v)
}

func (v *DetailView) set(event *entities.Event) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	if v.deleted {
		// a refetch that read the record before the delete
		v.mu.Unlock()
		return
	}
	if event == nil {
		v.event = nil
		v.deleted = true
	} else {
		e := event.Clone()
		v.event = &e
	}
	v.mu.Unlock()

	if v.onChange != nil {
		v.onChange(v.Event())
	}
}

func (v *DetailView) isDeleted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.deleted
}

func (v *DetailView) isClosed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.closed
}
