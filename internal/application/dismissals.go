package application

import (
	"context"
	"fmt"
	"sync"

	"invitefeed/internal/ports/output"
)

// DismissedSet is an immutable view of the ids one viewer has hidden.
type DismissedSet map[string]struct{}

func NewDismissedSet(ids ...string) DismissedSet {
	s := make(DismissedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has is safe on a nil set.
func (s DismissedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Dismissals keeps each viewer's hidden ids in memory. When a store is set,
// changes are written through to it before the in-memory set is updated.
type Dismissals struct {
	mu    sync.RWMutex
	byID  map[string]DismissedSet
	store output.DismissalStore
}

// NewDismissals creates an empty registry. store may be nil.
func NewDismissals(store output.DismissalStore) *Dismissals {
	return &Dismissals{byID: make(map[string]DismissedSet), store: store}
}

// Restore loads a viewer's persisted dismissals, replacing the in-memory set.
func (d *Dismissals) Restore(ctx context.Context, viewerID string) error {
	if d.store == nil {
		return nil
	}
	ids, err := d.store.Load(ctx, viewerID)
	if err != nil {
		return fmt.Errorf("load dismissals: %w", err)
	}
	d.mu.Lock()
	d.byID[viewerID] = NewDismissedSet(ids...)
	d.mu.Unlock()
	return nil
}

// RestoreAll loads every viewer's persisted dismissals.
func (d *Dismissals) RestoreAll(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	all, err := d.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load all dismissals: %w", err)
	}
	d.mu.Lock()
	for viewerID, ids := range all {
		d.byID[viewerID] = NewDismissedSet(ids...)
	}
	d.mu.Unlock()
	return nil
}

func (d *Dismissals) Hide(ctx context.Context, viewerID, eventID string) error {
	if d.store != nil {
		if err := d.store.Save(ctx, viewerID, eventID); err != nil {
			return fmt.Errorf("save dismissal: %w", err)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	next := d.copyLocked(viewerID)
	next[eventID] = struct{}{}
	d.byID[viewerID] = next
	return nil
}

func (d *Dismissals) Unhide(ctx context.Context, viewerID, eventID string) error {
	if d.store != nil {
		if err := d.store.Remove(ctx, viewerID, eventID); err != nil {
			return fmt.Errorf("remove dismissal: %w", err)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	next := d.copyLocked(viewerID)
	delete(next, eventID)
	d.byID[viewerID] = next
	return nil
}

// Set returns the viewer's current set. Sets are replaced on every change,
// never edited, so the result can be read without holding a lock.
func (d *Dismissals) Set(viewerID string) DismissedSet {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.byID[viewerID]
}

func (d *Dismissals) copyLocked(viewerID string) DismissedSet {
	cur := d.byID[viewerID]
	next := make(DismissedSet, len(cur)+1)
	for id := range cur {
		next[id] = struct{}{}
	}
	return next
}
