package application

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
)

type memDismissals struct {
	mu      sync.Mutex
	byID    map[string][]string
	failing bool
}

func (m *memDismissals) Load(_ context.Context, viewerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.byID[viewerID]), nil
}

func (m *memDismissals) LoadAll(context.Context) (map[string][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]string, len(m.byID))
	for k, v := range m.byID {
		out[k] = slices.Clone(v)
	}
	return out, nil
}

func (m *memDismissals) Save(_ context.Context, viewerID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errBoom
	}
	m.byID[viewerID] = append(m.byID[viewerID], eventID)
	return nil
}

func (m *memDismissals) Remove(_ context.Context, viewerID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errBoom
	}
	m.byID[viewerID] = slices.DeleteFunc(m.byID[viewerID], func(v string) bool { return v == eventID })
	return nil
}

func TestDismissalsHideUnhide(t *testing.T) {
	ctx := context.Background()
	d := NewDismissals(nil)

	if d.Set("me").Has("a") {
		t.Fatal("empty registry reports a dismissal")
	}
	if err := d.Hide(ctx, "me", "a"); err != nil {
		t.Fatal(err)
	}
	before := d.Set("me")
	if err := d.Hide(ctx, "me", "b"); err != nil {
		t.Fatal(err)
	}
	if before.Has("b") {
		t.Error("a returned set was modified after the fact")
	}
	if !d.Set("me").Has("a") || !d.Set("me").Has("b") || d.Set("you").Has("a") {
		t.Errorf("sets = %v / %v", d.Set("me"), d.Set("you"))
	}

	if err := d.Unhide(ctx, "me", "a"); err != nil {
		t.Fatal(err)
	}
	if d.Set("me").Has("a") {
		t.Error("a still hidden")
	}
}

func TestDismissalsWriteThrough(t *testing.T) {
	ctx := context.Background()
	store := &memDismissals{byID: map[string][]string{"me": {"x"}, "you": {"y"}}}
	d := NewDismissals(store)

	if err := d.RestoreAll(ctx); err != nil {
		t.Fatal(err)
	}
	if !d.Set("me").Has("x") || !d.Set("you").Has("y") {
		t.Fatal("RestoreAll did not load every viewer")
	}

	if err := d.Hide(ctx, "me", "z"); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Load(ctx, "me"); !slices.Equal(got, []string{"x", "z"}) {
		t.Errorf("persisted = %v", got)
	}

	store.failing = true
	if err := d.Hide(ctx, "me", "w"); !errors.Is(err, errBoom) {
		t.Errorf("Hide err = %v", err)
	}
	if d.Set("me").Has("w") {
		t.Error("failed write still hid the event")
	}
	if err := d.Unhide(ctx, "me", "x"); err == nil || !d.Set("me").Has("x") {
		t.Errorf("failed unhide: err=%v hidden=%v", err, d.Set("me").Has("x"))
	}

	store.failing = false
	store.byID["me"] = []string{"only"}
	if err := d.Restore(ctx, "me"); err != nil {
		t.Fatal(err)
	}
	if d.Set("me").Has("x") || !d.Set("me").Has("only") {
		t.Errorf("Restore did not replace the set: %v", d.Set("me"))
	}
}
