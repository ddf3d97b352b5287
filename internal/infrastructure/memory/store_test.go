package memory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"invitefeed/internal/domain"
	"invitefeed/internal/domain/entities"
	"invitefeed/internal/infrastructure/realtime"
)

func newRecordingStore() (*Store, *[]realtime.Notification) {
	var sent []realtime.Notification
	return NewStore(func(n realtime.Notification) { sent = append(sent, n) }), &sent
}

func TestStoreCreate(t *testing.T) {
	s, sent := newRecordingStore()
	ctx := context.Background()

	e, err := s.Create(ctx, &entities.Event{
		Title:          "Soirée Jeux de Société !",
		HostID:         "host",
		StartTime:      time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC),
		ItineraryItems: []entities.ItineraryItem{{Title: "Accueil", StartTime: "2026-09-01T19:00", DurationMinutes: 30}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if e.ID == "" || !strings.HasPrefix(e.Slug, "soiree-jeux-de-societe-") {
		t.Errorf("id=%q slug=%q", e.ID, e.Slug)
	}
	if !e.IsParticipant("host") {
		t.Error("host not counted as participant")
	}
	if it := e.ItineraryItems[0]; it.ID == "" || it.EventID != e.ID {
		t.Errorf("itinerary item = %+v", it)
	}
	if len(*sent) != 1 || (*sent)[0] != (realtime.Notification{Op: realtime.OpInsert, EventID: e.ID}) {
		t.Errorf("notifications = %v", *sent)
	}

	e.Title = "mutated"
	got, _ := s.FetchByID(ctx, e.ID)
	if got.Title == "mutated" {
		t.Error("store shares memory with returned record")
	}
}

func TestStoreMembership(t *testing.T) {
	s, sent := newRecordingStore()
	ctx := context.Background()
	e, _ := s.Create(ctx, &entities.Event{Title: "Ciné", HostID: "host", MaxSeats: func() *int { n := 2; return &n }()})

	if _, err := s.Join(ctx, e.ID, "host"); !errors.Is(err, domain.ErrHostCannotJoin) {
		t.Errorf("host join: %v", err)
	}
	joined, err := s.Join(ctx, e.ID, "me")
	if err != nil || !joined.IsParticipant("me") {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Join(ctx, e.ID, "me"); !errors.Is(err, domain.ErrAlreadyParticipant) {
		t.Errorf("double join: %v", err)
	}
	if _, err := s.Join(ctx, e.ID, "late"); !errors.Is(err, domain.ErrEventFull) {
		t.Errorf("full: %v", err)
	}
	if _, err := s.Leave(ctx, e.ID, "host"); !errors.Is(err, domain.ErrHostCannotLeave) {
		t.Errorf("host leave: %v", err)
	}
	left, err := s.Leave(ctx, e.ID, "me")
	if err != nil || left.IsParticipant("me") {
		t.Fatalf("leave: %v", err)
	}
	if _, err := s.Leave(ctx, e.ID, "me"); !errors.Is(err, domain.ErrNotParticipant) {
		t.Errorf("double leave: %v", err)
	}

	// create + join + leave; failures publish nothing
	if len(*sent) != 3 {
		t.Errorf("notifications = %v", *sent)
	}
}

func TestStoreUpdateAndDelete(t *testing.T) {
	s, sent := newRecordingStore()
	ctx := context.Background()
	e, _ := s.Create(ctx, &entities.Event{Title: "Old", HostID: "host"})

	upd, err := s.Update(ctx, &entities.Event{ID: e.ID, Title: "New", HostID: "intruder"})
	if err != nil {
		t.Fatal(err)
	}
	if upd.Title != "New" || upd.HostID != "host" || upd.Slug != e.Slug || !upd.IsParticipant("host") {
		t.Errorf("update = %+v", upd)
	}

	if err := s.Delete(ctx, e.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.FetchByID(ctx, e.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("fetch after delete: %v", err)
	}
	if err := s.Delete(ctx, e.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("second delete: %v", err)
	}
	if _, err := s.Update(ctx, upd); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("update after delete: %v", err)
	}

	last := (*sent)[len(*sent)-1]
	if last.Op != realtime.OpDelete || last.EventID != e.ID {
		t.Errorf("last notification = %+v", last)
	}
}

func TestStoreFetchAllSortedByStart(t *testing.T) {
	s, _ := newRecordingStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, h := range []int{5, 1, 3} {
		if _, err := s.Create(ctx, &entities.Event{Title: "e", HostID: "h", StartTime: base.Add(time.Duration(h) * time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := s.FetchAll(ctx)
	for i := 1; i < len(all); i++ {
		if all[i-1].StartTime.After(all[i].StartTime) {
			t.Fatalf("not sorted: %v then %v", all[i-1].StartTime, all[i].StartTime)
		}
	}
}
