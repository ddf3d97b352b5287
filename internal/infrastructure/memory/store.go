package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"invitefeed/internal/domain"
	"invitefeed/internal/domain/entities"
	"invitefeed/internal/infrastructure/realtime"
	"invitefeed/internal/ports/output"
)

var _ output.EventRepository = (*Store)(nil)

// Store is an in-memory event repository for local runs without Postgres.
// Every change is announced through publish, like the database triggers do.
type Store struct {
	mu      sync.RWMutex
	events  map[string]entities.Event
	publish func(realtime.Notification)
	now     func() time.Time
}

// NewStore creates an empty store. publish may be nil.
func NewStore(publish func(realtime.Notification)) *Store {
	if publish == nil {
		publish = func(realtime.Notification) {}
	}
	return &Store{
		events:  make(map[string]entities.Event),
		publish: publish,
		now:     time.Now,
	}
}

// FetchAll returns every event, soonest first.
func (s *Store) FetchAll(_ context.Context) ([]entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Clone())
	}
	slices.SortFunc(out, func(a, b entities.Event) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return out, nil
}

func (s *Store) FetchByID(_ context.Context, id string) (*entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	out := e.Clone()
	return &out, nil
}

// Create stores a copy of event with a fresh id and slug. The host is
// always counted as a participant.
func (s *Store) Create(_ context.Context, event *entities.Event) (*entities.Event, error) {
	e := event.Clone()
	e.ID = uuid.NewString()
	e.Slug = entities.Slugify(e.Title) + "-" + e.ID[:8]
	if e.HostID != "" && !e.IsParticipant(e.HostID) {
		e.Participants = append([]string{e.HostID}, e.Participants...)
	}
	for i := range e.ItineraryItems {
		if e.ItineraryItems[i].ID == "" {
			e.ItineraryItems[i].ID = uuid.NewString()
		}
		e.ItineraryItems[i].EventID = e.ID
	}
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt

	s.mu.Lock()
	s.events[e.ID] = e
	s.mu.Unlock()

	s.publish(realtime.Notification{Op: realtime.OpInsert, EventID: e.ID})
	out := e.Clone()
	return &out, nil
}

// Update replaces the editable fields of an existing event. Membership,
// comments and reactions are left untouched.
func (s *Store) Update(_ context.Context, event *entities.Event) (*entities.Event, error) {
	s.mu.Lock()
	cur, ok := s.events[event.ID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrEventNotFound
	}
	next := event.Clone()
	next.Slug = cur.Slug
	next.HostID = cur.HostID
	next.Participants = cur.Participants
	next.Comments = cur.Comments
	next.Reactions = cur.Reactions
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.now()
	s.events[next.ID] = next
	s.mu.Unlock()

	s.publish(realtime.Notification{Op: realtime.OpUpdate, EventID: next.ID})
	out := next.Clone()
	return &out, nil
}

func (s *Store) Join(_ context.Context, eventID, userID string) (*entities.Event, error) {
	return s.mutate(eventID, func(e *entities.Event) error {
		switch {
		case e.IsHost(userID):
			return domain.ErrHostCannotJoin
		case e.IsParticipant(userID):
			return domain.ErrAlreadyParticipant
		case e.IsFull():
			return domain.ErrEventFull
		}
		e.Participants = append(e.Participants, userID)
		return nil
	})
}

func (s *Store) Leave(_ context.Context, eventID, userID string) (*entities.Event, error) {
	return s.mutate(eventID, func(e *entities.Event) error {
		switch {
		case e.IsHost(userID):
			return domain.ErrHostCannotLeave
		case !e.IsParticipant(userID):
			return domain.ErrNotParticipant
		}
		e.Participants = slices.DeleteFunc(e.Participants, func(p string) bool { return p == userID })
		return nil
	})
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.events[id]
	delete(s.events, id)
	s.mu.Unlock()
	if !ok {
		return domain.ErrEventNotFound
	}
	s.publish(realtime.Notification{Op: realtime.OpDelete, EventID: id})
	return nil
}

func (s *Store) mutate(id string, fn func(e *entities.Event) error) (*entities.Event, error) {
	s.mu.Lock()
	cur, ok := s.events[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrEventNotFound
	}
	next := cur.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	next.UpdatedAt = s.now()
	s.events[id] = next
	s.mu.Unlock()

	s.publish(realtime.Notification{Op: realtime.OpUpdate, EventID: id})
	out := next.Clone()
	return &out, nil
}
