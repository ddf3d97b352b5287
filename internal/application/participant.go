package application

import (
	"context"
	"fmt"

	"invitefeed/internal/domain"
	"invitefeed/internal/domain/entities"
	"invitefeed/internal/ports/output"
)

// MembershipService runs join/leave/hide for a viewer. Records returned by
// the repository are folded back into the live feed right away; the push
// notification that follows is then a no-op replace.
type MembershipService struct {
	eventRepo  output.EventRepository
	feed       *LiveFeed
	dismissals *Dismissals
}

func NewMembershipService(
	eventRepo output.EventRepository,
	feed *LiveFeed,
	dismissals *Dismissals,
) *MembershipService {
	return &MembershipService{
		eventRepo:  eventRepo,
		feed:       feed,
		dismissals: dismissals,
	}
}

func (s *MembershipService) Join(ctx context.Context, viewer *entities.Viewer, eventID string) (*entities.Event, error) {
	if viewer == nil {
		return nil, domain.ErrNoViewer
	}
	if cached, ok := s.feed.Get(eventID); ok {
		switch {
		case cached.IsHost(viewer.ID):
			return nil, domain.ErrHostCannotJoin
		case cached.IsParticipant(viewer.ID):
			return nil, domain.ErrAlreadyParticipant
		case cached.IsFull():
			return nil, domain.ErrEventFull
		}
	}
	updated, err := s.eventRepo.Join(ctx, eventID, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("join event: %w", err)
	}
	s.feed.Apply(*updated)
	return updated, nil
}

func (s *MembershipService) Leave(ctx context.Context, viewer *entities.Viewer, eventID string) (*entities.Event, error) {
	if viewer == nil {
		return nil, domain.ErrNoViewer
	}
	if cached, ok := s.feed.Get(eventID); ok {
		switch {
		case cached.IsHost(viewer.ID):
			return nil, domain.ErrHostCannotLeave
		case !cached.IsParticipant(viewer.ID):
			return nil, domain.ErrNotParticipant
		}
	}
	updated, err := s.eventRepo.Leave(ctx, eventID, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("leave event: %w", err)
	}
	s.feed.Apply(*updated)
	return updated, nil
}

func (s *MembershipService) Hide(ctx context.Context, viewer *entities.Viewer, eventID string) error {
	if viewer == nil {
		return domain.ErrNoViewer
	}
	return s.dismissals.Hide(ctx, viewer.ID, eventID)
}

func (s *MembershipService) Unhide(ctx context.Context, viewer *entities.Viewer, eventID string) error {
	if viewer == nil {
		return domain.ErrNoViewer
	}
	return s.dismissals.Unhide(ctx, viewer.ID, eventID)
}

// SwipeCard builds the gesture handler for event as seen by viewer in the
// given bucket, wired to this service's mutations.
func (s *MembershipService) SwipeCard(ctx context.Context, viewer *entities.Viewer, event entities.Event, bucket entities.Bucket, clock Clock, onError func(SwipeAction, error)) *SwipeCard {
	relation := entities.RelationNone
	if viewer != nil {
		relation = event.RelationTo(viewer.ID)
	}
	handlers := SwipeHandlers{
		Join: func(ctx context.Context) error {
			_, err := s.Join(ctx, viewer, event.ID)
			return err
		},
		Leave: func(ctx context.Context) error {
			_, err := s.Leave(ctx, viewer, event.ID)
			return err
		},
		Hide: func(ctx context.Context) error {
			return s.Hide(ctx, viewer, event.ID)
		},
		OnError: onError,
	}
	return NewSwipeCard(ctx, relation, bucket, handlers, clock, DefaultSwipeConfig())
}
