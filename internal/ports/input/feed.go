package input

import (
	"context"
	"time"

	"invitefeed/internal/application"
	"invitefeed/internal/domain/entities"
)

type FeedUseCase interface {
	Feed(viewer *entities.Viewer, filter application.FeedFilter, now time.Time) []entities.Event
	Sections(viewer *entities.Viewer, filter application.FeedFilter, now time.Time) []application.Section
	Event(id string) (entities.Event, bool)
	Watch(ctx context.Context, id string, onChange func(*entities.Event)) *application.DetailView
	Times(event entities.Event) application.DerivedTimes
	Categories() []string
	Location() *time.Location
}

type MembershipUseCase interface {
	Join(ctx context.Context, viewer *entities.Viewer, eventID string) (*entities.Event, error)
	Leave(ctx context.Context, viewer *entities.Viewer, eventID string) (*entities.Event, error)
	Hide(ctx context.Context, viewer *entities.Viewer, eventID string) error
	Unhide(ctx context.Context, viewer *entities.Viewer, eventID string) error
}
