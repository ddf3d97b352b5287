package output

import (
	"context"

	"invitefeed/internal/domain/entities"
)

// EventRepository is the remote source of truth for invites. Every call that
// changes an invite returns the updated record.
type EventRepository interface {
	FetchAll(ctx context.Context) ([]entities.Event, error)
	FetchByID(ctx context.Context, id string) (*entities.Event, error)
	Create(ctx context.Context, event *entities.Event) (*entities.Event, error)
	Update(ctx context.Context, event *entities.Event) (*entities.Event, error)
	Join(ctx context.Context, eventID, userID string) (*entities.Event, error)
	Leave(ctx context.Context, eventID, userID string) (*entities.Event, error)
	Delete(ctx context.Context, id string) error
}
