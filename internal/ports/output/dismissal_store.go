package output

import "context"

// DismissalStore persists the ids a viewer chose to hide from the feed.
type DismissalStore interface {
	Load(ctx context.Context, viewerID string) ([]string, error)
	// LoadAll returns every viewer's hidden ids, keyed by viewer.
	LoadAll(ctx context.Context) (map[string][]string, error)
	Save(ctx context.Context, viewerID, eventID string) error
	Remove(ctx context.Context, viewerID, eventID string) error
}
