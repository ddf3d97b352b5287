package entities

import (
	"slices"
	"time"
)

// Coordinates is the point shown on the map tile of an invite.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Comment is a single message left on an invite.
type Comment struct {
	ID        string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}

// Reaction aggregates one reaction symbol for the current viewer.
type Reaction struct {
	Count         int
	ViewerReacted bool
}

// Event is an invite as returned by the event repository.
//
// StartTime/EndTime are a cached projection when ItineraryItems is non-empty:
// display code must go through the itinerary deriver instead of reading them.
type Event struct {
	ID            string
	Slug          string
	HostID        string
	Title         string
	Description   string
	ActivityType  string
	Location      string
	Coordinates   Coordinates
	StartTime     time.Time
	EndTime       *time.Time // nil = open ended
	FlexibleStart bool
	FlexibleEnd   bool
	Visibility    string
	MaxSeats      *int // nil = unlimited
	Participants  []string
	Comments      []Comment
	Reactions     map[string]Reaction
	// Ordered as stored; items may overlap or leave gaps.
	ItineraryItems []ItineraryItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (e *Event) IsHost(viewerID string) bool {
	return viewerID != "" && e.HostID == viewerID
}

func (e *Event) IsParticipant(viewerID string) bool {
	return viewerID != "" && slices.Contains(e.Participants, viewerID)
}

// RelationTo reports how viewerID relates to the event. Hosting wins over
// participating.
func (e *Event) RelationTo(viewerID string) Relation {
	switch {
	case e.IsHost(viewerID):
		return RelationHost
	case e.IsParticipant(viewerID):
		return RelationParticipant
	default:
		return RelationNone
	}
}

// IsFull reports whether a capped event has no seat left.
func (e *Event) IsFull() bool {
	return e.MaxSeats != nil && len(e.Participants) >= *e.MaxSeats
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (e Event) Clone() Event {
	out := e
	if e.EndTime != nil {
		end := *e.EndTime
		out.EndTime = &end
	}
	if e.MaxSeats != nil {
		seats := *e.MaxSeats
		out.MaxSeats = &seats
	}
	out.Participants = slices.Clone(e.Participants)
	out.Comments = slices.Clone(e.Comments)
	out.ItineraryItems = slices.Clone(e.ItineraryItems)
	if e.Reactions != nil {
		out.Reactions = make(map[string]Reaction, len(e.Reactions))
		for k, v := range e.Reactions {
			out.Reactions[k] = v
		}
	}
	return out
}
