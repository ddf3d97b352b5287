package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"invitefeed/internal/domain/entities"
)

// eventRow mirrors the events table as selected by eventColumns.
type eventRow struct {
	ID            string             `db:"id"`
	Slug          string             `db:"slug"`
	HostID        string             `db:"host_id"`
	Title         string             `db:"title"`
	Description   string             `db:"description"`
	ActivityType  string             `db:"activity_type"`
	Location      string             `db:"location"`
	Lat           float64            `db:"lat"`
	Lng           float64            `db:"lng"`
	StartTime     pgtype.Timestamptz `db:"start_time"`
	EndTime       pgtype.Timestamptz `db:"end_time"`
	FlexibleStart bool               `db:"flexible_start"`
	FlexibleEnd   bool               `db:"flexible_end"`
	Visibility    string             `db:"visibility"`
	MaxSeats      pgtype.Int4        `db:"max_seats"`
	CreatedAt     pgtype.Timestamptz `db:"created_at"`
	UpdatedAt     pgtype.Timestamptz `db:"updated_at"`
}

const eventColumns = `id::text AS id, slug, host_id, title, description, activity_type, location,
	lat, lng, start_time, end_time, flexible_start, flexible_end, visibility, max_seats,
	created_at, updated_at`

type itineraryRow struct {
	ID              string `db:"id"`
	EventID         string `db:"event_id"`
	Title           string `db:"title"`
	StartTime       string `db:"start_time"`
	DurationMinutes int32  `db:"duration_minutes"`
	Location        string `db:"location"`
	Description     string `db:"description"`
}

type commentRow struct {
	ID        string             `db:"id"`
	EventID   string             `db:"event_id"`
	AuthorID  string             `db:"author_id"`
	Body      string             `db:"body"`
	CreatedAt pgtype.Timestamptz `db:"created_at"`
}

type reactionRow struct {
	EventID       string `db:"event_id"`
	Symbol        string `db:"symbol"`
	Count         int64  `db:"count"`
	ViewerReacted bool   `db:"viewer_reacted"`
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToPgtype(t *time.Time) pgtype.Timestamptz {
	if t == nil || t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func seatsToPgtype(seats *int) pgtype.Int4 {
	if seats == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*seats), Valid: true}
}

func eventToDomain(r eventRow) entities.Event {
	e := entities.Event{
		ID:            r.ID,
		Slug:          r.Slug,
		HostID:        r.HostID,
		Title:         r.Title,
		Description:   r.Description,
		ActivityType:  r.ActivityType,
		Location:      r.Location,
		Coordinates:   entities.Coordinates{Lat: r.Lat, Lng: r.Lng},
		StartTime:     pgtypeTimestamptzToTime(r.StartTime),
		FlexibleStart: r.FlexibleStart,
		FlexibleEnd:   r.FlexibleEnd,
		Visibility:    r.Visibility,
		Reactions:     map[string]entities.Reaction{},
		CreatedAt:     pgtypeTimestamptzToTime(r.CreatedAt),
		UpdatedAt:     pgtypeTimestamptzToTime(r.UpdatedAt),
	}
	if r.EndTime.Valid {
		end := r.EndTime.Time
		e.EndTime = &end
	}
	if r.MaxSeats.Valid {
		seats := int(r.MaxSeats.Int32)
		e.MaxSeats = &seats
	}
	return e
}

func itineraryToDomain(r itineraryRow) entities.ItineraryItem {
	return entities.ItineraryItem{
		ID:              r.ID,
		EventID:         r.EventID,
		Title:           r.Title,
		StartTime:       r.StartTime,
		DurationMinutes: int(r.DurationMinutes),
		Location:        r.Location,
		Description:     r.Description,
	}
}

func commentToDomain(r commentRow) entities.Comment {
	return entities.Comment{
		ID:        r.ID,
		AuthorID:  r.AuthorID,
		Text:      r.Body,
		CreatedAt: pgtypeTimestamptzToTime(r.CreatedAt),
	}
}
