package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"invitefeed/internal/domain"
	"invitefeed/internal/domain/entities"
	"invitefeed/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

// EventRepository implements output.EventRepository on PostgreSQL. Reaction
// flags are computed for the session's viewer.
type EventRepository struct {
	pool    *pgxpool.Pool
	session output.Session
}

func NewEventRepository(pool *pgxpool.Pool, session output.Session) *EventRepository {
	return &EventRepository{pool: pool, session: session}
}

func (r *EventRepository) FetchAll(ctx context.Context) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	eventRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[eventRow])
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	events := make([]entities.Event, len(eventRows))
	for i := range eventRows {
		events[i] = eventToDomain(eventRows[i])
	}
	if err := r.attachChildren(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) FetchByID(ctx context.Context, id string) (*entities.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrEventNotFound
	}
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1::uuid`, id)
	if err != nil {
		return nil, fmt.Errorf("fetch event by id: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[eventRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	events := []entities.Event{eventToDomain(row)}
	if err := r.attachChildren(ctx, events); err != nil {
		return nil, err
	}
	return &events[0], nil
}

// attachChildren loads participants, itinerary, comments and reactions for
// all events in four queries.
func (r *EventRepository) attachChildren(ctx context.Context, events []entities.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, len(events))
	index := make(map[string]*entities.Event, len(events))
	for i := range events {
		ids[i] = events[i].ID
		index[events[i].ID] = &events[i]
	}

	rows, err := r.pool.Query(ctx,
		`SELECT event_id::text, user_id FROM event_participants
		 WHERE event_id = ANY($1::uuid[]) ORDER BY joined_at, user_id`, ids)
	if err != nil {
		return fmt.Errorf("get participants: %w", err)
	}
	var eventID, userID string
	_, err = pgx.ForEachRow(rows, []any{&eventID, &userID}, func() error {
		if e := index[eventID]; e != nil {
			e.Participants = append(e.Participants, userID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan participants: %w", err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id::text AS id, event_id::text AS event_id, title, start_time, duration_minutes, location, description
		 FROM itinerary_items WHERE event_id = ANY($1::uuid[]) ORDER BY event_id, position`, ids)
	if err != nil {
		return fmt.Errorf("get itinerary: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[itineraryRow])
	if err != nil {
		return fmt.Errorf("scan itinerary: %w", err)
	}
	for _, it := range items {
		if e := index[it.EventID]; e != nil {
			e.ItineraryItems = append(e.ItineraryItems, itineraryToDomain(it))
		}
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id::text AS id, event_id::text AS event_id, author_id, body, created_at
		 FROM event_comments WHERE event_id = ANY($1::uuid[]) ORDER BY created_at, id`, ids)
	if err != nil {
		return fmt.Errorf("get comments: %w", err)
	}
	comments, err := pgx.CollectRows(rows, pgx.RowToStructByName[commentRow])
	if err != nil {
		return fmt.Errorf("scan comments: %w", err)
	}
	for _, c := range comments {
		if e := index[c.EventID]; e != nil {
			e.Comments = append(e.Comments, commentToDomain(c))
		}
	}

	viewerID := ""
	if v := r.session.Viewer(); v != nil {
		viewerID = v.ID
	}
	rows, err = r.pool.Query(ctx,
		`SELECT event_id::text AS event_id, symbol, COUNT(*) AS count, BOOL_OR(user_id = $2) AS viewer_reacted
		 FROM event_reactions WHERE event_id = ANY($1::uuid[]) GROUP BY event_id, symbol`, ids, viewerID)
	if err != nil {
		return fmt.Errorf("get reactions: %w", err)
	}
	reactions, err := pgx.CollectRows(rows, pgx.RowToStructByName[reactionRow])
	if err != nil {
		return fmt.Errorf("scan reactions: %w", err)
	}
	for _, re := range reactions {
		if e := index[re.EventID]; e != nil {
			e.Reactions[re.Symbol] = entities.Reaction{Count: int(re.Count), ViewerReacted: re.ViewerReacted}
		}
	}
	return nil
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) (*entities.Event, error) {
	var id string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO events (slug, host_id, title, description, activity_type, location, lat, lng,
				start_time, end_time, flexible_start, flexible_end, visibility, max_seats)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			 RETURNING id::text`,
			entities.Slugify(event.Title)+"-"+uuid.NewString()[:8], event.HostID, event.Title, event.Description,
			event.ActivityType, event.Location, event.Coordinates.Lat, event.Coordinates.Lng,
			timeToPgtype(&event.StartTime), timeToPgtype(event.EndTime), event.FlexibleStart, event.FlexibleEnd,
			visibilityOrDefault(event.Visibility), seatsToPgtype(event.MaxSeats),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		// The host always counts as a participant.
		if _, err := tx.Exec(ctx,
			`INSERT INTO event_participants (event_id, user_id) VALUES ($1::uuid, $2)`, id, event.HostID); err != nil {
			return fmt.Errorf("insert host participant: %w", err)
		}
		return insertItinerary(ctx, tx, id, event.ItineraryItems)
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return r.FetchByID(ctx, id)
}

func (r *EventRepository) Update(ctx context.Context, event *entities.Event) (*entities.Event, error) {
	if _, err := uuid.Parse(event.ID); err != nil {
		return nil, domain.ErrEventNotFound
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE events SET title = $2, description = $3, activity_type = $4, location = $5,
				lat = $6, lng = $7, start_time = $8, end_time = $9, flexible_start = $10,
				flexible_end = $11, visibility = $12, max_seats = $13, updated_at = NOW()
			 WHERE id = $1::uuid`,
			event.ID, event.Title, event.Description, event.ActivityType, event.Location,
			event.Coordinates.Lat, event.Coordinates.Lng, timeToPgtype(&event.StartTime),
			timeToPgtype(event.EndTime), event.FlexibleStart, event.FlexibleEnd,
			visibilityOrDefault(event.Visibility), seatsToPgtype(event.MaxSeats),
		)
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrEventNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM itinerary_items WHERE event_id = $1::uuid`, event.ID); err != nil {
			return fmt.Errorf("clear itinerary: %w", err)
		}
		return insertItinerary(ctx, tx, event.ID, event.ItineraryItems)
	})
	if err != nil {
		return nil, err
	}
	return r.FetchByID(ctx, event.ID)
}

func (r *EventRepository) Join(ctx context.Context, eventID, userID string) (*entities.Event, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return nil, domain.ErrEventNotFound
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var hostID string
		var maxSeats *int32
		err := tx.QueryRow(ctx,
			`SELECT host_id, max_seats FROM events WHERE id = $1::uuid FOR UPDATE`, eventID,
		).Scan(&hostID, &maxSeats)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("lock event: %w", err)
		}
		var count int64
		var joined bool
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*), COALESCE(bool_or(user_id = $2), false)
			 FROM event_participants WHERE event_id = $1::uuid`, eventID, userID,
		).Scan(&count, &joined); err != nil {
			return fmt.Errorf("count participants: %w", err)
		}
		if err := checkJoin(hostID, userID, maxSeats, count, joined); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`INSERT INTO event_participants (event_id, user_id) VALUES ($1::uuid, $2)
			 ON CONFLICT DO NOTHING`, eventID, userID)
		if err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrAlreadyParticipant
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FetchByID(ctx, eventID)
}

// checkJoin applies the join rules in the same order as the in-memory
// store: host, already a participant, then capacity.
func checkJoin(hostID, userID string, maxSeats *int32, count int64, joined bool) error {
	switch {
	case hostID == userID:
		return domain.ErrHostCannotJoin
	case joined:
		return domain.ErrAlreadyParticipant
	case maxSeats != nil && count >= int64(*maxSeats):
		return domain.ErrEventFull
	}
	return nil
}

func (r *EventRepository) Leave(ctx context.Context, eventID, userID string) (*entities.Event, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return nil, domain.ErrEventNotFound
	}
	var hostID string
	err := r.pool.QueryRow(ctx, `SELECT host_id FROM events WHERE id = $1::uuid`, eventID).Scan(&hostID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event host: %w", err)
	}
	if hostID == userID {
		return nil, domain.ErrHostCannotLeave
	}
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM event_participants WHERE event_id = $1::uuid AND user_id = $2`, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotParticipant
	}
	return r.FetchByID(ctx, eventID)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrEventNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func insertItinerary(ctx context.Context, tx pgx.Tx, eventID string, items []entities.ItineraryItem) error {
	for i, it := range items {
		if it.DurationMinutes < 0 {
			return fmt.Errorf("itinerary item %d: negative duration", i)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO itinerary_items (event_id, position, title, start_time, duration_minutes, location, description)
			 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)`,
			eventID, i, it.Title, it.StartTime, it.DurationMinutes, it.Location, it.Description,
		); err != nil {
			return fmt.Errorf("insert itinerary item %d: %w", i, err)
		}
	}
	return nil
}

func visibilityOrDefault(v string) string {
	if strings.TrimSpace(v) == "" {
		return "public"
	}
	return v
}
