package store

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"math"
	"time"

	"github.com/dukerupert/resistor/internal/model"
)

// EventStore is the append-only habit event log.
type EventStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db, now: time.Now}
}

const eventCols = `id, habit_id, success, occurred_at, latitude, longitude, note`

func scanEvent(row scanner) (*model.Event, error) {
	var e model.Event
	var success int
	var occurredAt int64
	var lat, lon sql.NullFloat64
	var note sql.NullString

	if err := row.Scan(&e.ID, &e.HabitID, &success, &occurredAt, &lat, &lon, &note); err != nil {
		return nil, err
	}

	e.Success = success != 0
	e.OccurredAt = fromMicros(occurredAt)
	e.Latitude = floatPtr(lat)
	e.Longitude = floatPtr(lon)
	e.Note = stringPtr(note)
	return &e, nil
}

// ValidateCoordinates checks that a coordinate pair is either fully absent
// or fully present and within WGS84 bounds.
func ValidateCoordinates(lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return invalid("latitude", "latitude and longitude must be given together")
	}
	if lat == nil {
		return nil
	}
	if math.IsNaN(*lat) || *lat < -90 || *lat > 90 {
		return invalid("latitude", "must be between -90 and 90")
	}
	if math.IsNaN(*lon) || *lon < -180 || *lon > 180 {
		return invalid("longitude", "must be between -180 and 180")
	}
	return nil
}

// Append stores e and returns it with its assigned id. A zero OccurredAt is
// replaced by the current time. The habit existence check and the insert
// are one statement, so a habit deleted concurrently is never referenced.
func (s *EventStore) Append(ctx context.Context, e model.Event) (*model.Event, error) {
	if err := ValidateCoordinates(e.Latitude, e.Longitude); err != nil {
		return nil, err
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = s.now()
	}

	row := s.db.QueryRowContext(ctx,
		`INSERT INTO events (habit_id, success, occurred_at, latitude, longitude, note)
		 SELECT ?, ?, ?, ?, ?, ?
		 WHERE EXISTS (SELECT 1 FROM habits WHERE id = ?)
		 RETURNING `+eventCols,
		e.HabitID, boolToInt(e.Success), toMicros(e.OccurredAt),
		nullFloat(e.Latitude), nullFloat(e.Longitude), nullString(e.Note),
		e.HabitID,
	)
	stored, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, invalid("habit_id", "unknown habit")
	}
	if err != nil {
		return nil, storageErr("insert event", err)
	}
	return stored, nil
}

// QueryByHabitAndRange lazily yields the habit's events whose occurred_at
// lies in the closed range [from, to], oldest first. Iteration stops at the
// first error, which is yielded with a zero Event.
func (s *EventStore) QueryByHabitAndRange(ctx context.Context, habitID int64, from, to time.Time) iter.Seq2[model.Event, error] {
	return func(yield func(model.Event, error) bool) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+eventCols+` FROM events
			 WHERE habit_id = ? AND occurred_at >= ? AND occurred_at <= ?
			 ORDER BY occurred_at, id`,
			habitID, toMicros(from), toMicros(to),
		)
		if err != nil {
			yield(model.Event{}, storageErr("query events", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanEvent(rows)
			if err != nil {
				yield(model.Event{}, storageErr("scan event", err))
				return
			}
			if !yield(*e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(model.Event{}, storageErr("query events", err))
		}
	}
}

// List returns every event in insertion order, including events whose
// habit has since been deleted.
func (s *EventStore) List(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventCols+` FROM events ORDER BY id`)
	if err != nil {
		return nil, storageErr("list events", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, storageErr("scan event", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list events", err)
	}
	return events, nil
}
