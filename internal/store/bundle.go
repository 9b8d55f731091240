package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/dukerupert/resistor/internal/model"
)

// BundleStore exports and imports the full habit and event dataset.
type BundleStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewBundleStore(db *sql.DB) *BundleStore {
	return &BundleStore{db: db, now: time.Now}
}

// Export reads habits and events inside one read transaction so the bundle
// never holds an event appended after its habit list was taken.
func (s *BundleStore) Export(ctx context.Context) (*model.Bundle, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin export", err)
	}
	defer tx.Rollback()

	b := &model.Bundle{Habits: []model.Habit{}, Events: []model.Event{}}

	habitRows, err := tx.QueryContext(ctx, `SELECT `+habitCols+` FROM habits ORDER BY id`)
	if err != nil {
		return nil, storageErr("export habits", err)
	}
	for habitRows.Next() {
		h, err := scanHabit(habitRows)
		if err != nil {
			habitRows.Close()
			return nil, storageErr("scan habit", err)
		}
		b.Habits = append(b.Habits, *h)
	}
	habitRows.Close()
	if err := habitRows.Err(); err != nil {
		return nil, storageErr("export habits", err)
	}

	eventRows, err := tx.QueryContext(ctx, `SELECT `+eventCols+` FROM events ORDER BY id`)
	if err != nil {
		return nil, storageErr("export events", err)
	}
	defer eventRows.Close()
	for eventRows.Next() {
		e, err := scanEvent(eventRows)
		if err != nil {
			return nil, storageErr("scan event", err)
		}
		b.Events = append(b.Events, *e)
	}
	if err := eventRows.Err(); err != nil {
		return nil, storageErr("export events", err)
	}

	return b, nil
}

// Import merges b into the database in a single transaction. Habits are
// upserted by id; events are inserted only when their id is new, keeping
// the log append-only. An event whose habit exists neither in the bundle
// nor in the database aborts the whole import.
func (s *BundleStore) Import(ctx context.Context, b model.Bundle) (*model.ImportResult, error) {
	b.Habits = slices.Clone(b.Habits)
	for i, h := range b.Habits {
		if h.ID <= 0 {
			return nil, invalid(fmt.Sprintf("habits[%d].id", i), "must be positive")
		}
		name, err := normalizeName(&h.Name)
		if err != nil {
			return nil, invalid(fmt.Sprintf("habits[%d].name", i), "must not be empty")
		}
		b.Habits[i].Name = name
	}
	for i, e := range b.Events {
		if e.ID <= 0 {
			return nil, invalid(fmt.Sprintf("events[%d].id", i), "must be positive")
		}
		if e.OccurredAt.IsZero() {
			return nil, invalid(fmt.Sprintf("events[%d].occurred_at", i), "is required")
		}
		if err := ValidateCoordinates(e.Latitude, e.Longitude); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin import", err)
	}
	defer tx.Rollback()

	now := s.now()
	res := &model.ImportResult{}

	for _, h := range b.Habits {
		created := h.CreatedAt
		if created.IsZero() {
			created = now
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO habits (id, name, description, color, icon, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   name = excluded.name,
			   description = excluded.description,
			   color = excluded.color,
			   icon = excluded.icon,
			   updated_at = excluded.updated_at`,
			h.ID, h.Name, nullString(h.Description), nullString(h.Color), nullString(h.Icon),
			toMicros(created), toMicros(now),
		)
		if err != nil {
			return nil, storageErr("import habit", err)
		}
		res.Habits++
	}

	for i, e := range b.Events {
		var exists bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM habits WHERE id = ?)`, e.HabitID).Scan(&exists)
		if err != nil {
			return nil, storageErr("check habit", err)
		}
		if !exists {
			return nil, invalid(fmt.Sprintf("events[%d].habit_id", i), "unknown habit")
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, habit_id, success, occurred_at, latitude, longitude, note)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO NOTHING`,
			e.ID, e.HabitID, boolToInt(e.Success), toMicros(e.OccurredAt),
			nullFloat(e.Latitude), nullFloat(e.Longitude), nullString(e.Note),
		)
		if err != nil {
			return nil, storageErr("import event", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, storageErr("rows affected", err)
		}
		res.Events += int(n)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit import", err)
	}
	return res, nil
}
