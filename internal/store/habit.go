package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/resistor/internal/model"
)

// HabitStore is the habit registry. Habits are listed in creation order.
type HabitStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewHabitStore(db *sql.DB) *HabitStore {
	return &HabitStore{db: db, now: time.Now}
}

const habitCols = `id, name, description, color, icon, created_at, updated_at`

func scanHabit(row scanner) (*model.Habit, error) {
	var h model.Habit
	var description, color, icon sql.NullString
	var createdAt, updatedAt int64

	if err := row.Scan(&h.ID, &h.Name, &description, &color, &icon, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	h.Description = stringPtr(description)
	h.Color = stringPtr(color)
	h.Icon = stringPtr(icon)
	h.CreatedAt = fromMicros(createdAt)
	h.UpdatedAt = fromMicros(updatedAt)
	return &h, nil
}

func normalizeName(name *string) (string, error) {
	if name == nil {
		return "", invalid("name", "is required")
	}
	n := strings.TrimSpace(*name)
	if n == "" {
		return "", invalid("name", "must not be empty")
	}
	return n, nil
}

func (s *HabitStore) Create(ctx context.Context, f model.HabitFields) (*model.Habit, error) {
	name, err := normalizeName(f.Name)
	if err != nil {
		return nil, err
	}

	now := toMicros(s.now())
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO habits (name, description, color, icon, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+habitCols,
		name, nullString(f.Description), nullString(f.Color), nullString(f.Icon), now, now,
	)
	h, err := scanHabit(row)
	if err != nil {
		return nil, storageErr("insert habit", err)
	}
	return h, nil
}

func (s *HabitStore) Get(ctx context.Context, id int64) (*model.Habit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+habitCols+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("habit %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("get habit", err)
	}
	return h, nil
}

// List returns every habit ordered by creation.
func (s *HabitStore) List(ctx context.Context) ([]model.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+habitCols+` FROM habits ORDER BY id`)
	if err != nil {
		return nil, storageErr("list habits", err)
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, storageErr("scan habit", err)
		}
		habits = append(habits, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list habits", err)
	}
	return habits, nil
}

// Update applies a partial update: nil fields keep their stored value.
// A nil field cannot clear a stored description, color or icon back to
// NULL; send an empty string to blank it instead. The update is a single
// statement so concurrent partial updates to different fields never
// overwrite each other.
func (s *HabitStore) Update(ctx context.Context, id int64, f model.HabitFields) (*model.Habit, error) {
	var name sql.NullString
	if f.Name != nil {
		n, err := normalizeName(f.Name)
		if err != nil {
			return nil, err
		}
		name = sql.NullString{String: n, Valid: true}
	}

	row := s.db.QueryRowContext(ctx,
		`UPDATE habits SET
		   name = COALESCE(?, name),
		   description = COALESCE(?, description),
		   color = COALESCE(?, color),
		   icon = COALESCE(?, icon),
		   updated_at = ?
		 WHERE id = ?
		 RETURNING `+habitCols,
		name, nullString(f.Description), nullString(f.Color), nullString(f.Icon), toMicros(s.now()), id,
	)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("habit %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("update habit", err)
	}
	return h, nil
}

// Delete removes the habit record. Its events are kept.
func (s *HabitStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete habit", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("habit %d: %w", id, ErrNotFound)
	}
	return nil
}
