// Package analytics turns the habit event log into per-habit resist and
// slip counters for the current calendar day and week.
package analytics

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/dukerupert/resistor/internal/model"
)

// HabitLister supplies the habits to report on, in the order rows are emitted.
type HabitLister interface {
	List(ctx context.Context) ([]model.Habit, error)
}

// EventSource yields a habit's events with occurred_at in [from, to],
// oldest first.
type EventSource interface {
	QueryByHabitAndRange(ctx context.Context, habitID int64, from, to time.Time) iter.Seq2[model.Event, error]
}

// Engine computes analytics rows. It holds no mutable state; every call is
// a function of the stores' contents and the supplied instant.
type Engine struct {
	habits HabitLister
	events EventSource
	window Window
}

func NewEngine(habits HabitLister, events EventSource, window Window) *Engine {
	return &Engine{habits: habits, events: events, window: window}
}

func (e *Engine) Window() Window {
	return e.window
}

type outcome int

const (
	resist outcome = iota
	slip
)

func classify(ev model.Event) outcome {
	if ev.Success {
		return resist
	}
	return slip
}

type tally struct {
	resist int
	slip   int
}

func (t *tally) add(o outcome) {
	switch o {
	case resist:
		t.resist++
	case slip:
		t.slip++
	}
}

// Compute returns one row per registered habit, in registry order, with the
// habit's resist and slip counts inside [dayStart, now] and
// [weekStart, now]. Habits without events get an all-zero row. Events of
// deleted habits are not reported.
//
// Each habit's events are read in a single range scan and each event is
// classified once into both buckets, so an event appended concurrently is
// either counted everywhere it belongs or nowhere. Any store error fails
// the whole call.
func (e *Engine) Compute(ctx context.Context, now time.Time) ([]model.AnalyticsRow, error) {
	dayStart := e.window.DayStart(now)
	weekStart := e.window.WeekStartOf(now)

	habits, err := e.habits.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	rows := make([]model.AnalyticsRow, 0, len(habits))
	for _, h := range habits {
		var daily, weekly tally
		for ev, err := range e.events.QueryByHabitAndRange(ctx, h.ID, weekStart, now) {
			if err != nil {
				return nil, fmt.Errorf("events for habit %d: %w", h.ID, err)
			}
			if ev.OccurredAt.Before(weekStart) || ev.OccurredAt.After(now) {
				continue
			}
			o := classify(ev)
			weekly.add(o)
			if !ev.OccurredAt.Before(dayStart) {
				daily.add(o)
			}
		}

		rows = append(rows, model.AnalyticsRow{
			HabitID:      h.ID,
			HabitName:    h.Name,
			DailyResist:  daily.resist,
			DailySlip:    daily.slip,
			WeeklyResist: weekly.resist,
			WeeklySlip:   weekly.slip,
		})
	}
	return rows, nil
}
