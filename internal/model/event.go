package model

import "time"

// Event is a single resist (Success=true) or slip (Success=false) record.
// Events are never modified after they are appended.
type Event struct {
	ID         int64     `json:"id"`
	HabitID    int64     `json:"habit_id"`
	Success    bool      `json:"success"`
	OccurredAt time.Time `json:"occurred_at"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	Note       *string   `json:"note"`
}
