package store

import (
	"context"
	"database/sql"

	"github.com/dukerupert/resistor/internal/model"
)

// SettingsStore holds the singleton settings row seeded by the migrations.
type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(ctx context.Context) (*model.Settings, error) {
	var capture int
	err := s.db.QueryRowContext(ctx, `SELECT capture_location FROM settings WHERE id = 1`).Scan(&capture)
	if err != nil {
		return nil, storageErr("get settings", err)
	}
	return &model.Settings{CaptureLocation: capture != 0}, nil
}

func (s *SettingsStore) Update(ctx context.Context, captureLocation bool) (*model.Settings, error) {
	var capture int
	err := s.db.QueryRowContext(ctx,
		`UPDATE settings SET capture_location = ? WHERE id = 1 RETURNING capture_location`,
		boolToInt(captureLocation),
	).Scan(&capture)
	if err != nil {
		return nil, storageErr("update settings", err)
	}
	return &model.Settings{CaptureLocation: capture != 0}, nil
}
