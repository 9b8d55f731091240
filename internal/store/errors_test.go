package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dukerupert/resistor/internal/model"
)

var errDisk = errors.New("disk I/O error")

func TestStorageErrorPropagation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	mock.ExpectQuery("SELECT .+ FROM habits").WillReturnError(errDisk)
	_, err = NewHabitStore(db).List(ctx)
	assertStorageError(t, err, "list habits")

	mock.ExpectQuery("INSERT INTO events").WillReturnError(errDisk)
	_, err = NewEventStore(db).Append(ctx, model.Event{HabitID: 1, OccurredAt: time.Now()})
	assertStorageError(t, err, "insert event")

	mock.ExpectQuery("SELECT .+ FROM events").WillReturnError(errDisk)
	for _, err := range NewEventStore(db).QueryByHabitAndRange(ctx, 1, time.Time{}, time.Now()) {
		assertStorageError(t, err, "query events")
	}

	mock.ExpectExec("DELETE FROM habits").WillReturnError(errDisk)
	err = NewHabitStore(db).Delete(ctx, 1)
	assertStorageError(t, err, "delete habit")

	mock.ExpectQuery("SELECT capture_location").WillReturnError(errDisk)
	_, err = NewSettingsStore(db).Get(ctx)
	assertStorageError(t, err, "get settings")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestQueryRangeScanErrorStops(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "habit_id", "success", "occurred_at", "latitude", "longitude", "note"}).
		AddRow(1, 1, 1, int64(1000), nil, nil, nil).
		AddRow(2, 1, 0, int64(2000), nil, nil, nil).
		RowError(1, errDisk)
	mock.ExpectQuery("SELECT .+ FROM events").WillReturnRows(rows)

	var got []model.Event
	var lastErr error
	for e, err := range NewEventStore(db).QueryByHabitAndRange(context.Background(), 1, time.Time{}, time.Now()) {
		if err != nil {
			lastErr = err
			break
		}
		got = append(got, e)
	}
	if len(got) != 1 {
		t.Errorf("yielded %d events before the failure, want 1", len(got))
	}
	if !errors.Is(lastErr, errDisk) {
		t.Errorf("err = %v, want wrapped disk error", lastErr)
	}
}

func TestImportRollsBackOnStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO habits").WillReturnError(errDisk)
	mock.ExpectRollback()

	_, err = NewBundleStore(db).Import(context.Background(), model.Bundle{
		Habits: []model.Habit{{ID: 1, Name: "Smoking"}},
	})
	assertStorageError(t, err, "import habit")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", invalid("name", "must not be empty"))
	if !IsValidation(wrapped) {
		t.Error("wrapped ValidationError not detected")
	}
	if IsValidation(storageErr("op", errDisk)) {
		t.Error("StorageError misclassified as validation")
	}
	if got := invalid("name", "must not be empty").Error(); got != "name: must not be empty" {
		t.Errorf("Error() = %q", got)
	}
}

func assertStorageError(t *testing.T, err error, op string) {
	t.Helper()
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StorageError", err)
	}
	if se.Op != op {
		t.Errorf("op = %q, want %q", se.Op, op)
	}
	if !errors.Is(err, errDisk) {
		t.Errorf("StorageError does not unwrap to cause: %v", err)
	}
}
