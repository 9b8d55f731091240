package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/resistor/internal/model"
)

func TestExport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/export" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(model.Bundle{
			Habits: []model.Habit{{ID: 1, Name: "Smoking"}},
			Events: []model.Event{{ID: 1, HabitID: 1, Success: true}},
		})
	}))
	defer server.Close()

	b, err := New(server.URL + "/").Export(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(b.Habits) != 1 || b.Habits[0].Name != "Smoking" {
		t.Errorf("habits = %+v", b.Habits)
	}
	if len(b.Events) != 1 {
		t.Errorf("events = %+v", b.Events)
	}
}

func TestImportSendsBundle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/import" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		var b model.Bundle
		json.NewDecoder(r.Body).Decode(&b)
		json.NewEncoder(w).Encode(model.ImportResult{Habits: len(b.Habits), Events: len(b.Events)})
	}))
	defer server.Close()

	res, err := New(server.URL).Import(context.Background(), model.Bundle{
		Habits: []model.Habit{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Habits != 2 || res.Events != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "events[0].habit_id: unknown habit"})
	}))
	defer server.Close()

	_, err := New(server.URL).Import(context.Background(), model.Bundle{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Message != "events[0].habit_id: unknown habit" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestAnalytics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.AnalyticsRow{{HabitID: 3, HabitName: "Snacking", DailyResist: 2, WeeklyResist: 5}})
	}))
	defer server.Close()

	rows, err := New(server.URL).Analytics(context.Background())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if len(rows) != 1 || rows[0].WeeklyResist != 5 {
		t.Errorf("rows = %+v", rows)
	}
}
