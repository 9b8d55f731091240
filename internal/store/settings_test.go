package store

import (
	"context"
	"testing"
)

func TestSettingsDefaultAndUpdate(t *testing.T) {
	ctx := context.Background()
	ss := NewSettingsStore(setupTestDB(t))

	s, err := ss.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !s.CaptureLocation {
		t.Error("capture_location should default to true")
	}

	s, err = ss.Update(ctx, false)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.CaptureLocation {
		t.Error("update returned capture_location = true")
	}

	s, err = ss.Get(ctx)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if s.CaptureLocation {
		t.Error("capture_location not persisted")
	}

	if s, err = ss.Update(ctx, true); err != nil || !s.CaptureLocation {
		t.Errorf("re-enable: settings = %+v, err = %v", s, err)
	}
}
