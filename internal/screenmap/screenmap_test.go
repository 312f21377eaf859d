package screenmap

import (
	"testing"

	"github.com/spindlymist/ksrender/internal/model"
)

func TestNewRejectsDuplicatePositions(t *testing.T) {
	screens := []model.ScreenData{
		{Position: model.ScreenCoord{X: 0, Y: 0}},
		{Position: model.ScreenCoord{X: 0, Y: 0}},
	}
	if _, err := New(screens); err == nil {
		t.Fatal("expected error for duplicate screen position")
	}
}

func TestGetAndIndex(t *testing.T) {
	screens := []model.ScreenData{
		{Position: model.ScreenCoord{X: 0, Y: 0}},
		{Position: model.ScreenCoord{X: 1, Y: 0}},
	}
	sm, err := New(screens)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, ok := sm.Get(model.ScreenCoord{X: 1, Y: 0})
	if !ok || got.Position != screens[1].Position {
		t.Fatalf("Get returned %+v, %v", got, ok)
	}

	idx, ok := sm.Index(model.ScreenCoord{X: 1, Y: 0})
	if !ok || idx != 1 {
		t.Fatalf("Index returned %d, %v", idx, ok)
	}

	if _, ok := sm.Get(model.ScreenCoord{X: 99, Y: 99}); ok {
		t.Error("expected absent screen to report false")
	}
}

func TestLenAndAll(t *testing.T) {
	screens := []model.ScreenData{
		{Position: model.ScreenCoord{X: 0, Y: 0}},
		{Position: model.ScreenCoord{X: 0, Y: 1}},
		{Position: model.ScreenCoord{X: 0, Y: 2}},
	}
	sm, err := New(screens)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sm.Len() != 3 {
		t.Errorf("Len() = %d, want 3", sm.Len())
	}
	if len(sm.All()) != 3 {
		t.Errorf("All() has %d entries, want 3", len(sm.All()))
	}
	if sm.At(2).Position != screens[2].Position {
		t.Errorf("At(2) = %+v, want %+v", sm.At(2), screens[2])
	}
}
