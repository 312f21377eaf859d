// Package screenmap provides an indexed, immutable container of screens
// keyed by their integer coordinate.
package screenmap

import (
	"fmt"

	"github.com/spindlymist/ksrender/internal/model"
)

// ScreenMap indexes a slice of screens by position. Screen coordinates must
// be unique; it is immutable after construction.
type ScreenMap struct {
	screens []model.ScreenData
	index   map[model.ScreenCoord]int
}

// New builds a ScreenMap from a slice of screens. Returns an error if two
// screens share the same position.
func New(screens []model.ScreenData) (*ScreenMap, error) {
	index := make(map[model.ScreenCoord]int, len(screens))
	for i, s := range screens {
		if _, exists := index[s.Position]; exists {
			return nil, fmt.Errorf("screenmap: duplicate screen position %s", s.Position)
		}
		index[s.Position] = i
	}
	return &ScreenMap{screens: screens, index: index}, nil
}

// Get returns the screen at position, and whether it was present.
func (m *ScreenMap) Get(position model.ScreenCoord) (model.ScreenData, bool) {
	i, ok := m.index[position]
	if !ok {
		return model.ScreenData{}, false
	}
	return m.screens[i], true
}

// Index returns the slice index of the screen at position, and whether it
// was present. This index is stable for the lifetime of the ScreenMap and
// is used to address per-screen slices such as WorldSync's group table.
func (m *ScreenMap) Index(position model.ScreenCoord) (int, bool) {
	i, ok := m.index[position]
	return i, ok
}

// Len returns the number of screens.
func (m *ScreenMap) Len() int { return len(m.screens) }

// At returns the screen at slice index i.
func (m *ScreenMap) At(i int) model.ScreenData { return m.screens[i] }

// All returns the full underlying screen slice in storage order. Callers
// must not mutate it.
func (m *ScreenMap) All() []model.ScreenData { return m.screens }
