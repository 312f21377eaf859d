// Package partition decomposes a ScreenMap into non-overlapping rectangular
// regions, each within a pixel-size budget, via one of two interchangeable
// strategies (grid and island clustering).
package partition

import (
	"fmt"

	"github.com/spindlymist/ksrender/internal/model"
)

// Bounds is a half-open integer rectangle [X0,X1) x [Y0,Y1).
type Bounds struct {
	X0, X1 int64
	Y0, Y1 int64
}

// IsEmpty reports whether the bounds contain no positions.
func (b Bounds) IsEmpty() bool { return b.X0 >= b.X1 || b.Y0 >= b.Y1 }

// Width returns X1-X0.
func (b Bounds) Width() int64 { return b.X1 - b.X0 }

// Height returns Y1-Y0.
func (b Bounds) Height() int64 { return b.Y1 - b.Y0 }

// Size returns (Width, Height).
func (b Bounds) Size() (int64, int64) { return b.Width(), b.Height() }

// Contains reports whether b is a superset-or-equal of other in both axes.
func (b Bounds) Contains(other Bounds) bool {
	if other.IsEmpty() {
		return true
	}
	return b.X0 <= other.X0 && other.X1 <= b.X1 && b.Y0 <= other.Y0 && other.Y1 <= b.Y1
}

// Union returns the minimum enclosing rectangle of a and b.
func Union(a, b Bounds) Bounds {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	return Bounds{
		X0: min64(a.X0, b.X0),
		X1: max64(a.X1, b.X1),
		Y0: min64(a.Y0, b.Y0),
		Y1: max64(a.Y1, b.Y1),
	}
}

// FromCoords computes the minimum enclosing Bounds of a set of screen
// coordinates in one pass. An empty input yields the zero-sized bounds at
// the origin.
func FromCoords(positions []model.ScreenCoord) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	minX, maxX := int64(positions[0].X), int64(positions[0].X)
	minY, maxY := int64(positions[0].Y), int64(positions[0].Y)
	for _, p := range positions[1:] {
		x, y := int64(p.X), int64(p.Y)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return Bounds{X0: minX, X1: maxX + 1, Y0: minY, Y1: maxY + 1}
}

// String renders the display form used for output filenames:
// "empty", "xAyB" for a single cell, else "xAyB to xCyD".
func (b Bounds) String() string {
	if b.IsEmpty() {
		return "empty"
	}
	if b.Width() == 1 && b.Height() == 1 {
		return fmt.Sprintf("x%dy%d", b.X0, b.Y0)
	}
	return fmt.Sprintf("x%dy%d to x%dy%d", b.X0, b.Y0, b.X1-1, b.Y1-1)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
