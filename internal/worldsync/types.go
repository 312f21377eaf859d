// Package worldsync groups screens into synchronization groups via
// union-find over cross-border object adjacencies, assigns each group a
// shared animation phase and laser colour, and builds per-screen
// "limiters" that downselect repeated objects.
package worldsync

import "github.com/spindlymist/ksrender/internal/objectdefs"

// GroupSync is the data shared by every member of a synchronization group.
type GroupSync struct {
	AnimT      uint32
	LaserPhase objectdefs.LaserPhase
}

// WorldSync holds one GroupSync per screen, indexed by the screen's
// ScreenMap slice index.
type WorldSync struct {
	Groups []GroupSync
}

// Options configures WorldSync construction.
type Options struct {
	// MaximizeVisibleLasers biases laser-phase selection toward whichever
	// colour has strictly more occurrences in a group, instead of only
	// breaking zero-count ties.
	MaximizeVisibleLasers bool
}

// Limiter downselects which occurrences of an object on one screen are
// actually drawn. Chosen is sorted descending so the smallest unconsumed
// index is always at the tail.
type Limiter struct {
	Count  int
	Chosen []int
}

// Increment consumes one occurrence slot and reports whether it should be
// drawn. Always advances Count regardless of the result.
func (l *Limiter) Increment() bool {
	matched := false
	if n := len(l.Chosen); n > 0 && l.Count == l.Chosen[n-1] {
		l.Chosen = l.Chosen[:n-1]
		matched = true
	}
	l.Count++
	return matched
}

// ScreenSync is the transient per-draw-screen-call synchronization state.
type ScreenSync struct {
	Group    GroupSync
	AnimT    uint32
	Limiters map[objectdefs.ObjectId]*Limiter
}
