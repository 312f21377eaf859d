// Package drawing composites a ScreenMap's tile and object layers into
// per-partition raster canvases, applying the synchronization state
// computed by worldsync and the images cached by graphics.
package drawing

import (
	"image"

	"github.com/spindlymist/ksrender/internal/graphics"
	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
	"github.com/spindlymist/ksrender/internal/partition"
	"github.com/spindlymist/ksrender/internal/screenmap"
	"github.com/spindlymist/ksrender/internal/seed"
	"github.com/spindlymist/ksrender/internal/worldini"
	"github.com/spindlymist/ksrender/internal/worldsync"
)

// Context bundles everything a draw pass needs to read: the parsed
// screens, loaded images, object rules, synchronization state, and the
// deterministic seed every RNG draw derives from.
type Context struct {
	ScreenMap *screenmap.ScreenMap
	Graphics  *graphics.Graphics
	Defs      *objectdefs.ObjectDefs
	WorldSync *worldsync.WorldSync
	WorldINI  *worldini.File // may be nil
	MapSeed   seed.MapSeed

	// EditorOnly enables drawing of objects whose definition is marked
	// visible only in the level editor (e.g. trigger markers, spawn
	// points). Off by default, matching in-game rendering.
	EditorOnly bool
}

// Result is one rendered partition, positioned at its world Bounds.
type Result struct {
	Bounds partition.Bounds
	Image  *image.RGBA
}

// screenSection returns a screen's "x{X}y{Y}" world-INI section, or a zero
// Section (every lookup misses) when there is no world INI or no matching
// section.
func (c *Context) screenSection(pos model.ScreenCoord) worldini.Section {
	if c.WorldINI == nil {
		return worldini.Section{}
	}
	sec, ok := c.WorldINI.ScreenSection(pos.X, pos.Y)
	if !ok {
		return worldini.Section{}
	}
	return sec
}

// screenOverlay reports whether a screen's "Overlay" flag is set in the
// world INI, defaulting to false when the screen has no section or the
// world has no INI at all.
func (c *Context) screenOverlay(pos model.ScreenCoord) bool {
	sec := c.screenSection(pos)
	return sec.EqualFold("Overlay", "true") || sec.EqualFold("Overlay", "1")
}
