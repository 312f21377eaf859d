package drawing

import (
	"image"

	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
	"github.com/spindlymist/ksrender/internal/report"
	"github.com/spindlymist/ksrender/internal/seed"
	"github.com/spindlymist/ksrender/internal/worldsync"
)

// Banks with special per-object drawing behaviour, beyond the generic
// frame/flip/alpha/blend handling in drawObject.
const (
	bankShiftTrig    = 0
	bankGlow         = 1
	bankElemental    = 2
	bankRandomOffset = 8
)

var glowIndices = map[uint8]bool{5: true, 10: true, 12: true, 22: true}
var elementalIndices = map[uint8]bool{18: true, 19: true}

var elementalVariants = []objectdefs.ObjectVariant{
	objectdefs.VariantA, objectdefs.VariantB, objectdefs.VariantC, objectdefs.VariantD,
}

// shiftPropertyNames maps a bank-0 shift/trigger index to the world-INI
// property pair that governs its visibility and type. Indices 14/15/16 are
// the three shift switches (A/B/C); 32/33/34 are their trigger twins.
func shiftPropertyNames(index uint8) (visProp, typeProp string, ok bool) {
	switch index {
	case 14:
		return "ShiftVisible(A)", "ShiftType(A)", true
	case 15:
		return "ShiftVisible(B)", "ShiftType(B)", true
	case 16:
		return "ShiftVisible(C)", "ShiftType(C)", true
	case 32:
		return "TrigVisible(A)", "TrigType(A)", true
	case 33:
		return "TrigVisible(B)", "TrigType(B)", true
	case 34:
		return "TrigVisible(C)", "TrigType(C)", true
	}
	return "", "", false
}

// drawObjectLayer walks one object layer and dispatches each occupied tile
// to the drawing routine its (bank, index) selects. Dispatch is keyed on
// the proxy tile: for an override-custom-object that's the original stock
// tile it overrides, so a re-skinned shift switch or glow emitter still
// gets its special treatment. The occurrence limiter and editor-only gate
// are evaluated exactly once per tile here, before dispatch, so a glow
// object's two underlying draws never double-count against its limit.
func drawObjectLayer(ctx *Context, canvas *image.RGBA, originX, originY int, pos model.ScreenCoord, layer int, tiles model.Layer, sync worldsync.ScreenSync, stats *report.Stats) {
	for i, tile := range tiles {
		if tile.IsEmpty() {
			continue
		}

		actualID := objectdefs.ObjectId{Tile: tile}
		def, ok := ctx.Defs.Get(actualID)
		if ok {
			if def.Limit.Kind != objectdefs.LimitNone {
				if limiter := sync.Limiters[limiterKey(actualID, def)]; limiter != nil && !limiter.Increment() {
					stats.IncObjectsSkipped()
					continue
				}
			}
			if def.EditorOnly && !ctx.EditorOnly {
				stats.IncObjectsSkipped()
				continue
			}
			if phase := def.SyncParams.LaserPhase; phase != nil && *phase != sync.Group.LaserPhase {
				stats.IncObjectsSkipped()
				continue
			}
		}

		proxyTile := tile
		if ok && def.Kind == objectdefs.KindOverrideObject {
			proxyTile = def.OriginalTile
		}

		switch {
		case proxyTile.Bank == bankShiftTrig:
			if _, _, isShift := shiftPropertyNames(proxyTile.Index); isShift {
				drawShift(ctx, canvas, originX, originY, pos, layer, i, proxyTile, sync, stats)
				continue
			}
			drawObject(ctx, canvas, originX, originY, pos, layer, i, actualID, sync, stats, objectdefs.Point{})
		case proxyTile.Bank == bankGlow && glowIndices[proxyTile.Index]:
			drawWithGlow(ctx, canvas, originX, originY, pos, layer, i, proxyTile, actualID, sync, stats)
		case proxyTile.Bank == bankElemental && elementalIndices[proxyTile.Index]:
			drawElemental(ctx, canvas, originX, originY, pos, layer, i, proxyTile, sync, stats)
		case proxyTile.Bank == bankRandomOffset && proxyTile.Index == 10:
			drawWithRandomOffset(ctx, canvas, originX, originY, pos, layer, i, actualID, sync, stats, 6)
		case proxyTile.Bank == bankRandomOffset && proxyTile.Index == 15:
			drawWithRandomOffset(ctx, canvas, originX, originY, pos, layer, i, actualID, sync, stats, 12)
		default:
			drawObject(ctx, canvas, originX, originY, pos, layer, i, actualID, sync, stats, objectdefs.Point{})
		}
	}
}

// drawShift resolves a shift switch or trigger's visibility and on-screen
// type from the level designer's per-screen world-INI overrides, rather
// than drawing it unconditionally: these are puzzle pieces whose state is
// authored per screen, not encoded in the tile itself.
func drawShift(ctx *Context, canvas *image.RGBA, originX, originY int, pos model.ScreenCoord, layer, i int, proxyTile model.Tile, sync worldsync.ScreenSync, stats *report.Stats) {
	visProp, typeProp, ok := shiftPropertyNames(proxyTile.Index)
	if !ok {
		stats.IncObjectsSkipped()
		return
	}

	section := ctx.screenSection(pos)
	if section.EqualFold(visProp, "False") {
		stats.IncObjectsSkipped()
		return
	}

	variant := objectdefs.VariantSpot
	switch section.GetOr(typeProp, "0") {
	case "1":
		variant = objectdefs.VariantFloor
	case "2":
		variant = objectdefs.VariantCircle
	case "3":
		variant = objectdefs.VariantSquare
	}

	id := objectdefs.ObjectId{Tile: proxyTile}.WithVariant(variant)
	drawObject(ctx, canvas, originX, originY, pos, layer, i, id, sync, stats, objectdefs.Point{})
}

// drawWithGlow draws the proxy tile's VariantGlow artwork first, then the
// actual (possibly override-custom) object on top of it. The glow draw is
// attempted unconditionally; if the proxy tile has no Glow definition or
// no glow artwork, drawObject draws nothing for that pass and counts it as
// a skipped object.
func drawWithGlow(ctx *Context, canvas *image.RGBA, originX, originY int, pos model.ScreenCoord, layer, i int, proxyTile model.Tile, actualID objectdefs.ObjectId, sync worldsync.ScreenSync, stats *report.Stats) {
	glowID := objectdefs.ObjectId{Tile: proxyTile}.WithVariant(objectdefs.VariantGlow)
	drawObject(ctx, canvas, originX, originY, pos, layer, i, glowID, sync, stats, objectdefs.Point{})
	drawObject(ctx, canvas, originX, originY, pos, layer, i, actualID, sync, stats, objectdefs.Point{})
}

// drawElemental picks one of the four elemental-affinity variants (A-D)
// uniformly at random, deterministically per draw, and draws the proxy
// tile with that variant.
func drawElemental(ctx *Context, canvas *image.RGBA, originX, originY int, pos model.ScreenCoord, layer, i int, proxyTile model.Tile, sync worldsync.ScreenSync, stats *report.Stats) {
	choice := ctx.MapSeed.Hasher(seed.StepElementalVariant).
		WriteCoord(pos).WriteLayer(layer).WriteIndex(i).
		Range(0, uint32(len(elementalVariants)))
	id := objectdefs.ObjectId{Tile: proxyTile}.WithVariant(elementalVariants[choice])
	drawObject(ctx, canvas, originX, originY, pos, layer, i, id, sync, stats, objectdefs.Point{})
}

// drawWithRandomOffset nudges an otherwise-ordinary object's draw position
// by a small deterministic jitter, so decorative scatter objects don't
// look grid-aligned. The x and y jitter are independent draws from one
// RNG stream seeded on (pos, layer, i), x drawn first.
func drawWithRandomOffset(ctx *Context, canvas *image.RGBA, originX, originY int, pos model.ScreenCoord, layer, i int, id objectdefs.ObjectId, sync worldsync.ScreenSync, stats *report.Stats, jitterRange int64) {
	rng := ctx.MapSeed.Hasher(seed.StepOffset).WriteCoord(pos).WriteLayer(layer).WriteIndex(i).IntoRNG()
	jx := rng.IntRange(-jitterRange, jitterRange)
	jy := rng.IntRange(-jitterRange, jitterRange)

	drawObject(ctx, canvas, originX, originY, pos, layer, i, id, sync, stats, objectdefs.Point{X: jx, Y: jy})
}
