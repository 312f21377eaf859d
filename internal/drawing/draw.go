package drawing

import (
	"image"

	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
	"github.com/spindlymist/ksrender/internal/report"
	"github.com/spindlymist/ksrender/internal/seed"
	"github.com/spindlymist/ksrender/internal/worldsync"
)

const defaultFrameSize = model.TilePixel

// limiterKey returns the key a definition's occurrence count and Limiter
// are tracked under: the override's original tile for override-custom
// objects, the id itself otherwise. Must match worldsync.BuildScreenSync's
// counting key exactly.
func limiterKey(id objectdefs.ObjectId, def objectdefs.ObjectDef) objectdefs.ObjectId {
	if def.Kind == objectdefs.KindOverrideObject {
		return objectdefs.ObjectId{Tile: def.OriginalTile}
	}
	return id
}

// drawObject is the generic per-object draw routine every bank dispatch
// eventually calls: it resolves the definition, picks a flip/frame/alpha
// via the deterministic RNG, and composites the resulting sprite frame onto
// canvas. A missing definition or image counts as a skipped object. The
// occurrence limiter is not applied here; drawObjectLayer applies it.
func drawObject(ctx *Context, canvas *image.RGBA, originX, originY int, pos model.ScreenCoord, layer, i int, id objectdefs.ObjectId, sync worldsync.ScreenSync, stats *report.Stats, extraOffset objectdefs.Point) {
	def, ok := ctx.Defs.Get(id)
	if !ok {
		stats.IncObjectsSkipped()
		return
	}

	drawID := id
	flip := false
	if def.DrawParams.Flip {
		flip = ctx.MapSeed.Hasher(seed.StepFlip).
			WriteCoord(pos).WriteLayer(layer).WriteIndex(i).
			Bool()
		if flip && def.DrawParams.FlipVariant != nil {
			drawID = id.WithVariant(*def.DrawParams.FlipVariant)
			flip = false
		}
	}

	img := ctx.Graphics.Object(drawID)
	if img == nil {
		stats.IncObjectsSkipped()
		return
	}

	frameW, frameH := int(def.DrawParams.FrameSize.W), int(def.DrawParams.FrameSize.H)
	if frameW == 0 || frameH == 0 {
		frameW, frameH = defaultFrameSize, defaultFrameSize
	}
	if b := img.Bounds(); frameW > b.Dx() || frameH > b.Dy() {
		if frameW > b.Dx() {
			frameW = b.Dx()
		}
		if frameH > b.Dy() {
			frameH = b.Dy()
		}
	}

	frameIndex := resolveFrameIndex(ctx, pos, layer, i, def, sync, img, frameW, frameH)
	srcRect := frameRect(img, frameIndex, frameW, frameH)

	src := img
	if flip {
		src = flipHorizontal(img, srcRect)
		srcRect = src.Bounds()
	}

	alpha := uint8(255)
	if r := def.DrawParams.AlphaRange; r != nil {
		alpha = uint8(ctx.MapSeed.Hasher(seed.StepAlpha).
			WriteCoord(pos).WriteLayer(layer).WriteIndex(i).
			Range(uint32(r.Start), uint32(r.End)))
	}

	col, row := i%model.ScreenWidth, i/model.ScreenWidth
	cellX := originX + col*model.TilePixel
	cellY := originY + row*model.TilePixel

	dx := cellX + model.TilePixel/2 - frameW/2 + int(def.DrawParams.Offset.X) + int(extraOffset.X)
	dy := cellY + model.TilePixel/2 - frameH/2 + int(def.DrawParams.Offset.Y) + int(extraOffset.Y)

	blitObject(canvas, dx, dy, src, srcRect, alpha, def.DrawParams.BlendMode)
	stats.IncObjectsDrawn()
}

// resolveFrameIndex picks which frame of an object's spritesheet to draw
// this call: a synchronized group/screen animation clock modulo the sheet's
// frame count, or an independent per-draw random pick within the
// definition's declared frame range.
func resolveFrameIndex(ctx *Context, pos model.ScreenCoord, layer, i int, def objectdefs.ObjectDef, sync worldsync.ScreenSync, img *image.RGBA, frameW, frameH int) int {
	switch def.DrawParams.SyncTo {
	case objectdefs.SyncGroup:
		return modFrameCount(sync.Group.AnimT, img, frameW, frameH)
	case objectdefs.SyncScreen:
		return modFrameCount(sync.AnimT, img, frameW, frameH)
	default:
		count := frameCount(img, frameW, frameH)
		if count <= 0 {
			return 0
		}
		start, end := uint32(0), uint32(count)
		if r := def.DrawParams.FrameRange; r != nil {
			start, end = r.Start, r.End
			if end > uint32(count) {
				end = uint32(count)
			}
		}
		if end <= start {
			return 0
		}
		return int(ctx.MapSeed.Hasher(seed.StepFrame).
			WriteCoord(pos).WriteLayer(layer).WriteIndex(i).
			Range(start, end))
	}
}

// framesPerRow returns how many frameW-wide frames fit across img's width.
func framesPerRow(img *image.RGBA, frameW int) int {
	if frameW <= 0 {
		return 0
	}
	return img.Bounds().Dx() / frameW
}

// frameCount returns how many frameW x frameH frames the sheet holds,
// reading left-to-right then top-to-bottom across however many rows fit.
func frameCount(img *image.RGBA, frameW, frameH int) int {
	if frameH <= 0 {
		return 0
	}
	perRow := framesPerRow(img, frameW)
	rows := img.Bounds().Dy() / frameH
	return perRow * rows
}

// frameRect locates frame's source rectangle within img, wrapping to the
// next row once a row of framesPerRow(img, frameW) frames is exhausted.
func frameRect(img *image.RGBA, frame, frameW, frameH int) image.Rectangle {
	perRow := framesPerRow(img, frameW)
	if perRow <= 0 {
		perRow = 1
	}
	col, row := frame%perRow, frame/perRow
	x0 := col * frameW
	y0 := row * frameH
	return image.Rect(x0, y0, x0+frameW, y0+frameH)
}

func modFrameCount(animT uint32, img *image.RGBA, frameW, frameH int) int {
	count := frameCount(img, frameW, frameH)
	if count <= 0 {
		return 0
	}
	return int(animT % uint32(count))
}
