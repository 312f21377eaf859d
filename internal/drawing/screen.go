package drawing

import (
	"image"

	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/report"
	"github.com/spindlymist/ksrender/internal/worldsync"
)

// drawScreen composites one screen's background, tile layers, and object
// layers onto canvas at the given pixel origin.
//
// Layer 2 is drawn either just after layer 1 or just before layer 7,
// depending on the screen's "Overlay" flag: non-overlay screens treat
// layer 2 as scenery beneath the objects, overlay screens treat it as
// foreground dressing drawn on top of them.
func drawScreen(ctx *Context, canvas *image.RGBA, originX, originY int, screen model.ScreenData, screenIdx int, stats *report.Stats) {
	overlay := ctx.screenOverlay(screen.Position)
	groupSync := ctx.WorldSync.Groups[screenIdx]
	sync := worldsync.BuildScreenSync(screen, groupSync, ctx.MapSeed, ctx.Defs)

	drawGradient(ctx, canvas, originX, originY, screen.Assets.Gradient)

	drawTileLayer(ctx, canvas, originX, originY, screen.Layers[0], screen.Assets)
	drawTileLayer(ctx, canvas, originX, originY, screen.Layers[1], screen.Assets)
	if !overlay {
		drawTileLayer(ctx, canvas, originX, originY, screen.Layers[2], screen.Assets)
	}
	drawTileLayer(ctx, canvas, originX, originY, screen.Layers[3], screen.Assets)

	drawObjectLayer(ctx, canvas, originX, originY, screen.Position, 4, screen.Layers[4], sync, stats)
	drawObjectLayer(ctx, canvas, originX, originY, screen.Position, 5, screen.Layers[5], sync, stats)
	drawObjectLayer(ctx, canvas, originX, originY, screen.Position, 6, screen.Layers[6], sync, stats)

	if overlay {
		drawTileLayer(ctx, canvas, originX, originY, screen.Layers[2], screen.Assets)
	}

	drawObjectLayer(ctx, canvas, originX, originY, screen.Position, 7, screen.Layers[7], sync, stats)
}
