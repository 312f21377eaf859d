package drawing

import (
	"image"
	"image/color"
	"testing"

	"github.com/spindlymist/ksrender/internal/graphics"
	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
	"github.com/spindlymist/ksrender/internal/report"
	"github.com/spindlymist/ksrender/internal/worldsync"
)

func TestDrawObjectSkipsUnknownDefinition(t *testing.T) {
	defs := loadObjectDefs(t, "")
	ctx := baseTestContext(defs, graphics.New(graphics.Paths{}), 1)
	canvas := image.NewRGBA(image.Rect(0, 0, model.TilePixel, model.TilePixel))
	stats := report.New()

	drawObject(ctx, canvas, 0, 0, model.ScreenCoord{}, 4, 0, objectdefs.ObjectId{Tile: model.Tile{Bank: 9, Index: 9}}, worldsync.ScreenSync{}, stats, objectdefs.Point{})

	if stats.ObjectsDrawn != 0 || stats.ObjectsSkipped != 1 {
		t.Errorf("unknown definition should be skipped, got drawn=%d skipped=%d", stats.ObjectsDrawn, stats.ObjectsSkipped)
	}
}

func TestDrawObjectLayerRespectsEditorOnlyGate(t *testing.T) {
	defs := loadObjectDefs(t, "[0-20]\nEditorOnly = true\nPath = marker.png\n")
	g := graphics.New(graphics.Paths{})
	id := objectdefs.ObjectId{Tile: model.Tile{Bank: 0, Index: 20}}
	g.Objects[id] = opaquePixel(color.RGBA{R: 1, A: 255})

	canvas := image.NewRGBA(image.Rect(0, 0, model.ScreenPixelWidth, model.ScreenPixelHeight))
	var tiles model.Layer
	tiles[0] = id.Tile

	ctx := baseTestContext(defs, g, 1)
	ctx.EditorOnly = false
	stats := report.New()
	drawObjectLayer(ctx, canvas, 0, 0, model.ScreenCoord{}, 4, tiles, worldsync.ScreenSync{}, stats)
	if stats.ObjectsDrawn != 0 {
		t.Errorf("editor-only object should be skipped when EditorOnly is off, got drawn=%d", stats.ObjectsDrawn)
	}

	ctx.EditorOnly = true
	stats2 := report.New()
	drawObjectLayer(ctx, canvas, 0, 0, model.ScreenCoord{}, 4, tiles, worldsync.ScreenSync{}, stats2)
	if stats2.ObjectsDrawn != 1 {
		t.Errorf("editor-only object should draw when EditorOnly is on, got drawn=%d", stats2.ObjectsDrawn)
	}
}

func TestDrawObjectLayerRespectsLimiter(t *testing.T) {
	defs := loadObjectDefs(t, "[0-21]\nLimit = first:1\nPath = coin.png\n")
	g := graphics.New(graphics.Paths{})
	id := objectdefs.ObjectId{Tile: model.Tile{Bank: 0, Index: 21}}
	g.Objects[id] = opaquePixel(color.RGBA{R: 1, A: 255})
	ctx := baseTestContext(defs, g, 1)

	canvas := image.NewRGBA(image.Rect(0, 0, model.ScreenPixelWidth, model.ScreenPixelHeight))
	var tiles model.Layer
	tiles[0] = id.Tile
	tiles[1] = id.Tile
	sync := worldsync.ScreenSync{
		Limiters: map[objectdefs.ObjectId]*worldsync.Limiter{
			id: {Chosen: []int{0}},
		},
	}

	stats := report.New()
	drawObjectLayer(ctx, canvas, 0, 0, model.ScreenCoord{}, 4, tiles, sync, stats)
	if stats.ObjectsDrawn != 1 || stats.ObjectsSkipped != 1 {
		t.Fatalf("only the limiter's chosen occurrence should draw, got drawn=%d skipped=%d", stats.ObjectsDrawn, stats.ObjectsSkipped)
	}
}

func TestDrawWithGlowIncrementsLimiterOnceForBothDraws(t *testing.T) {
	defs := loadObjectDefs(t, "[1-5]\nLimit = first:1\nPath = glowing.png\n[1-5 Glow]\nPath = glowing_glow.png\n")
	g := graphics.New(graphics.Paths{})
	id := objectdefs.ObjectId{Tile: model.Tile{Bank: bankGlow, Index: 5}}
	g.Objects[id] = opaquePixel(color.RGBA{R: 1, A: 255})
	g.Objects[id.WithVariant(objectdefs.VariantGlow)] = opaquePixel(color.RGBA{G: 1, A: 255})
	ctx := baseTestContext(defs, g, 1)

	canvas := image.NewRGBA(image.Rect(0, 0, model.ScreenPixelWidth, model.ScreenPixelHeight))
	var tiles model.Layer
	tiles[0] = id.Tile
	sync := worldsync.ScreenSync{
		Limiters: map[objectdefs.ObjectId]*worldsync.Limiter{
			id: {Chosen: []int{0}},
		},
	}

	stats := report.New()
	drawObjectLayer(ctx, canvas, 0, 0, model.ScreenCoord{}, 4, tiles, sync, stats)
	if stats.ObjectsSkipped != 0 {
		t.Errorf("a single limited glow tile within its chosen set should not be skipped, got skipped=%d", stats.ObjectsSkipped)
	}
}

func TestLimiterKeyRedirectsOverrideObjectsToOriginalTile(t *testing.T) {
	overrideID := objectdefs.ObjectId{Tile: model.Tile{Bank: model.CustomObjectBankB, Index: 5}}
	originalID := objectdefs.ObjectId{Tile: model.Tile{Bank: 0, Index: 22}}

	got := limiterKey(overrideID, objectdefs.ObjectDef{Kind: objectdefs.KindOverrideObject, OriginalTile: originalID.Tile})
	if got != originalID {
		t.Fatalf("limiterKey for an override object should redirect to its original tile, got %v", got)
	}

	plain := objectdefs.ObjectDef{Kind: objectdefs.KindObject}
	if got := limiterKey(originalID, plain); got != originalID {
		t.Fatalf("limiterKey for a plain object should be the id itself, got %v", got)
	}
}

func TestModFrameCountWrapsBySheetWidth(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, model.TilePixel*4, model.TilePixel))
	if got := modFrameCount(0, img, model.TilePixel, model.TilePixel); got != 0 {
		t.Errorf("modFrameCount(0, ...) = %d, want 0", got)
	}
	if got := modFrameCount(5, img, model.TilePixel, model.TilePixel); got != 1 {
		t.Errorf("modFrameCount(5, 4 frames) = %d, want 1", got)
	}
}

func TestModFrameCountZeroFrameHeightIsZero(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, model.TilePixel, model.TilePixel))
	if got := modFrameCount(3, img, model.TilePixel, 0); got != 0 {
		t.Errorf("modFrameCount with zero frame height should return 0, got %d", got)
	}
}

func TestFrameCountCountsMultipleRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, model.TilePixel*4, model.TilePixel*3))
	if got := frameCount(img, model.TilePixel, model.TilePixel); got != 12 {
		t.Errorf("frameCount on a 4x3 sheet = %d, want 12", got)
	}
}

func TestFrameRectWrapsToNextRow(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, model.TilePixel*4, model.TilePixel*2))
	got := frameRect(img, 5, model.TilePixel, model.TilePixel)
	want := image.Rect(model.TilePixel, model.TilePixel, model.TilePixel*2, model.TilePixel*2)
	if got != want {
		t.Errorf("frameRect(5) on a 4-wide sheet = %v, want %v (row 1, col 1)", got, want)
	}
}

func TestResolveFrameIndexUsesGroupSyncClock(t *testing.T) {
	defs := loadObjectDefs(t, "[0-23]\nSyncTo = group\nPath = laser.png\n")
	def, _ := defs.Get(objectdefs.ObjectId{Tile: model.Tile{Bank: 0, Index: 23}})
	img := image.NewRGBA(image.Rect(0, 0, model.TilePixel*4, model.TilePixel))
	ctx := baseTestContext(defs, graphics.New(graphics.Paths{}), 1)

	sync := worldsync.ScreenSync{Group: worldsync.GroupSync{AnimT: 9}, AnimT: 1}
	got := resolveFrameIndex(ctx, model.ScreenCoord{}, 4, 0, def, sync, img, model.TilePixel, model.TilePixel)
	if got != 1 { // 9 % 4 frames == 1
		t.Errorf("group-synced frame index = %d, want 1", got)
	}
}

func TestResolveFrameIndexUsesScreenSyncClock(t *testing.T) {
	defs := loadObjectDefs(t, "[0-24]\nSyncTo = screen\nPath = laser.png\n")
	def, _ := defs.Get(objectdefs.ObjectId{Tile: model.Tile{Bank: 0, Index: 24}})
	img := image.NewRGBA(image.Rect(0, 0, model.TilePixel*4, model.TilePixel))
	ctx := baseTestContext(defs, graphics.New(graphics.Paths{}), 1)

	sync := worldsync.ScreenSync{Group: worldsync.GroupSync{AnimT: 9}, AnimT: 6}
	got := resolveFrameIndex(ctx, model.ScreenCoord{}, 4, 0, def, sync, img, model.TilePixel, model.TilePixel)
	if got != 2 { // 6 % 4 frames == 2
		t.Errorf("screen-synced frame index = %d, want 2", got)
	}
}

func TestResolveFrameIndexUnsyncedWithoutFrameRangeUsesFullSheet(t *testing.T) {
	defs := loadObjectDefs(t, "[0-26]\nPath = leaf.png\n")
	def, _ := defs.Get(objectdefs.ObjectId{Tile: model.Tile{Bank: 0, Index: 26}})
	img := image.NewRGBA(image.Rect(0, 0, model.TilePixel*4, model.TilePixel))
	ctx := baseTestContext(defs, graphics.New(graphics.Paths{}), 1)

	for i := 0; i < 50; i++ {
		got := resolveFrameIndex(ctx, model.ScreenCoord{X: int32(i)}, 4, 0, def, worldsync.ScreenSync{}, img, model.TilePixel, model.TilePixel)
		if got < 0 || got >= 4 {
			t.Fatalf("unsynced frame index %d outside the sheet's full 4-frame extent", got)
		}
	}
}

func TestResolveFrameIndexUnsyncedUsesFrameRange(t *testing.T) {
	defs := loadObjectDefs(t, "[0-25]\nFrameFrom = 1\nFrameTo = 3\nPath = leaf.png\n")
	def, _ := defs.Get(objectdefs.ObjectId{Tile: model.Tile{Bank: 0, Index: 25}})
	img := image.NewRGBA(image.Rect(0, 0, model.TilePixel*4, model.TilePixel))
	ctx := baseTestContext(defs, graphics.New(graphics.Paths{}), 1)

	for i := 0; i < 50; i++ {
		got := resolveFrameIndex(ctx, model.ScreenCoord{X: int32(i)}, 4, 0, def, worldsync.ScreenSync{}, img, model.TilePixel, model.TilePixel)
		if got < 1 || got >= 3 {
			t.Fatalf("unsynced frame index %d outside declared range [1,3)", got)
		}
	}
}
