package drawing

import (
	"image"
	"image/color"
	"testing"

	"github.com/spindlymist/ksrender/internal/graphics"
	"github.com/spindlymist/ksrender/internal/model"
)

func TestTileSourceRectComputesGridCell(t *testing.T) {
	r := tileSourceRect(0)
	if r != image.Rect(0, 0, model.TilePixel, model.TilePixel) {
		t.Errorf("index 0 rect = %v", r)
	}
	// Index 17 is row 1, column 1 at 16 columns wide.
	r = tileSourceRect(17)
	want := image.Rect(model.TilePixel, model.TilePixel, 2*model.TilePixel, 2*model.TilePixel)
	if r != want {
		t.Errorf("index 17 rect = %v, want %v", r, want)
	}
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func newGraphicsWithTilesets(a, b *image.RGBA) *graphics.Graphics {
	g := graphics.New(graphics.Paths{})
	if a != nil {
		g.Tilesets[1] = a
	}
	if b != nil {
		g.Tilesets[2] = b
	}
	return g
}

func TestDrawTileLayerSelectsTilesetByBank(t *testing.T) {
	tilesetA := solidImage(16*model.TilePixel, model.TilePixel, color.RGBA{R: 255, A: 255})
	tilesetB := solidImage(16*model.TilePixel, model.TilePixel, color.RGBA{B: 255, A: 255})

	ctx := &Context{Graphics: newGraphicsWithTilesets(tilesetA, tilesetB)}
	canvas := image.NewRGBA(image.Rect(0, 0, model.ScreenPixelWidth, model.ScreenPixelHeight))

	var layer model.Layer
	layer[0] = model.Tile{Bank: 0, Index: 1} // tileset A
	layer[1] = model.Tile{Bank: 5, Index: 1} // any nonzero bank -> tileset B

	drawTileLayer(ctx, canvas, 0, 0, layer, model.ScreenAssets{TilesetA: 1, TilesetB: 2})

	if got := canvas.RGBAAt(0, 0); got.R != 255 || got.B != 0 {
		t.Errorf("bank 0 cell should draw from tileset A, got %+v", got)
	}
	if got := canvas.RGBAAt(model.TilePixel, 0); got.B != 255 || got.R != 0 {
		t.Errorf("nonzero-bank cell should draw from tileset B, got %+v", got)
	}
}

func TestDrawTileLayerSkipsEmptyTiles(t *testing.T) {
	tilesetA := solidImage(16*model.TilePixel, model.TilePixel, color.RGBA{R: 255, A: 255})
	ctx := &Context{Graphics: newGraphicsWithTilesets(tilesetA, nil)}
	canvas := image.NewRGBA(image.Rect(0, 0, model.ScreenPixelWidth, model.ScreenPixelHeight))

	var layer model.Layer // every cell defaults to Tile{0,0}, the empty sentinel
	drawTileLayer(ctx, canvas, 0, 0, layer, model.ScreenAssets{TilesetA: 1})

	if got := canvas.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("empty layer should leave canvas untouched, got %+v", got)
	}
}

func TestDrawTileLayerSkipsMissingTileset(t *testing.T) {
	ctx := &Context{Graphics: graphics.New(graphics.Paths{})}
	canvas := image.NewRGBA(image.Rect(0, 0, model.ScreenPixelWidth, model.ScreenPixelHeight))

	var layer model.Layer
	layer[0] = model.Tile{Bank: 0, Index: 1}

	// Must not panic when the referenced tileset was never preloaded.
	drawTileLayer(ctx, canvas, 0, 0, layer, model.ScreenAssets{TilesetA: 99})
}

func TestDrawGradientTilesSmallerImageAcrossScreen(t *testing.T) {
	g := graphics.New(graphics.Paths{})
	g.Gradients[3] = solidImage(10, 10, color.RGBA{G: 255, A: 255})
	ctx := &Context{Graphics: g}
	canvas := image.NewRGBA(image.Rect(0, 0, model.ScreenPixelWidth, model.ScreenPixelHeight))

	drawGradient(ctx, canvas, 0, 0, 3)

	corners := []image.Point{
		{X: 0, Y: 0},
		{X: model.ScreenPixelWidth - 1, Y: 0},
		{X: 0, Y: model.ScreenPixelHeight - 1},
		{X: model.ScreenPixelWidth - 1, Y: model.ScreenPixelHeight - 1},
	}
	for _, p := range corners {
		if got := canvas.RGBAAt(p.X, p.Y); got.G != 255 {
			t.Errorf("gradient should tile to cover %v, got %+v", p, got)
		}
	}
}

func TestDrawGradientMissingIdIsNoop(t *testing.T) {
	ctx := &Context{Graphics: graphics.New(graphics.Paths{})}
	canvas := image.NewRGBA(image.Rect(0, 0, model.ScreenPixelWidth, model.ScreenPixelHeight))
	drawGradient(ctx, canvas, 0, 0, 7)
	if got := canvas.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("missing gradient should leave canvas untouched, got %+v", got)
	}
}
