package drawing

import (
	"image"

	"github.com/spindlymist/ksrender/internal/model"
)

// tilesetColumns is the fixed grid width (in tiles) every tileset image is
// laid out with. Tile.Index selects a cell in row-major order.
const tilesetColumns = 16

func tileSourceRect(index uint8) image.Rectangle {
	col := int(index) % tilesetColumns
	row := int(index) / tilesetColumns
	x0 := col * model.TilePixel
	y0 := row * model.TilePixel
	return image.Rect(x0, y0, x0+model.TilePixel, y0+model.TilePixel)
}

// drawTileLayer blits one full tile layer onto canvas at (originX, originY).
// Tile.Bank selects which of the screen's two tilesets a cell draws from:
// 0 for TilesetA, any other value for TilesetB.
func drawTileLayer(ctx *Context, canvas *image.RGBA, originX, originY int, layer model.Layer, assets model.ScreenAssets) {
	tilesetA := ctx.Graphics.Tileset(assets.TilesetA)
	tilesetB := ctx.Graphics.Tileset(assets.TilesetB)

	for i, tile := range layer {
		if tile.IsEmpty() {
			continue
		}
		tileset := tilesetA
		if tile.Bank != 0 {
			tileset = tilesetB
		}
		if tileset == nil {
			continue
		}

		col := i % model.ScreenWidth
		row := i / model.ScreenWidth
		dx := originX + col*model.TilePixel
		dy := originY + row*model.TilePixel

		blitOver(canvas, dx, dy, tileset, tileSourceRect(tile.Index))
	}
}

// drawGradient tiles a screen's background gradient image across its full
// pixel area, repeating the source image if it is smaller than one screen.
func drawGradient(ctx *Context, canvas *image.RGBA, originX, originY int, gradientID model.AssetId) {
	img := ctx.Graphics.Gradient(gradientID)
	if img == nil {
		return
	}
	b := img.Bounds()
	gw, gh := b.Dx(), b.Dy()
	if gw == 0 || gh == 0 {
		return
	}
	for y := 0; y < model.ScreenPixelHeight; y += gh {
		for x := 0; x < model.ScreenPixelWidth; x += gw {
			w := gw
			if x+w > model.ScreenPixelWidth {
				w = model.ScreenPixelWidth - x
			}
			h := gh
			if y+h > model.ScreenPixelHeight {
				h = model.ScreenPixelHeight - y
			}
			blitOver(canvas, originX+x, originY+y, img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Min.Y+h))
		}
	}
}
