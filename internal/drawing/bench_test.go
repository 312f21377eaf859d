package drawing

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/spindlymist/ksrender/internal/graphics"
	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
	"github.com/spindlymist/ksrender/internal/report"
	"github.com/spindlymist/ksrender/internal/seed"
	"github.com/spindlymist/ksrender/internal/worldsync"
)

// benchScreen builds a screen with every layer densely populated, so the
// benchmark exercises tile, gradient, and object drawing together rather
// than measuring an empty fast path.
func benchScreen(pos model.ScreenCoord) model.ScreenData {
	s := model.ScreenData{Position: pos, Assets: model.ScreenAssets{TilesetA: 1, TilesetB: 2, Gradient: 1}}
	for layer := 0; layer < 4; layer++ {
		for i := range s.Layers[layer] {
			bank := uint8(0)
			if i%2 == 0 {
				bank = 1
			}
			s.Layers[layer][i] = model.Tile{Bank: bank, Index: uint8(1 + i%15)}
		}
	}
	s.Layers[4][0] = model.Tile{Bank: 1, Index: 5} // glow bank
	s.Layers[5][0] = model.Tile{Bank: 0, Index: 10}
	return s
}

func BenchmarkDrawScreen(b *testing.B) {
	path := filepath.Join(b.TempDir(), "objects.ini")
	os.WriteFile(path, []byte("[0-10]\nPath = leaf.png\n[1-5]\nPath = lamp.png\n[1-5 Glow]\nPath = lamp_glow.png\n"), 0o644)
	defs, err := objectdefs.LoadTable(path)
	if err != nil {
		b.Fatalf("LoadTable: %v", err)
	}

	g := graphics.New(graphics.Paths{})
	g.Tilesets[1] = solidImage(16*model.TilePixel, model.TilePixel, color.RGBA{R: 200, A: 255})
	g.Tilesets[2] = solidImage(16*model.TilePixel, model.TilePixel, color.RGBA{B: 200, A: 255})
	g.Gradients[1] = solidImage(64, 64, color.RGBA{G: 50, A: 255})
	g.Objects[objectdefs.ObjectId{Tile: model.Tile{Bank: 0, Index: 10}}] = opaquePixel(color.RGBA{R: 1, A: 255})
	glowBase := objectdefs.ObjectId{Tile: model.Tile{Bank: 1, Index: 5}}
	g.Objects[glowBase] = opaquePixel(color.RGBA{G: 1, A: 255})
	g.Objects[glowBase.WithVariant(objectdefs.VariantGlow)] = opaquePixel(color.RGBA{B: 1, A: 255})

	screen := benchScreen(model.ScreenCoord{X: 0, Y: 0})
	mapSeed := seed.MapSeed{Value: 42}
	ctx := &Context{Graphics: g, Defs: defs, MapSeed: mapSeed, WorldSync: &worldsync.WorldSync{Groups: []worldsync.GroupSync{{}}}}
	canvas := image.NewRGBA(image.Rect(0, 0, model.ScreenPixelWidth, model.ScreenPixelHeight))
	stats := report.New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		drawScreen(ctx, canvas, 0, 0, screen, 0, stats)
	}
}
