// Package graphics is a lazy, single-threaded, read-mostly image cache
// over tilesets, gradients, and objects, applying magic-colour
// (colour-key) transparency to decoded PNGs. Missing files are cached as
// an "absent" negative result rather than treated as errors.
package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spindlymist/ksrender/internal/assets"
	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
)

// Paths locates the directories external collaborators resolved for this
// run: the level being rendered, the shared data directory, and the
// template overrides directory.
type Paths struct {
	LevelDir     string
	DataDir      string
	TemplatesDir string
}

func (p Paths) customObjectsDir() string { return filepath.Join(p.LevelDir, "Custom Objects") }

// MagicColor names a sentinel colour that is zeroed to fully transparent
// after decode, and whether that processing is mandatory regardless of the
// decoded image's own bit depth.
type MagicColor struct {
	Color color.RGBA
	Force bool
}

var (
	magicMagenta      = MagicColor{Color: color.RGBA{R: 255, G: 0, B: 255, A: 255}, Force: false}
	magicForceMagenta = MagicColor{Color: color.RGBA{R: 255, G: 0, B: 255, A: 255}, Force: true}
	magicBlack        = MagicColor{Color: color.RGBA{R: 0, G: 0, B: 0, A: 255}, Force: false}
)

// cacheKey identifies one loaded (path, magic-colour) combination.
type cacheKey struct {
	path string
	mc   MagicColor
}

// Graphics is the populated image cache for one render. It is built once
// via Preload and is read-only for the remainder of the run.
type Graphics struct {
	paths Paths

	images map[cacheKey]*image.RGBA // nil entry = cached negative result

	Tilesets  map[model.AssetId]*image.RGBA
	Gradients map[model.AssetId]*image.RGBA
	Objects   map[objectdefs.ObjectId]*image.RGBA
}

// New creates an empty Graphics cache rooted at paths.
func New(paths Paths) *Graphics {
	return &Graphics{
		paths:     paths,
		images:    make(map[cacheKey]*image.RGBA),
		Tilesets:  make(map[model.AssetId]*image.RGBA),
		Gradients: make(map[model.AssetId]*image.RGBA),
		Objects:   make(map[objectdefs.ObjectId]*image.RGBA),
	}
}

// Preload eagerly loads every asset referenced by used, so that drawing
// never touches the filesystem: the cache is populated eagerly, then only
// read while drawing.
func (g *Graphics) Preload(used assets.Used, defs *objectdefs.ObjectDefs) error {
	for _, id := range used.Tilesets {
		img, err := g.loadTileset(id)
		if err != nil {
			return err
		}
		if img != nil {
			g.Tilesets[id] = img
		}
	}
	for _, id := range used.Gradients {
		img, err := g.loadGradient(id)
		if err != nil {
			return err
		}
		if img != nil {
			g.Gradients[id] = img
		}
	}
	for _, id := range used.Objects {
		def, ok := defs.Get(id)
		if !ok {
			continue
		}
		img, err := g.loadObject(id, def, defs)
		if err != nil {
			return err
		}
		if img != nil {
			g.Objects[id] = img
		}
	}
	return nil
}

// Object returns the cached image for id, or nil if absent.
func (g *Graphics) Object(id objectdefs.ObjectId) *image.RGBA { return g.Objects[id] }

// Tileset returns the cached image for id, or nil if absent.
func (g *Graphics) Tileset(id model.AssetId) *image.RGBA { return g.Tilesets[id] }

// Gradient returns the cached image for id, or nil if absent.
func (g *Graphics) Gradient(id model.AssetId) *image.RGBA { return g.Gradients[id] }

// loadImage opens, decodes, and applies magic-colour processing to the PNG
// at path. A missing file returns (nil, nil) — the negative result. Other
// I/O and decode errors are fatal and returned.
func (g *Graphics) loadImage(path string, mc MagicColor) (*image.RGBA, error) {
	key := cacheKey{path: path, mc: mc}
	if img, ok := g.images[key]; ok {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.images[key] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("graphics: opening %s: %w", path, err)
	}
	defer f.Close()

	raw, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("graphics: decoding %s: %w", path, err)
	}

	force := mc.Force
	if _, hasAlpha := raw.(*image.NRGBA); !hasAlpha {
		// Any format decoded without a native alpha channel (e.g. 24bpp
		// RGB, which image/png decodes to *image.RGBA) forces magic-colour
		// processing regardless of the spec's own Force flag.
		force = true
	}

	rgba := toRGBA(raw)
	if force || mc.Force {
		applyMagicColor(rgba, mc.Color)
	}

	g.images[key] = rgba
	return rgba, nil
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
	return dst
}

// applyMagicColor zeroes every pixel exactly equal (all four channels) to
// the magic colour.
func applyMagicColor(img *image.RGBA, mc color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+4 : i+4]
			if px[0] == mc.R && px[1] == mc.G && px[2] == mc.B && px[3] == mc.A {
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
			}
		}
	}
}
