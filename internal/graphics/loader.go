package graphics

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
)

// loadFirstExisting tries each candidate path in order under mc, returning
// the first one that decodes. A NotFound candidate falls through to the
// next; any other I/O or decode error is fatal and returned immediately.
func (g *Graphics) loadFirstExisting(mc MagicColor, paths ...string) (*image.RGBA, error) {
	for _, p := range paths {
		img, err := g.loadImage(p, mc)
		if err != nil {
			return nil, err
		}
		if img != nil {
			return img, nil
		}
	}
	return nil, nil
}

func (g *Graphics) loadTileset(id model.AssetId) (*image.RGBA, error) {
	name := fmt.Sprintf("Tileset%d.png", id)
	return g.loadFirstExisting(magicMagenta,
		filepath.Join(g.paths.LevelDir, "Tilesets", name),
		filepath.Join(g.paths.DataDir, "Tilesets", name),
	)
}

func (g *Graphics) loadGradient(id model.AssetId) (*image.RGBA, error) {
	name := fmt.Sprintf("Gradient%d.png", id)
	return g.loadFirstExisting(magicMagenta,
		filepath.Join(g.paths.LevelDir, "Gradients", name),
		filepath.Join(g.paths.DataDir, "Gradients", name),
	)
}

// loadObject dispatches to the stock, custom, or override-custom-object
// loader for id's definition and applies any colour replacements it
// declares. defs is consulted only by the override path, to recover the
// original tile's own definition when the OCO has no custom graphics.
func (g *Graphics) loadObject(id objectdefs.ObjectId, def objectdefs.ObjectDef, defs *objectdefs.ObjectDefs) (*image.RGBA, error) {
	var (
		img *image.RGBA
		err error
	)

	switch def.Kind {
	case objectdefs.KindObject:
		img, err = g.loadStockObject(id, def)
	case objectdefs.KindCustomObject:
		img, err = g.loadCustomObject(def)
	case objectdefs.KindOverrideObject:
		img, err = g.loadOverrideObject(def, defs)
	default:
		return nil, fmt.Errorf("graphics: object %s has unknown kind %v", id, def.Kind)
	}
	if err != nil || img == nil {
		return img, err
	}

	if len(def.ReplaceColors) > 0 {
		// Never mutate a cached image shared with another ObjectId; OCO
		// definitions frequently reuse one base PNG with different palettes.
		img = cloneRGBA(img)
		applyColorReplacements(img, def.ReplaceColors)
	}
	return img, nil
}

// objectSuffix is the path below templates_dir/data_dir+"Objects" that
// names id's artwork: the definition's own Path when it declares one,
// else the bank/index (and variant) convention stock objects fall back to.
func objectSuffix(id objectdefs.ObjectId, def objectdefs.ObjectDef) string {
	if def.Path != "" {
		return def.Path
	}
	if id.Variant == objectdefs.VariantNone {
		return fmt.Sprintf("Bank%d/Object%d.png", id.Tile.Bank, id.Tile.Index)
	}
	return fmt.Sprintf("Bank%d/Object%d_%s.png", id.Tile.Bank, id.Tile.Index, id.Variant)
}

func (g *Graphics) loadStockObject(id objectdefs.ObjectId, def objectdefs.ObjectDef) (*image.RGBA, error) {
	suffix := objectSuffix(id, def)
	return g.loadFirstExisting(magicForceMagenta,
		filepath.Join(g.paths.TemplatesDir, suffix),
		filepath.Join(g.paths.DataDir, "Objects", suffix),
	)
}

func (g *Graphics) loadCustomObject(def objectdefs.ObjectDef) (*image.RGBA, error) {
	path := filepath.Join(g.paths.customObjectsDir(), def.Path)
	return g.loadImage(path, magicBlack)
}

// loadOverrideObject resolves an OCO definition: if its OCOSupport flag
// denies custom graphics, the original tile's stock image stands in
// (with the OCO's own colour replacements applied by the caller);
// otherwise the level's custom replacement image is loaded.
func (g *Graphics) loadOverrideObject(def objectdefs.ObjectDef, defs *objectdefs.ObjectDefs) (*image.RGBA, error) {
	if !def.OCOSupport {
		originalID := objectdefs.ObjectId{Tile: def.OriginalTile}
		originalDef, ok := defs.Get(originalID)
		if !ok {
			originalDef = objectdefs.ObjectDef{Kind: objectdefs.KindObject}
		}
		return g.loadStockObject(originalID, originalDef)
	}
	return g.loadCustomObject(def)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	dst.Stride = src.Stride
	return dst
}

// applyColorReplacements rewrites every pixel whose RGB (alpha ignored)
// matches a pair's Old colour to its New colour, preserving alpha.
func applyColorReplacements(img *image.RGBA, pairs []objectdefs.ColorPair) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+4 : i+4]
			for _, pair := range pairs {
				if px[0] == pair.Old[0] && px[1] == pair.Old[1] && px[2] == pair.Old[2] {
					px[0], px[1], px[2] = pair.New[0], pair.New[1], pair.New[2]
					break
				}
			}
		}
	}
}
