// Package assets computes the minimal set of tilesets, gradients, and
// object variants a map actually references, so the graphics cache only
// loads images a given render will use. Grounded in the original
// implementation's list_assets pre-pass (see SPEC_FULL.md Supplemented
// Features).
package assets

import (
	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
)

// Used is the result of scanning a screen set for referenced assets.
type Used struct {
	Tilesets  []model.AssetId
	Gradients []model.AssetId
	Objects   []objectdefs.ObjectId
}

// List scans every screen's layers and returns the assets it references.
func List(screens []model.ScreenData, defs *objectdefs.ObjectDefs) Used {
	var tilesets, gradients [256]bool
	objects := make(map[objectdefs.ObjectId]struct{})

	for _, screen := range screens {
		usesA, usesB := false, false

		for layer := 0; layer < 4; layer++ {
			for _, tile := range screen.Layers[layer] {
				if tile.Bank == 0 && tile.Index > 0 {
					usesA = true
				}
				if tile.Bank != 0 && tile.Index > 0 {
					usesB = true
				}
			}
		}

		for layer := 4; layer < model.LayerCount; layer++ {
			for _, tile := range screen.Layers[layer] {
				if tile.Index == 0 {
					continue
				}
				id := objectdefs.ObjectId{Tile: tile}
				objects[id] = struct{}{}
				for _, v := range defs.VariantsOf(tile) {
					objects[id.WithVariant(v)] = struct{}{}
				}
			}
		}

		if usesA {
			tilesets[screen.Assets.TilesetA] = true
		}
		if usesB {
			tilesets[screen.Assets.TilesetB] = true
		}
		gradients[screen.Assets.Gradient] = true
	}

	var out Used
	for i, used := range tilesets {
		if used {
			out.Tilesets = append(out.Tilesets, model.AssetId(i))
		}
	}
	for i, used := range gradients {
		if used {
			out.Gradients = append(out.Gradients, model.AssetId(i))
		}
	}
	for id := range objects {
		out.Objects = append(out.Objects, id)
	}

	return out
}
