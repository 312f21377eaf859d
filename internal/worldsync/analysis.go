package worldsync

import (
	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
)

// phaseCounts is the per-screen [red, green] occurrence tally used to
// decide a group's shared laser colour.
type phaseCounts [2]int

// countLaserPhases scans a screen's object layers for tiles whose first
// matching ObjectDef (base id, then each registered variant in order)
// declares a laser phase, and tallies occurrences by phase.
func countLaserPhases(screen model.ScreenData, defs *objectdefs.ObjectDefs) phaseCounts {
	var counts phaseCounts
	for layer := 4; layer < model.LayerCount; layer++ {
		for _, tile := range screen.Layers[layer] {
			if tile.Index == 0 {
				continue
			}
			phase, ok := firstLaserPhase(tile, defs)
			if !ok {
				continue
			}
			counts[phase]++
		}
	}
	return counts
}

func firstLaserPhase(tile model.Tile, defs *objectdefs.ObjectDefs) (objectdefs.LaserPhase, bool) {
	candidates := append([]objectdefs.ObjectVariant{objectdefs.VariantNone}, defs.VariantsOf(tile)...)
	for _, v := range candidates {
		def, ok := defs.Get(objectdefs.ObjectId{Tile: tile, Variant: v})
		if !ok || def.SyncParams.LaserPhase == nil {
			continue
		}
		return *def.SyncParams.LaserPhase, true
	}
	return 0, false
}
