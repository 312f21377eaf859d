package worldsync

import (
	"math"
	"sort"

	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
	"github.com/spindlymist/ksrender/internal/seed"
)

// BuildScreenSync derives the transient per-draw state for one screen:
// its own animation time plus a limiter per object kind that occurs on it
// with a non-None Limit.
func BuildScreenSync(screen model.ScreenData, group GroupSync, mapSeed seed.MapSeed, defs *objectdefs.ObjectDefs) ScreenSync {
	animT := mapSeed.Hasher(seed.StepScreenAnimationTime).WriteCoord(screen.Position).NextU32()

	counts := make(map[objectdefs.ObjectId]int)
	for layer := 4; layer < model.LayerCount; layer++ {
		for _, tile := range screen.Layers[layer] {
			if tile.Index == 0 {
				continue
			}
			actual := objectdefs.ObjectId{Tile: tile}
			def, ok := defs.Get(actual)
			if !ok || def.Limit.Kind == objectdefs.LimitNone {
				continue
			}
			key := actual
			if def.Kind == objectdefs.KindOverrideObject {
				key = objectdefs.ObjectId{Tile: def.OriginalTile}
			}
			counts[key]++
		}
	}

	limiters := make(map[objectdefs.ObjectId]*Limiter, len(counts))
	for id, count := range counts {
		def, ok := defs.Get(id)
		if !ok {
			continue
		}
		rngHasher := mapSeed.Hasher(seed.StepLimiters).WriteTile(id.Tile).WriteUint8(uint8(id.Variant))
		limiters[id] = buildLimiter(rngHasher, count, def.Limit)
	}

	return ScreenSync{
		Group:    group,
		AnimT:    animT,
		Limiters: limiters,
	}
}

func buildLimiter(h *seed.SeedHasher, count int, limit objectdefs.Limit) *Limiter {
	switch limit.Kind {
	case objectdefs.LimitFirst:
		n := limit.N
		if n > count {
			n = count
		}
		if n < 0 {
			n = 0
		}
		chosen := make([]int, n)
		for i := 0; i < n; i++ {
			chosen[i] = n - 1 - i // descending: n-1, n-2, ..., 0
		}
		return &Limiter{Chosen: chosen}
	case objectdefs.LimitRandom:
		n := limit.N
		return &Limiter{Chosen: chooseN(h, count, n)}
	case objectdefs.LimitLogNPlusOne:
		n := logNPlusOne(count)
		return &Limiter{Chosen: chooseN(h, count, n)}
	default:
		return &Limiter{}
	}
}

func logNPlusOne(count int) int {
	if count <= 0 {
		return 0
	}
	n := int(math.Round(1 + math.Log2(float64(count))))
	if n < 0 {
		n = 0
	}
	if n > count {
		n = count
	}
	return n
}

// chooseN partial-shuffles [0, count) and keeps the first n indices,
// returned sorted descending so Limiter.Increment pops the smallest first.
func chooseN(h *seed.SeedHasher, count, n int) []int {
	if n > count {
		n = count
	}
	if n <= 0 || count <= 0 {
		return nil
	}
	chosen := h.ShuffleIndices(count, n)
	sort.Sort(sort.Reverse(sort.IntSlice(chosen)))
	return chosen
}
