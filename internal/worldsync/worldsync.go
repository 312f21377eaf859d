package worldsync

import (
	"hash/fnv"

	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
	"github.com/spindlymist/ksrender/internal/screenmap"
	"github.com/spindlymist/ksrender/internal/seed"
	"github.com/spindlymist/ksrender/internal/unionfind"
)

// direction describes one of the two scanned cross-border directions.
// South and east follow by symmetry: the union produced scanning S->north
// neighbour N is identical to scanning N->south neighbour S, so visiting
// every screen's north and west neighbours covers every adjacent pair.
type direction struct {
	neighbor func(model.ScreenCoord) model.ScreenCoord
	// borderIndices are S's tile indices adjacent to the shared edge.
	borderIndices []int
	// mirrorOffset maps a border index in S to the matching index in N.
	mirrorOffset int
	partners     func(objectdefs.SyncParams) []model.Tile
}

func northDirection() direction {
	indices := make([]int, model.ScreenWidth)
	for i := range indices {
		indices[i] = i
	}
	return direction{
		neighbor:      model.ScreenCoord.North,
		borderIndices: indices,
		mirrorOffset:  model.OffsetNorthToSouth,
		partners:      func(sp objectdefs.SyncParams) []model.Tile { return sp.SyncNorth },
	}
}

func westDirection() direction {
	indices := make([]int, model.ScreenHeight)
	for i := range indices {
		indices[i] = i * model.ScreenWidth
	}
	return direction{
		neighbor:      model.ScreenCoord.West,
		borderIndices: indices,
		mirrorOffset:  model.OffsetWestToEast,
		partners:      func(sp objectdefs.SyncParams) []model.Tile { return sp.SyncWest },
	}
}

// Build constructs the WorldSync for every screen in sm, given the loaded
// object definitions and a deterministic root seed.
func Build(sm *screenmap.ScreenMap, defs *objectdefs.ObjectDefs, mapSeed seed.MapSeed, opts Options) *WorldSync {
	n := sm.Len()
	uf := unionfind.New(n)

	directions := []direction{northDirection(), westDirection()}

	for i := 0; i < n; i++ {
		s := sm.At(i)
		for _, dir := range directions {
			neighborPos := dir.neighbor(s.Position)
			j, ok := sm.Index(neighborPos)
			if !ok {
				continue
			}
			nbr := sm.At(j)
			if crossBorderLinked(s, nbr, dir, defs) {
				uf.Union(i, j)
			}
		}
	}

	counts := make([]phaseCounts, n)
	for i := 0; i < n; i++ {
		counts[i] = countLaserPhases(sm.At(i), defs)
	}

	groups := make([]GroupSync, n)
	for _, members := range uf.Groups() {
		positions := make([]model.ScreenCoord, len(members))
		var totalRed, totalGreen int
		for k, idx := range members {
			positions[k] = sm.At(idx).Position
			totalRed += counts[idx][0]
			totalGreen += counts[idx][1]
		}

		gHash := groupHash(positions)
		animT := mapSeed.Hasher(seed.StepGroupAnimationTime).WriteUint64(gHash).NextU32()
		phase := pickLaserPhase(mapSeed, gHash, totalRed, totalGreen, opts.MaximizeVisibleLasers)

		gs := GroupSync{AnimT: animT, LaserPhase: phase}
		for _, idx := range members {
			groups[idx] = gs
		}
	}

	return &WorldSync{Groups: groups}
}

// crossBorderLinked reports whether any of S's border tiles (in any object
// layer) declares dir's partner list, and the mirrored position in N (in
// any object layer) holds one of those partner tiles.
func crossBorderLinked(s, n model.ScreenData, dir direction, defs *objectdefs.ObjectDefs) bool {
	for _, i := range dir.borderIndices {
		for layer := 4; layer < model.LayerCount; layer++ {
			tile := s.Layers[layer][i]
			if tile.Index == 0 {
				continue
			}
			def, ok := defs.Get(objectdefs.ObjectId{Tile: tile})
			if !ok {
				continue
			}
			partners := dir.partners(def.SyncParams)
			if len(partners) == 0 {
				continue
			}
			j := i + dir.mirrorOffset
			if j < 0 || j >= model.TilesPerLayer {
				continue
			}
			for nLayer := 4; nLayer < model.LayerCount; nLayer++ {
				nTile := n.Layers[nLayer][j]
				if nTile.Index == 0 {
					continue
				}
				for _, partner := range partners {
					if nTile == partner {
						return true
					}
				}
			}
		}
	}
	return false
}

// groupHash hashes a group's member positions, in order, with a hasher
// seeded to a constant (not the map seed) so a group's identity is
// invariant under which member happens to be the union-find representative.
func groupHash(positions []model.ScreenCoord) uint64 {
	h := fnv.New64a()
	for _, p := range positions {
		var b [8]byte
		putInt32(b[0:4], p.X)
		putInt32(b[4:8], p.Y)
		h.Write(b[:])
	}
	return h.Sum64()
}

func putInt32(b []byte, v int32) {
	u := uint32(v)
	b[0] = byte(u)
	b[1] = byte(u >> 8)
	b[2] = byte(u >> 16)
	b[3] = byte(u >> 24)
}

// pickLaserPhase chooses a group's shared laser colour from its members'
// occurrence tallies, falling back to a deterministic coin flip when the
// tallies don't settle it.
func pickLaserPhase(mapSeed seed.MapSeed, groupHash uint64, totalRed, totalGreen int, maximize bool) objectdefs.LaserPhase {
	if totalGreen == 0 || (maximize && totalRed > totalGreen) {
		return objectdefs.PhaseRed
	}
	if totalRed == 0 || (maximize && totalGreen > totalRed) {
		return objectdefs.PhaseGreen
	}
	if mapSeed.Hasher(seed.StepLaserPhases).WriteUint64(groupHash).Bool() {
		return objectdefs.PhaseGreen
	}
	return objectdefs.PhaseRed
}
