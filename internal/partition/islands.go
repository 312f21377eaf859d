package partition

import (
	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/unionfind"
)

// GapRange bounds the Manhattan-distance adjacency radius the Islands
// strategy uses to cluster screens, and the attenuation floor it recurses
// toward.
type GapRange struct {
	Min, Max int64
}

// IslandsPartitioner clusters screens by proximity under a shrinking
// Manhattan-distance gap, recursing until every cluster fits within
// MaxSize or the gap floor is reached, at which point it falls back to a
// forced GridPartitioner subdivision.
type IslandsPartitioner struct {
	MaxSize MaxSize
	Gap     GapRange
	Force   bool
}

// Partition implements Strategy.
func (p IslandsPartitioner) Partition(positions []model.ScreenCoord) []Partition {
	if len(positions) == 0 {
		return nil
	}

	initial := New(append([]model.ScreenCoord(nil), positions...))
	if !p.Force && fits(initial.Bounds, p.MaxSize) {
		return []Partition{initial}
	}

	parts := p.recurse(initial, p.Gap.Max)
	return mergeRedundant(parts)
}

func (p IslandsPartitioner) recurse(part Partition, maxGap int64) []Partition {
	if len(part.Positions) <= 1 {
		return []Partition{part}
	}

	clusters := clusterByGap(part.Positions, maxGap)

	var out []Partition
	for _, cluster := range clusters {
		cp := New(cluster)
		switch {
		case fits(cp.Bounds, p.MaxSize):
			out = append(out, cp)
		case maxGap > p.Gap.Min:
			out = append(out, p.recurse(cp, attenuate(maxGap, p.Gap.Min))...)
		default:
			grid := GridPartitioner{MaxSize: p.MaxSize, Force: true}
			out = append(out, grid.Partition(cp.Positions)...)
		}
	}
	return out
}

// attenuate shrinks maxGap toward min: halve the remaining distance above
// min when the gap between them exceeds 5, else step down by one.
func attenuate(maxGap, minGap int64) int64 {
	diff := maxGap - minGap
	if diff > 5 {
		return minGap + diff/2
	}
	if maxGap-1 < minGap {
		return minGap
	}
	return maxGap - 1
}

// clusterByGap groups positions into connected components under the
// Manhattan-distance-<=gap adjacency relation.
func clusterByGap(positions []model.ScreenCoord, gap int64) [][]model.ScreenCoord {
	n := len(positions)
	uf := unionfind.New(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if manhattan(positions[i], positions[j]) <= gap {
				uf.Union(i, j)
			}
		}
	}

	groups := uf.Groups()
	out := make([][]model.ScreenCoord, 0, len(groups))
	for _, members := range groups {
		cluster := make([]model.ScreenCoord, len(members))
		for k, idx := range members {
			cluster[k] = positions[idx]
		}
		out = append(out, cluster)
	}
	return out
}

func manhattan(a, b model.ScreenCoord) int64 {
	dx := int64(a.X) - int64(b.X)
	if dx < 0 {
		dx = -dx
	}
	dy := int64(a.Y) - int64(b.Y)
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// mergeRedundant merges any partition whose bounds is contained in another,
// restarting the scan whenever a merge occurs, until no containment remains.
func mergeRedundant(parts []Partition) []Partition {
	for {
		mergedAny := false
		for i := 0; i < len(parts) && !mergedAny; i++ {
			for j := 0; j < len(parts) && !mergedAny; j++ {
				if i == j {
					continue
				}
				if parts[j].Bounds.Contains(parts[i].Bounds) && i != j {
					parts[j].Merge(parts[i])
					parts = append(parts[:i], parts[i+1:]...)
					mergedAny = true
				}
			}
		}
		if !mergedAny {
			return parts
		}
	}
}
