package partition

import "github.com/spindlymist/ksrender/internal/model"

// Partition is a list of screen coordinates plus their minimum enclosing
// Bounds. Positions must be nonempty; Bounds is cached at construction and
// recomputed on Merge.
type Partition struct {
	Positions []model.ScreenCoord
	Bounds    Bounds
}

// New builds a Partition from a slice of positions, computing its bounds.
func New(positions []model.ScreenCoord) Partition {
	return Partition{
		Positions: positions,
		Bounds:    FromCoords(positions),
	}
}

// Merge appends other's positions and recomputes bounds as the union.
func (p *Partition) Merge(other Partition) {
	p.Positions = append(p.Positions, other.Positions...)
	p.Bounds = Union(p.Bounds, other.Bounds)
}

// PixelSize returns the partition's canvas dimensions in pixels.
func (p Partition) PixelSize() (width, height int64) {
	w, h := p.Bounds.Size()
	return w * model.ScreenPixelWidth, h * model.ScreenPixelHeight
}

// Strategy yields a list of Partitions from a set of screen positions.
type Strategy interface {
	Partition(positions []model.ScreenCoord) []Partition
}

// MaxSize is a pixel-dimension budget expressed in screen-count units
// (screens wide, screens tall), matching the Rust `max_size: (u64, u64)`
// field shared by both strategies.
type MaxSize struct {
	Width, Height int64
}

func fits(b Bounds, max MaxSize) bool {
	w, h := b.Size()
	return w <= max.Width && h <= max.Height
}

func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
