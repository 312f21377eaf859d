package partition

import "github.com/spindlymist/ksrender/internal/model"

// GridPartitioner decomposes a screen set into a fixed grid of rectangular
// cells, each within MaxSize, by binning positions into rows/cols computed
// from the overall bounds.
type GridPartitioner struct {
	MaxSize MaxSize
	// Rows and Cols override the computed row/column count when non-nil.
	Rows, Cols *int64
	// Force causes subdivision even when the whole set already fits.
	Force bool
}

// Partition implements Strategy.
func (g GridPartitioner) Partition(positions []model.ScreenCoord) []Partition {
	if len(positions) == 0 {
		return nil
	}

	bounds := FromCoords(positions)
	width, height := bounds.Size()

	if !g.Force && fits(bounds, g.MaxSize) {
		return []Partition{New(append([]model.ScreenCoord(nil), positions...))}
	}

	cols := g.Cols
	rows := g.Rows
	var nCols, nRows int64
	if cols != nil {
		nCols = *cols
	} else {
		nCols = ceilDiv(width, g.MaxSize.Width)
	}
	if rows != nil {
		nRows = *rows
	} else {
		nRows = ceilDiv(height, g.MaxSize.Height)
	}
	if nCols < 1 {
		nCols = 1
	}
	if nRows < 1 {
		nRows = 1
	}

	cellW := ceilDiv(width, nCols)
	cellH := ceilDiv(height, nRows)
	if cellW < 1 {
		cellW = 1
	}
	if cellH < 1 {
		cellH = 1
	}

	cells := make(map[int64][]model.ScreenCoord)
	for _, p := range positions {
		cx := (int64(p.X) - bounds.X0) / cellW
		if cx > nCols-1 {
			cx = nCols - 1
		}
		cy := (int64(p.Y) - bounds.Y0) / cellH
		if cy > nRows-1 {
			cy = nRows - 1
		}
		key := cy*nCols + cx
		cells[key] = append(cells[key], p)
	}

	out := make([]Partition, 0, len(cells))
	for _, cellPositions := range cells {
		out = append(out, New(cellPositions))
	}
	return out
}
