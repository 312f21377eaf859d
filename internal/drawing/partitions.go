package drawing

import (
	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/partition"
	"github.com/spindlymist/ksrender/internal/progress"
	"github.com/spindlymist/ksrender/internal/report"
)

// DrawPartitions renders one canvas per partition, reporting screen-level
// failures to stats rather than aborting the run.
func DrawPartitions(ctx *Context, parts []partition.Partition, stats *report.Stats) []Result {
	var bar *progress.Bar
	if total := totalScreens(parts); total > 0 {
		bar = progress.New("rendering", total)
		defer bar.Finish()
	}

	results := make([]Result, 0, len(parts))
	for _, part := range parts {
		w, h := part.PixelSize()
		canvas := getCanvas(int(w), int(h))

		for _, pos := range part.Positions {
			idx, ok := ctx.ScreenMap.Index(pos)
			if !ok {
				stats.Record(pos.String(), errMissingScreen(pos))
				continue
			}
			screen := ctx.ScreenMap.At(idx)

			originX := int((int64(pos.X) - part.Bounds.X0) * model.ScreenPixelWidth)
			originY := int((int64(pos.Y) - part.Bounds.Y0) * model.ScreenPixelHeight)

			drawScreen(ctx, canvas, originX, originY, screen, idx, stats)
			stats.IncScreensDrawn()
			if bar != nil {
				bar.Increment()
			}
		}

		results = append(results, Result{Bounds: part.Bounds, Image: canvas})
	}
	return results
}

func totalScreens(parts []partition.Partition) int64 {
	var n int64
	for _, p := range parts {
		n += int64(len(p.Positions))
	}
	return n
}

func errMissingScreen(pos model.ScreenCoord) error {
	return &missingScreenError{pos: pos}
}

type missingScreenError struct{ pos model.ScreenCoord }

func (e *missingScreenError) Error() string {
	return "screen " + e.pos.String() + " referenced by a partition is not in the map"
}
