package drawing

import (
	"image"
	"sync"
)

// canvasPoolKey identifies a pool by canvas dimensions.
type canvasPoolKey struct{ w, h int }

// canvasPools maps (width, height) -> *sync.Pool of *image.RGBA. A render
// with a grid partitioner typically produces many same-sized partitions, so
// reusing their backing buffers avoids a full GC cycle's worth of large
// allocations between partitions.
var canvasPools sync.Map

// getCanvas returns a zeroed *image.RGBA of the given size, from the pool
// if one is available.
func getCanvas(w, h int) *image.RGBA {
	key := canvasPoolKey{w, h}
	if p, ok := canvasPools.Load(key); ok {
		if v := p.(*sync.Pool).Get(); v != nil {
			img := v.(*image.RGBA)
			clear(img.Pix)
			return img
		}
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// ReleaseCanvas returns a partition's canvas to the pool once the caller no
// longer needs it (typically right after encoding). Safe to call with nil.
func ReleaseCanvas(img *image.RGBA) {
	if img == nil {
		return
	}
	key := canvasPoolKey{img.Rect.Dx(), img.Rect.Dy()}
	p, _ := canvasPools.LoadOrStore(key, &sync.Pool{})
	p.(*sync.Pool).Put(img)
}
