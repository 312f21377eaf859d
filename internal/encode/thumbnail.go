package encode

import (
	"context"
	"fmt"
	"image"

	"github.com/oov/downscale"
	"golang.org/x/image/draw"
)

// ThumbnailFilter selects which resampling strategy Thumbnail uses.
type ThumbnailFilter string

const (
	// ThumbnailFilterBox uses oov/downscale's cache-tiled box/Lanczos RGBA
	// scaler. Fast, but cannot upscale.
	ThumbnailFilterBox ThumbnailFilter = "box"
	// ThumbnailFilterBilinear uses golang.org/x/image/draw's BiLinear
	// interpolator, which handles both directions.
	ThumbnailFilterBilinear ThumbnailFilter = "bilinear"
)

// ParseThumbnailFilter validates a -thumbnail-filter flag value.
func ParseThumbnailFilter(s string) (ThumbnailFilter, error) {
	switch ThumbnailFilter(s) {
	case ThumbnailFilterBox, ThumbnailFilterBilinear:
		return ThumbnailFilter(s), nil
	default:
		return "", fmt.Errorf("unknown thumbnail filter %q (want box or bilinear)", s)
	}
}

// Thumbnail produces a preview of img no larger than maxW x maxH, preserving
// aspect ratio. Images already within the bound are returned unchanged.
func Thumbnail(img image.Image, maxW, maxH int, filter ThumbnailFilter) (*image.RGBA, error) {
	src := imageToRGBA(img)
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	if sw <= maxW && sh <= maxH {
		return src, nil
	}

	dw, dh := fitWithin(sw, sh, maxW, maxH)
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	switch filter {
	case ThumbnailFilterBilinear:
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		return dst, nil
	default:
		if err := downscale.RGBA(context.Background(), dst, src); err != nil {
			return nil, err
		}
		return dst, nil
	}
}

// fitWithin scales (sw, sh) down to fit within (maxW, maxH), preserving
// aspect ratio, rounding down but never to zero.
func fitWithin(sw, sh, maxW, maxH int) (int, int) {
	if sw <= 0 || sh <= 0 {
		return maxW, maxH
	}
	wRatio := float64(maxW) / float64(sw)
	hRatio := float64(maxH) / float64(sh)
	ratio := wRatio
	if hRatio < ratio {
		ratio = hRatio
	}
	dw := int(float64(sw) * ratio)
	dh := int(float64(sh) * ratio)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	return dw, dh
}
