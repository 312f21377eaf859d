package drawing

import (
	"image"

	"github.com/spindlymist/ksrender/internal/objectdefs"
)

// mulDiv255 computes round(a*b/255) for premultiplied-alpha channel math.
func mulDiv255(a, b uint32) uint32 {
	t := a*b + 128
	return (t + (t >> 8)) >> 8
}

// addDiv255 computes round(a*b/255) and is used identically to mulDiv255;
// kept as a distinct name at call sites that are conceptually additive
// (alpha-jitter scaling) rather than multiplicative (channel blending).
func addDiv255(a, b uint32) uint32 {
	return mulDiv255(a, b)
}

// blendPixel composites src (already alpha-jittered, straight alpha) onto
// dst at (x, y) using mode. dst is premultiplied in place; img.RGBA stores
// straight alpha, so we premultiply on read and unpremultiply on write.
func blendPixel(dst *image.RGBA, x, y int, sr, sg, sb, sa uint32, mode objectdefs.BlendMode) {
	if !(image.Point{X: x, Y: y}.In(dst.Bounds())) {
		return
	}
	if sa == 0 {
		return
	}

	i := dst.PixOffset(x, y)
	px := dst.Pix[i : i+4 : i+4]
	dr, dg, db, da := uint32(px[0]), uint32(px[1]), uint32(px[2]), uint32(px[3])

	// premultiply both operands
	spr, spg, spb := mulDiv255(sr, sa), mulDiv255(sg, sa), mulDiv255(sb, sa)
	dpr, dpg, dpb := mulDiv255(dr, da), mulDiv255(dg, da), mulDiv255(db, da)

	var outR, outG, outB, outA uint32
	switch mode {
	case objectdefs.BlendAdd:
		outR = clamp255(spr + dpr)
		outG = clamp255(spg + dpg)
		outB = clamp255(spb + dpb)
		outA = clamp255(sa + da)
	case objectdefs.BlendSub:
		outR = clampSub(dpr, spr)
		outG = clampSub(dpg, spg)
		outB = clampSub(dpb, spb)
		outA = da
	default: // BlendOver
		inv := 255 - sa
		outR = spr + mulDiv255(dpr, inv)
		outG = spg + mulDiv255(dpg, inv)
		outB = spb + mulDiv255(dpb, inv)
		outA = sa + mulDiv255(da, inv)
	}

	if outA == 0 {
		px[0], px[1], px[2], px[3] = 0, 0, 0, 0
		return
	}
	// unpremultiply back to straight alpha for storage
	px[0] = byte(clamp255(outR * 255 / outA))
	px[1] = byte(clamp255(outG * 255 / outA))
	px[2] = byte(clamp255(outB * 255 / outA))
	px[3] = byte(outA)
}

func clamp255(v uint32) uint32 {
	if v > 255 {
		return 255
	}
	return v
}

func clampSub(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}

// blitObject draws one object frame onto dst at (dx, dy), scaling the
// source alpha by alpha/255 and compositing with mode.
func blitObject(dst *image.RGBA, dx, dy int, src *image.RGBA, srcRect image.Rectangle, alpha uint8, mode objectdefs.BlendMode) {
	srcRect = srcRect.Intersect(src.Bounds())
	for y := srcRect.Min.Y; y < srcRect.Max.Y; y++ {
		for x := srcRect.Min.X; x < srcRect.Max.X; x++ {
			i := src.PixOffset(x, y)
			px := src.Pix[i : i+4 : i+4]
			if px[3] == 0 {
				continue
			}
			a := addDiv255(uint32(px[3]), uint32(alpha))
			if a == 0 {
				continue
			}
			ox := dx + (x - srcRect.Min.X)
			oy := dy + (y - srcRect.Min.Y)
			blendPixel(dst, ox, oy, uint32(px[0]), uint32(px[1]), uint32(px[2]), a, mode)
		}
	}
}

// flipHorizontal returns a new image holding a mirror of src's rect,
// column order reversed, for objects flipped in place rather than drawn
// from a dedicated flip-variant spritesheet.
func flipHorizontal(src *image.RGBA, rect image.Rectangle) *image.RGBA {
	rect = rect.Intersect(src.Bounds())
	w, h := rect.Dx(), rect.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(rect.Min.X+x, rect.Min.Y+y)
			px := src.Pix[i : i+4 : i+4]
			j := out.PixOffset(w-1-x, y)
			copy(out.Pix[j:j+4], px)
		}
	}
	return out
}

// blitOver draws src fully opaque-aware onto dst at (dx, dy), using Over
// semantics; used for the unconditional tile layers, which carry no
// per-draw alpha jitter or blend mode selection.
func blitOver(dst *image.RGBA, dx, dy int, src *image.RGBA, srcRect image.Rectangle) {
	for y := srcRect.Min.Y; y < srcRect.Max.Y; y++ {
		for x := srcRect.Min.X; x < srcRect.Max.X; x++ {
			i := src.PixOffset(x, y)
			px := src.Pix[i : i+4 : i+4]
			if px[3] == 0 {
				continue
			}
			ox := dx + (x - srcRect.Min.X)
			oy := dy + (y - srcRect.Min.Y)
			blendPixel(dst, ox, oy, uint32(px[0]), uint32(px[1]), uint32(px[2]), uint32(px[3]), objectdefs.BlendOver)
		}
	}
}
