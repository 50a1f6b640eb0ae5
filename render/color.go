package render

import (
	"image/color"
	"math/bits"

	"github.com/chewxy/math32"
)

// whiteOpaque is full-white, full-alpha. Its byte pattern is the same
// from either end, so raw buffer words can be compared against it
// without an endian swap.
const whiteOpaque = 0xFFFFFFFF

// switchEndian reverses the byte order of a packed color so that a
// logical 0xRRGGBBAA value lands in memory as R,G,B,A when stored
// little-endian. It is its own inverse.
func switchEndian(value uint32) uint32 {
	return bits.ReverseBytes32(value)
}

// premultiplyAlpha scales the R, G and B channels of a packed
// 0xRRGGBBAA value by its alpha. Identity when alpha is 0xFF.
// Truncates; see unmultiplyAlpha for the accepted round-trip error.
func premultiplyAlpha(rgba uint32) uint32 {
	alpha := rgba & 0xff
	if alpha == 0xff {
		return rgba
	}
	r := (rgba >> 24 & 0xff) * alpha / 255
	g := (rgba >> 16 & 0xff) * alpha / 255
	b := (rgba >> 8 & 0xff) * alpha / 255
	return r<<24 | g<<16 | b<<8 | alpha
}

// unmultiplyAlpha undoes premultiplyAlpha. Identity when alpha is 0xFF
// or 0x00 (nothing to recover at zero). For other alphas the round trip
// premultiply(unmultiply(c)) stays within one step per channel; the
// precision loss is inherent to 8-bit premultiplied storage.
func unmultiplyAlpha(rgba uint32) uint32 {
	alpha := rgba & 0xff
	if alpha == 0xff || alpha == 0x00 {
		return rgba
	}
	r := unmultiplyChannel(rgba>>24&0xff, alpha)
	g := unmultiplyChannel(rgba>>16&0xff, alpha)
	b := unmultiplyChannel(rgba>>8&0xff, alpha)
	return r<<24 | g<<16 | b<<8 | alpha
}

// unmultiplyChannel rescales one channel by 255/alpha, clamping instead
// of wrapping when fed a channel larger than its alpha.
func unmultiplyChannel(c, alpha uint32) uint32 {
	v := c * 255 / alpha
	if v > 255 {
		return 255
	}
	return v
}

// alphaToByte quantizes an alpha in [0, 1] to a byte, rounding to the
// nearest step. Out-of-range and NaN input clamps.
func alphaToByte(alpha float32) uint32 {
	v := math32.Round(alpha * 255)
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint32(v)
}

// PackColor converts any color.Color into the packed 0xRRGGBB form the
// color setters accept. Alpha is dropped; pass it to SetAlpha instead.
func PackColor(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
}

// SplitColor combines a packed 0xRRGGBB color and an alpha in [0, 1]
// into a straight-alpha color.NRGBA.
func SplitColor(rgb uint32, alpha float32) color.NRGBA {
	return color.NRGBA{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
		A: uint8(alphaToByte(alpha)),
	}
}
