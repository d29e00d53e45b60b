package bitmap

import (
	"image/color"

	clr "github.com/lucasb-eyer/go-colorful"
)

// Grayscale is used when a bitmap carries no palette of its own.
var Grayscale = func() color.Palette {
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.Gray{Y: uint8(i)}
	}
	return pal
}()

// RGB565 is a 16-bit 5:6:5 packed color as stored in scene palettes.
type RGB565 uint16

func (c RGB565) RGBA() (r, g, b, a uint32) {
	rb := uint32(c>>11) & 0x1F
	gb := uint32(c>>5) & 0x3F
	bb := uint32(c) & 0x1F

	r8 := rb<<3 | rb>>2
	g8 := gb<<2 | gb>>4
	b8 := bb<<3 | bb>>2

	r = r8<<8 | r8
	g = g8<<8 | g8
	b = b8<<8 | b8
	a = 0xFFFF
	return
}

// NewPalette565 builds a palette from packed 5:6:5 words. At most 256
// entries are used.
func NewPalette565(words []uint16) color.Palette {
	if len(words) > 256 {
		words = words[:256]
	}
	pal := make(color.Palette, len(words))
	for i, w := range words {
		pal[i] = RGB565(w)
	}
	return pal
}

func rgbMix(c1, c2 color.Color, t float64) color.Color {
	clr1, _ := clr.MakeColor(c1)
	clr2, _ := clr.MakeColor(c2)
	if (clr1.R == clr1.G && clr1.G == clr1.B) || (clr2.R == clr2.G && clr2.G == clr2.B) {
		return clr1.BlendRgb(clr2, t).Clamped()
	}
	return clr1.BlendLab(clr2, t).Clamped()
}

// Blend mixes every palette entry toward bg for a picture drawn with the
// given alpha. An alpha of 255 returns pal unchanged.
func Blend(pal color.Palette, bg color.Color, alpha uint8) color.Palette {
	if alpha == 0xFF {
		return pal
	}
	t := 1 - float64(alpha)/255
	out := make(color.Palette, len(pal))
	for i, c := range pal {
		out[i] = rgbMix(c, bg, t)
	}
	return out
}
