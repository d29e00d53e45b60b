// Package bitmap decodes the paletted pixel data carried by pictures and
// animation phases.
package bitmap

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	ErrOverflow  = errors.New("bitmap: pixel data overflows bounds")
	ErrTruncated = errors.New("bitmap: truncated pixel data")
)

// Bitmap is a decoded, paletted frame. Pixels equal to KeyColor are
// transparent.
type Bitmap struct {
	Width    int
	Height   int
	KeyColor uint8
	Pix      []uint8
	Palette  color.Palette
}

// Decode unpacks data with the decoder registered for method.
func Decode(method Method, data []byte, width, height int, pal color.Palette) (*Bitmap, error) {
	decoder, ok := Decoders[method]
	if !ok {
		return nil, fmt.Errorf("unhandled bitmap type: %v", method)
	}

	bmp := &Bitmap{
		Width:   width,
		Height:  height,
		Pix:     make([]uint8, width*height),
		Palette: pal,
	}
	if err := decoder(bytes.NewReader(data), bmp.Pix, width, height); err != nil {
		return nil, fmt.Errorf("decode %v %dx%d: %w", method, width, height, err)
	}
	return bmp, nil
}

func (b *Bitmap) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return b.KeyColor
	}
	return b.Pix[y*b.Width+x]
}

// IsOpaque reports whether the pixel at x, y is drawn.
func (b *Bitmap) IsOpaque(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Width+x] != b.KeyColor
}

// Mirror returns a horizontally flipped copy.
func (b *Bitmap) Mirror() *Bitmap {
	out := &Bitmap{
		Width:    b.Width,
		Height:   b.Height,
		KeyColor: b.KeyColor,
		Pix:      make([]uint8, len(b.Pix)),
		Palette:  b.Palette,
	}
	copy(out.Pix, b.Pix)

	stride := b.Width
	hStride := stride >> 1
	for y := 0; y < b.Height; y++ {
		offs := y * stride
		for x := 0; x < hStride; x++ {
			l := offs + x
			r := offs + stride - x - 1
			out.Pix[l], out.Pix[r] = out.Pix[r], out.Pix[l]
		}
	}
	return out
}

func (b *Bitmap) Paletted() *image.Paletted {
	pal := b.Palette
	if pal == nil {
		pal = Grayscale
	}
	return &image.Paletted{
		Pix:     b.Pix,
		Stride:  b.Width,
		Rect:    image.Rect(0, 0, b.Width, b.Height),
		Palette: pal,
	}
}
