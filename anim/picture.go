package anim

import (
	"errors"
	"image"
	"image/color"

	"github.com/32bitkid/fullpipe/bitmap"
)

var ErrNoPixelData = errors.New("anim: picture has no pixel data")

// Picture is the pixel payload of a phase. Pixels are decoded on first use
// and can be dropped again with FreePixelData.
type Picture struct {
	Width, Height int
	Method        bitmap.Method
	Data          []byte
	Palette       color.Palette
	// Alpha below 0xFF fades the palette toward black when decoded.
	Alpha uint8

	mirrored bool
	bmp      *bitmap.Bitmap
}

func NewPicture(width, height int, method bitmap.Method, data []byte, pal color.Palette) Picture {
	return Picture{
		Width:   width,
		Height:  height,
		Method:  method,
		Data:    data,
		Palette: pal,
		Alpha:   0xFF,
	}
}

func (p *Picture) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

func (p *Picture) Loaded() bool { return p.bmp != nil }

func (p *Picture) LoadPixelData() (*bitmap.Bitmap, error) {
	if p.bmp != nil {
		return p.bmp, nil
	}
	if p.Data == nil {
		return nil, ErrNoPixelData
	}

	bmp, err := bitmap.Decode(p.Method, p.Data, p.Width, p.Height, p.Palette)
	if err != nil {
		return nil, err
	}
	if p.mirrored {
		bmp = bmp.Mirror()
	}
	if p.Alpha < 0xFF && bmp.Palette != nil {
		bmp.Palette = bitmap.Blend(bmp.Palette, color.Black, p.Alpha)
	}
	p.bmp = bmp
	return bmp, nil
}

func (p *Picture) FreePixelData() { p.bmp = nil }

// mirror returns an unloaded, horizontally flipped view of the same data.
func (p Picture) mirror() Picture {
	p.mirrored = !p.mirrored
	p.bmp = nil
	return p
}

// IsPixelHit reports whether the local point x, y lands on a drawn pixel.
// Pictures without pixel data are hit anywhere inside their bounds.
func (p *Picture) IsPixelHit(x, y int) bool {
	if !image.Pt(x, y).In(p.Bounds()) {
		return false
	}
	bmp, err := p.LoadPixelData()
	if err != nil {
		return true
	}
	return bmp.IsOpaque(x, y)
}
