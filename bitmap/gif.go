package bitmap

import (
	"image"
	"image/draw"
	"image/gif"
)

// Frame places a bitmap relative to the animation origin.
type Frame struct {
	*Bitmap
	X, Y int
	// Delay in 100ths of a second.
	Delay int
}

// GIF renders frames into an animated GIF. The canvas covers the union of
// every frame's bounds.
func GIF(frames []Frame) *gif.GIF {
	if len(frames) == 0 {
		return &gif.GIF{}
	}

	rect := image.Rect(frames[0].X, frames[0].Y, frames[0].X+frames[0].Width, frames[0].Y+frames[0].Height)
	for _, f := range frames[1:] {
		rect = rect.Union(image.Rect(f.X, f.Y, f.X+f.Width, f.Y+f.Height))
	}
	offset := rect.Min
	rect = rect.Sub(offset)

	var images []*image.Paletted
	var delays []int
	var dispose []byte

	for _, f := range frames {
		source := f.Paletted()

		mask := image.NewAlpha(source.Rect)
		for i := range mask.Pix {
			if f.Pix[i] != f.KeyColor {
				mask.Pix[i] = 0xff
			}
		}

		img := image.NewPaletted(rect, source.Palette)
		for i := range img.Pix {
			img.Pix[i] = f.KeyColor
		}

		dst := image.Rect(f.X-offset.X, f.Y-offset.Y, f.X-offset.X+f.Width, f.Y-offset.Y+f.Height)
		draw.DrawMask(img, dst, source, image.Point{}, mask, image.Point{}, draw.Src)

		delay := f.Delay
		if delay <= 0 {
			delay = 8
		}
		images = append(images, img)
		delays = append(delays, delay)
		dispose = append(dispose, gif.DisposalPrevious)
	}

	return &gif.GIF{
		Image:    images,
		Delay:    delays,
		Disposal: dispose,
	}
}
