package bitmap

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRLE(t *testing.T) {
	data := []byte{
		3, 7, // run of three 7s
		0, 0, // end of line
		0, 3, 1, 2, 3, 0, // odd literal, padded
		0, 2, 1, 0, // skip one pixel to the right
		0, 1, // end of bitmap
	}

	bmp, err := Decode(MethodRLE, data, 4, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint8{7, 7, 7, 0, 1, 2, 3, 0}, bmp.Pix)
}

func TestDecodeRLEOverflow(t *testing.T) {
	_, err := Decode(MethodRLE, []byte{5, 1, 0, 1}, 4, 1, nil)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestDecodeRLETruncated(t *testing.T) {
	_, err := Decode(MethodRLE, []byte{2, 1}, 4, 1, nil)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeRaw(t *testing.T) {
	bmp, err := Decode(MethodRaw, []byte{1, 2, 3, 4}, 2, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), bmp.At(0, 1))
	assert.Equal(t, bmp.KeyColor, bmp.At(5, 5))

	_, err = Decode(MethodRaw, []byte{1, 2}, 2, 2, nil)
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = Decode(Method(9), nil, 1, 1, nil)
	assert.Error(t, err)
}

func TestMirror(t *testing.T) {
	bmp := &Bitmap{Width: 3, Height: 2, Pix: []uint8{1, 2, 3, 4, 5, 6}}
	m := bmp.Mirror()
	assert.Equal(t, []uint8{3, 2, 1, 6, 5, 4}, m.Pix)
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6}, bmp.Pix, "source is untouched")

	assert.True(t, m.IsOpaque(0, 0))
	assert.False(t, (&Bitmap{Width: 1, Height: 1, Pix: []uint8{0}}).IsOpaque(0, 0))
}

func TestRGB565(t *testing.T) {
	r, g, b, a := RGB565(0xFFFF).RGBA()
	assert.Equal(t, []uint32{0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF}, []uint32{r, g, b, a})

	r, g, b, _ = RGB565(0xF800).RGBA()
	assert.Equal(t, []uint32{0xFFFF, 0, 0}, []uint32{r, g, b})

	assert.Len(t, NewPalette565(make([]uint16, 300)), 256)
}

func TestBlend(t *testing.T) {
	pal := color.Palette{color.White}
	assert.Equal(t, pal, Blend(pal, color.Black, 0xFF))

	half := Blend(pal, color.Black, 0x80)
	r, _, _, _ := half[0].RGBA()
	assert.Less(t, r, uint32(0xFFFF))
	assert.Greater(t, r, uint32(0))
}

func TestGIF(t *testing.T) {
	a := &Bitmap{Width: 2, Height: 2, Pix: []uint8{1, 1, 1, 1}}
	b := &Bitmap{Width: 1, Height: 1, Pix: []uint8{2}}

	g := GIF([]Frame{{Bitmap: a}, {Bitmap: b, X: 3, Y: -1, Delay: 5}})
	require.Len(t, g.Image, 2)
	assert.Equal(t, 4, g.Image[0].Rect.Dx())
	assert.Equal(t, 3, g.Image[0].Rect.Dy())
	assert.Equal(t, []int{8, 5}, g.Delay)
	assert.Equal(t, uint8(2), g.Image[1].ColorIndexAt(3, 0))
}
