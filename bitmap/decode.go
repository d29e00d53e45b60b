package bitmap

import (
	"io"

	"github.com/32bitkid/bitreader"
)

// Method identifies how a picture's pixels are packed.
type Method uint32

const (
	MethodRaw Method = 0
	MethodRLE Method = 1
)

func (m Method) String() string {
	switch m {
	case MethodRaw:
		return "Method(Raw)"
	case MethodRLE:
		return "Method(RLE)"
	}
	return "Method(UNKNOWN)"
}

type Decoder = func(src io.Reader, dst []uint8, width, height int) error

type DecoderLUT map[Method]Decoder

var Decoders = DecoderLUT{
	MethodRaw: DecodeRaw,
	MethodRLE: DecodeRLE,
}

func DecodeRaw(src io.Reader, dst []uint8, width, height int) error {
	if _, err := io.ReadFull(src, dst[:width*height]); err != nil {
		return ErrTruncated
	}
	return nil
}

// RLE escape codes, following a zero count byte.
const (
	rleEndOfLine   = 0
	rleEndOfBitmap = 1
	rleDelta       = 2
)

// DecodeRLE unpacks 8-bit run-length data. Each code is a count byte and a
// value byte: a non-zero count repeats value, a zero count introduces an
// escape (end of line, end of bitmap, delta, or a literal run of value
// bytes padded to an even length).
func DecodeRLE(src io.Reader, dst []uint8, width, height int) error {
	br := bitreader.NewReader(src)

	x, y := 0, 0
	put := func(c uint8) error {
		if x >= width || y >= height {
			return ErrOverflow
		}
		dst[y*width+x] = c
		x++
		return nil
	}

	for {
		count, err := br.Read8(8)
		if err != nil {
			return ErrTruncated
		}
		value, err := br.Read8(8)
		if err != nil {
			return ErrTruncated
		}

		if count > 0 {
			for i := uint8(0); i < count; i++ {
				if err := put(value); err != nil {
					return err
				}
			}
			continue
		}

		switch value {
		case rleEndOfLine:
			x = 0
			y++
		case rleEndOfBitmap:
			return nil
		case rleDelta:
			dx, err := br.Read8(8)
			if err != nil {
				return ErrTruncated
			}
			dy, err := br.Read8(8)
			if err != nil {
				return ErrTruncated
			}
			x += int(dx)
			y += int(dy)
		default:
			for i := uint8(0); i < value; i++ {
				c, err := br.Read8(8)
				if err != nil {
					return ErrTruncated
				}
				if err := put(c); err != nil {
					return err
				}
			}
			if value&1 == 1 {
				if _, err := br.Read8(8); err != nil {
					return ErrTruncated
				}
			}
		}
	}
}
