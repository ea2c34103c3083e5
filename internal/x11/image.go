package x11

import (
	"fmt"
	"image"
)

// pixelFormat is the server's ZPixmap layout for one depth.
type pixelFormat struct {
	depth         byte
	bytesPerPixel int
	// pad is the scanline alignment in bytes.
	pad int
}

func (f pixelFormat) stride(width int) int {
	unpadded := width * f.bytesPerPixel
	return ((unpadded + f.pad - 1) / f.pad) * f.pad
}

// encode converts rows [y0, y1) of img to the server's pixel layout.
// Only little-endian 24 and 32 bit visuals are supported.
func (f pixelFormat) encode(img *image.RGBA, y0, y1 int) ([]byte, error) {
	if f.bytesPerPixel != 3 && f.bytesPerPixel != 4 {
		return nil, fmt.Errorf("unsupported bytes per pixel: %d", f.bytesPerPixel)
	}
	b := img.Bounds()
	width := b.Dx()
	stride := f.stride(width)
	data := make([]byte, stride*(y1-y0))

	for y := y0; y < y1; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := data[(y-y0)*stride:]
		for x := 0; x < width; x++ {
			s := src[x*4:]
			d := dst[x*f.bytesPerPixel:]
			d[0], d[1], d[2] = s[2], s[1], s[0]
			if f.bytesPerPixel == 4 && f.depth == 32 {
				d[3] = s[3]
			}
		}
	}
	return data, nil
}

// rowsPerRequest is how many rows of the given stride fit in one PutImage
// request of at most maxBytes, never less than one.
func rowsPerRequest(stride, maxBytes int) int {
	const header = 24
	if stride <= 0 {
		return 1
	}
	n := (maxBytes - header) / stride
	if n < 1 {
		return 1
	}
	return n
}
