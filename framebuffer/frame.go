// Package framebuffer encodes bar images for the display server and hands
// them to an output sink.
package framebuffer

import (
	"encoding/binary"
	"image"

	"panelbar/pixel"
)

// FormatARGB8888 is the pixel format code carried in frame headers. It
// matches WL_SHM_FORMAT_ARGB8888.
const FormatARGB8888 uint32 = 0

// HeaderSize is the length of the header written before each frame.
const HeaderSize = 16

// Frame is an encoded image: premultiplied ARGB8888 stored little-endian,
// so every pixel is the byte sequence B, G, R, A. Rows are not padded.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

// Encode converts img into a Frame.
func Encode(img *pixel.Image) Frame {
	src := img.NRGBA()
	w, h := img.Width(), img.Height()
	f := Frame{Pix: make([]byte, w*h*4), Width: w, Height: h, Stride: w * 4}
	for y := 0; y < h; y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := f.Pix[y*f.Stride : (y+1)*f.Stride]
		for x := 0; x < w*4; x += 4 {
			a := uint32(s[x+3])
			d[x+0] = premultiply(s[x+2], a)
			d[x+1] = premultiply(s[x+1], a)
			d[x+2] = premultiply(s[x+0], a)
			d[x+3] = uint8(a)
		}
	}
	return f
}

func premultiply(c uint8, a uint32) uint8 {
	return uint8((uint32(c)*a + 127) / 255)
}

// Header returns width, height, stride and format as little-endian uint32s.
func (f Frame) Header() []byte {
	var b [HeaderSize]byte
	binary.LittleEndian.PutUint32(b[0:], uint32(f.Width))
	binary.LittleEndian.PutUint32(b[4:], uint32(f.Height))
	binary.LittleEndian.PutUint32(b[8:], uint32(f.Stride))
	binary.LittleEndian.PutUint32(b[12:], FormatARGB8888)
	return b[:]
}

// ParseHeader is the inverse of Header.
func ParseHeader(b []byte) (width, height, stride int, format uint32, ok bool) {
	if len(b) < HeaderSize {
		return 0, 0, 0, 0, false
	}
	width = int(binary.LittleEndian.Uint32(b[0:]))
	height = int(binary.LittleEndian.Uint32(b[4:]))
	stride = int(binary.LittleEndian.Uint32(b[8:]))
	format = binary.LittleEndian.Uint32(b[12:])
	return width, height, stride, format, true
}

// RGBA returns the frame as a premultiplied image.RGBA.
func (f Frame) RGBA() *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		s := f.Pix[y*f.Stride : y*f.Stride+f.Width*4]
		d := m.Pix[y*m.Stride : y*m.Stride+f.Width*4]
		for x := 0; x < len(s); x += 4 {
			d[x+0], d[x+1], d[x+2], d[x+3] = s[x+2], s[x+1], s[x+0], s[x+3]
		}
	}
	return m
}
