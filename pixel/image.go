package pixel

import (
	"bytes"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Image is a width x height buffer of straight (non-premultiplied) RGBA
// pixels. Images handed out by blocks are shared with their cache and must be
// treated as read-only; use Clone before modifying one.
type Image struct {
	nrgba *image.NRGBA
}

// New returns a fully transparent image. Negative dimensions are treated as 0.
func New(width, height int) *Image {
	return &Image{nrgba: image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

// Solid returns a 1x1 image of c, the form used for plain color backgrounds.
func Solid(c color.NRGBA) *Image {
	m := New(1, 1)
	m.Set(0, 0, c)
	return m
}

// FromImage converts any decoded image into an Image with a zero origin.
func FromImage(src image.Image) *Image {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == n.Rect.Dx()*4 {
		return &Image{nrgba: n}
	}
	b := src.Bounds()
	m := New(b.Dx(), b.Dy())
	draw.Draw(m.nrgba, m.nrgba.Bounds(), src, b.Min, draw.Src)
	return m
}

func (m *Image) Width() int  { return m.nrgba.Rect.Dx() }
func (m *Image) Height() int { return m.nrgba.Rect.Dy() }

// NRGBA exposes the backing buffer for encoders.
func (m *Image) NRGBA() *image.NRGBA { return m.nrgba }

func (m *Image) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width() && y < m.Height()
}

// At returns the pixel at (x, y), or transparent black outside the image.
func (m *Image) At(x, y int) color.NRGBA {
	if !m.inside(x, y) {
		return color.NRGBA{}
	}
	i := m.nrgba.PixOffset(x, y)
	p := m.nrgba.Pix[i : i+4 : i+4]
	return color.NRGBA{p[0], p[1], p[2], p[3]}
}

// Set stores c at (x, y). Writes outside the image are ignored.
func (m *Image) Set(x, y int, c color.NRGBA) {
	if !m.inside(x, y) {
		return
	}
	i := m.nrgba.PixOffset(x, y)
	p := m.nrgba.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Blend composites c over the pixel at (x, y) in place.
func (m *Image) Blend(x, y int, c color.NRGBA) {
	if c.A == 0 || !m.inside(x, y) {
		return
	}
	if c.A == 0xff {
		m.Set(x, y, c)
		return
	}
	m.Set(x, y, Over(m.At(x, y), c))
}

// Draw blends src onto m with src's top-left corner at (x, y). Everything
// falling outside m is clipped.
func (m *Image) Draw(src *Image, x, y int) {
	x0, y0 := max(x, 0), max(y, 0)
	x1 := min(x+src.Width(), m.Width())
	y1 := min(y+src.Height(), m.Height())
	for dy := y0; dy < y1; dy++ {
		for dx := x0; dx < x1; dx++ {
			m.Blend(dx, dy, src.At(dx-x, dy-y))
		}
	}
}

func (m *Image) Clone() *Image {
	c := New(m.Width(), m.Height())
	copy(c.nrgba.Pix, m.nrgba.Pix)
	return c
}

// Equal reports whether a and b have the same size and pixels.
func Equal(a, b *Image) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Width() == b.Width() && a.Height() == b.Height() && bytes.Equal(a.nrgba.Pix, b.nrgba.Pix)
}

// Over composites src onto dst using src's straight alpha. A transparent src
// leaves dst unchanged and an opaque src replaces it.
func Over(dst, src color.NRGBA) color.NRGBA {
	sa, da := uint32(src.A), uint32(dst.A)
	dw := da * (0xff - sa)
	outA := sa*0xff + dw
	if outA == 0 {
		return color.NRGBA{}
	}
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*sa*0xff + uint32(d)*dw + outA/2) / outA)
	}
	return color.NRGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: uint8((outA + 0x7f) / 0xff),
	}
}

// Tile fills a width x height image with src repeated by coordinate modulo.
func Tile(src *Image, width, height int) *Image {
	m := New(width, height)
	sw, sh := src.Width(), src.Height()
	if sw == 0 || sh == 0 {
		return m
	}
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			m.Set(x, y, src.At(x%sw, y%sh))
		}
	}
	return m
}

// Concat places imgs side by side without gaps on a transparent canvas of
// the given height. Taller images are cut at the bottom.
func Concat(imgs []*Image, height int) *Image {
	width := 0
	for _, img := range imgs {
		width += img.Width()
	}
	m := New(width, height)
	x := 0
	for _, img := range imgs {
		rowBytes := img.Width() * 4
		for y := 0; y < min(img.Height(), height); y++ {
			si := img.nrgba.PixOffset(0, y)
			di := m.nrgba.PixOffset(x, y)
			copy(m.nrgba.Pix[di:di+rowBytes], img.nrgba.Pix[si:si+rowBytes])
		}
		x += img.Width()
	}
	return m
}

// Fit produces a width x height version of a background. A 1x1 image is a
// plain color and is tiled. Anything larger is scaled to cover the target
// keeping its aspect ratio, and the overflow is cropped evenly on both sides.
func Fit(src *Image, width, height int) *Image {
	sw, sh := src.Width(), src.Height()
	if width <= 0 || height <= 0 || sw == 0 || sh == 0 {
		return New(width, height)
	}
	if sw == 1 && sh == 1 {
		return Tile(src, width, height)
	}

	crop := image.Rect(0, 0, sw, sh)
	if width*sh > sw*height {
		h := max(sw*height/width, 1)
		crop.Min.Y = (sh - h) / 2
		crop.Max.Y = crop.Min.Y + h
	} else {
		w := max(sh*width/height, 1)
		crop.Min.X = (sw - w) / 2
		crop.Max.X = crop.Min.X + w
	}

	m := New(width, height)
	draw.CatmullRom.Scale(m.nrgba, m.nrgba.Bounds(), src.nrgba, crop, draw.Src, nil)
	return m
}
