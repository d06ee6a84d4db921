package bar

import (
	"panelbar/blocks"
	"panelbar/pixel"
)

// Compositor lays block bitmaps over the bar background. The background
// fitted to the last requested width is kept between frames.
type Compositor struct {
	height     int
	background *pixel.Image

	fitted      *pixel.Image
	fittedWidth int
}

// NewCompositor returns a compositor for a bar of the given height. A nil
// background leaves the bar transparent.
func NewCompositor(height int, background *pixel.Image) *Compositor {
	if background == nil {
		background = pixel.New(1, 1)
	}
	return &Compositor{height: height, background: background}
}

// Height returns the bar height in pixels.
func (c *Compositor) Height() int { return c.height }

// Composite renders a width x height bar. Each group is drawn without gaps
// between its blocks: left from x = 0, center around width/2 and right
// against the right edge. Blocks past the edge are clipped.
func (c *Compositor) Composite(g blocks.Groups, width int) *pixel.Image {
	canvas := c.fit(width).Clone()
	imgs, widths := renderGroups(g)
	for a, x := range origins(widths, width) {
		if widths[a] == 0 {
			continue
		}
		canvas.Draw(pixel.Concat(imgs[a], c.height), x, 0)
	}
	return canvas
}

func (c *Compositor) fit(width int) *pixel.Image {
	if c.fitted == nil || c.fittedWidth != width {
		c.fitted = pixel.Fit(c.background, width, c.height)
		c.fittedWidth = width
	}
	return c.fitted
}
