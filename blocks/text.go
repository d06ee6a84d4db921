package blocks

import (
	"fmt"
	"image/color"
	"strings"

	"panelbar/config"
	"panelbar/fonts"
	"panelbar/pixel"
)

// TextBlock shows a fixed string.
type TextBlock struct {
	base
	text string
}

func NewTextBlock(s Settings, d config.Block) (Block, error) {
	if d.Text == nil {
		return nil, fmt.Errorf("missing field %q", "text")
	}
	look, err := resolve(s, d)
	if err != nil {
		return nil, err
	}
	b := &TextBlock{text: *d.Text}
	b.init("text", s, look)
	return b, nil
}

func (b *TextBlock) Render() *pixel.Image {
	return b.render(func(hover bool) (*pixel.Image, error) {
		bg, fg := b.colors(hover)
		return renderText(b.text, &b.look, bg, fg)
	})
}

var controlChars = strings.NewReplacer("\n", "", "\r", "", "\t", "")

// stripControl removes line breaks and tabs, which would otherwise be drawn
// as glyph boxes or break the single-line layout.
func stripControl(s string) string { return controlChars.Replace(s) }

// renderText draws text on a bar-high strip. The run is centered inside the
// minimum width when narrower, padded by spacing on both sides, drawn over
// the tiled background and vertically centered at the font height.
func renderText(text string, look *appearance, bg *pixel.Image, fg color.NRGBA) (*pixel.Image, error) {
	glyphs, err := look.font.Layout(stripControl(text), look.fontHeight)
	if err != nil {
		return nil, err
	}

	width := fonts.Width(glyphs)
	xOffset := look.spacing
	yOffset := (look.barHeight - look.fontHeight) / 2
	if width < look.minWidth {
		xOffset += (look.minWidth - width) / 2
		width = look.minWidth
	}
	width += look.spacing * 2

	img := pixel.Tile(bg, width, look.barHeight)
	for _, g := range glyphs {
		for y := 0; y < g.Bounds.Dy(); y++ {
			for x := 0; x < g.Bounds.Dx(); x++ {
				v := g.Mask.AlphaAt(x, y).A
				if v == 0 {
					continue
				}
				c := fg
				c.A = uint8(uint32(fg.A) * uint32(v) / 0xff)
				img.Blend(g.Bounds.Min.X+x+xOffset, g.Bounds.Min.Y+y+yOffset, c)
			}
		}
	}
	return img, nil
}
