package bar

import (
	"panelbar/blocks"
	"panelbar/pixel"
)

// origins returns the x coordinate of each group's first block on a bar of
// the given width. Groups that do not fit start at 0.
func origins(widths [3]int, width int) [3]int {
	return [3]int{
		blocks.Left:   0,
		blocks.Center: max(0, width/2-widths[blocks.Center]/2),
		blocks.Right:  max(0, width-widths[blocks.Right]),
	}
}

// renderGroups renders every block once and returns the images together
// with each group's total width.
func renderGroups(g blocks.Groups) (imgs [3][]*pixel.Image, widths [3]int) {
	for a, list := range g {
		imgs[a] = make([]*pixel.Image, len(list))
		for i, b := range list {
			img := b.Render()
			imgs[a][i] = img
			widths[a] += img.Width()
		}
	}
	return imgs, widths
}
