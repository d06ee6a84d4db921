package bar

import (
	"panelbar/blocks"
	"panelbar/mouse"
)

// Dispatch delivers a pointer event to the blocks of a bar of the given
// width. The first visible block whose span [x, x+w] contains the pointer
// receives the event in its own coordinates; every other block receives
// nil, which is also what all blocks get when the pointer left the bar.
// Zero-width blocks draw nothing and never take the pointer. Dispatch
// reports whether any block asked for a redraw.
func Dispatch(g blocks.Groups, width int, ev mouse.Event) bool {
	redraw := false
	if ev.Left() {
		for _, b := range g.All() {
			if b.MouseEvent(nil) {
				redraw = true
			}
		}
		return redraw
	}

	imgs, widths := renderGroups(g)
	claimed := false
	for a, x := range origins(widths, width) {
		for i, b := range g[a] {
			w := imgs[a][i].Width()
			var local *mouse.Event
			if !claimed && w > 0 && ev.X >= float64(x) && ev.X <= float64(x+w) {
				translated := ev.Translate(-float64(x))
				local, claimed = &translated, true
			}
			if b.MouseEvent(local) {
				redraw = true
			}
			x += w
		}
	}
	return redraw
}
