package blocks

import "panelbar/pixel"

// fallback is what a block shows after a failed render: its last good
// image, or an empty image that takes no space in the bar.
func fallback(last *pixel.Image, height int) *pixel.Image {
	if last != nil {
		return last
	}
	return pixel.New(0, height)
}
