package blocks

import (
	"context"
	"fmt"
	"strings"

	"panelbar/mouse"
	"panelbar/pixel"
)

// Alignment selects the group a block is drawn in.
type Alignment int

const (
	Left Alignment = iota
	Center
	Right
)

var alignmentNames = [...]string{"left", "center", "right"}

func (a Alignment) String() string {
	if a < Left || a > Right {
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
	return alignmentNames[a]
}

// ParseAlignment accepts "left", "center" and "right".
func ParseAlignment(s string) (Alignment, error) {
	for i, name := range alignmentNames {
		if strings.EqualFold(s, name) {
			return Alignment(i), nil
		}
	}
	return Left, fmt.Errorf("unknown alignment %q", s)
}

// Block is a renderable unit of the bar.
//
// Render returns the cached bitmap when it is still valid and renders a new
// one otherwise. It never fails: errors are logged and the block falls back
// to its last good image or to nothing. The returned image is shared with
// the cache and must not be modified.
//
// MouseEvent receives the pointer in block-local coordinates while it is
// over the block, and nil otherwise. It reports whether the block needs to
// be redrawn.
//
// StartInterval takes ownership of n. Blocks with a refresh interval clear
// their cache and notify n every interval until ctx is done; other blocks
// close n immediately.
type Block interface {
	Render() *pixel.Image
	MouseEvent(ev *mouse.Event) bool
	StartInterval(ctx context.Context, n Notifier)
}

// Notifier receives one call per cache invalidation from an interval
// goroutine.
type Notifier interface {
	Notify(ctx context.Context) bool
	Close()
}

// Groups holds the blocks of each alignment in display order.
type Groups [3][]Block

// Len returns the number of blocks over all groups.
func (g Groups) Len() int { return len(g[Left]) + len(g[Center]) + len(g[Right]) }

// All returns every block in visual order: left, center, right.
func (g Groups) All() []Block {
	out := make([]Block, 0, g.Len())
	for _, list := range g {
		out = append(out, list...)
	}
	return out
}
