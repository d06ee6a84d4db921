package blocks

import (
	"context"
	"image/color"
	"log/slog"
	"sync/atomic"
	"time"

	"panelbar/mouse"
	"panelbar/pixel"
)

// base implements the behavior shared by every block: the cache slot,
// hover tracking, click commands and the refresh interval.
type base struct {
	look   appearance
	runner Runner
	logger *slog.Logger

	cache cache
	hover atomic.Bool
	last  *pixel.Image // last successful render, only touched by Render
}

func (b *base) init(name string, s Settings, look appearance) {
	b.look, b.runner, b.logger = look, s.Runner, s.Logger
	if b.runner == nil {
		b.runner = Shell{}
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	b.logger = b.logger.With("module", name)
}

// colors returns the background and foreground for the current hover state.
func (b *base) colors(hover bool) (*pixel.Image, color.NRGBA) {
	if hover {
		return b.look.hoverBg, b.look.hoverFg
	}
	return b.look.bg, b.look.fg
}

// render returns the cached image or produces, caches and returns a new
// one. The cache lock is not held while produce runs.
func (b *base) render(produce func(hover bool) (*pixel.Image, error)) *pixel.Image {
	img, gen := b.cache.get()
	if img != nil {
		return img
	}
	img, err := produce(b.hover.Load())
	if err != nil {
		b.logger.Warn("render failed", "error", err)
		img = fallback(b.last, b.look.barHeight)
	} else {
		b.last = img
	}
	b.cache.put(img, gen)
	return img
}

func (b *base) MouseEvent(ev *mouse.Event) bool {
	over := ev != nil
	redraw := false
	if b.hover.Swap(over) != over {
		b.cache.clear()
		redraw = true
	}
	if over && ev.State == mouse.Released {
		b.click(ev.Button)
	}
	return redraw
}

func (b *base) click(button uint32) {
	cmd, ok := b.look.click[button]
	if !ok || cmd == "" {
		return
	}
	if err := b.runner.Start(cmd); err != nil {
		b.logger.Warn("click command", "button", button, "error", err)
		return
	}
	b.logger.Debug("click command", "button", button, "command", cmd)
}

func (b *base) StartInterval(ctx context.Context, n Notifier) {
	if b.look.interval <= 0 {
		n.Close()
		return
	}
	go func() {
		defer n.Close()
		t := time.NewTicker(b.look.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				b.cache.clear()
				if !n.Notify(ctx) {
					return
				}
			}
		}
	}()
}
