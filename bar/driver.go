package bar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"panelbar/blocks"
	"panelbar/events"
	"panelbar/pixel"
)

// ErrEventsClosed is returned by Run when every event producer is gone.
var ErrEventsClosed = errors.New("event channel closed")

// Transport receives finished frames.
type Transport interface {
	Publish(img *pixel.Image, height int) error
}

// Driver owns the bar state and turns events into frames. It is driven by
// a single goroutine.
type Driver struct {
	groups     blocks.Groups
	compositor *Compositor
	transport  Transport
	logger     *slog.Logger

	width  int
	frames uint64
}

func NewDriver(g blocks.Groups, c *Compositor, t Transport, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{groups: g, compositor: c, transport: t, logger: logger}
}

// Width returns the last known output width, 0 if none was reported yet.
func (d *Driver) Width() int { return d.width }

// Frames returns the number of frames published so far.
func (d *Driver) Frames() uint64 { return d.frames }

// Run consumes events until ctx is done, the channel is closed or the
// transport fails.
func (d *Driver) Run(ctx context.Context, evs <-chan events.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-evs:
			if !ok {
				return ErrEventsClosed
			}
			if err := d.Handle(ev); err != nil {
				return err
			}
		}
	}
}

// Handle applies one event. Resizes redraw when the width changed, pointer
// events when a block asked for it, ticks always.
func (d *Driver) Handle(ev events.Event) error {
	switch ev.Kind {
	case events.Resize:
		w := int(ev.Width)
		if w == d.width {
			return nil
		}
		d.logger.Debug("resize", "width", w)
		d.width = w
		return d.redraw()
	case events.Pointer:
		if d.width == 0 {
			return nil
		}
		if Dispatch(d.groups, d.width, ev.Mouse) {
			return d.redraw()
		}
		return nil
	case events.Tick:
		return d.redraw()
	}
	return fmt.Errorf("unexpected event %v", ev.Kind)
}

func (d *Driver) redraw() error {
	if d.width <= 0 || d.groups.Len() == 0 {
		return nil
	}
	img := d.compositor.Composite(d.groups, d.width)
	if err := d.transport.Publish(img, d.compositor.Height()); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	d.frames++
	return nil
}
