package input

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"panelbar/mouse"
)

// Message is one line of the input protocol written by the display-server
// helper. A line carries a new output width, a pointer event, or both:
//
//	{"width":1920}
//	{"x":10,"y":4}
//	{"x":10,"y":4,"button":272,"state":"released"}
//	{"leave":true}
type Message struct {
	Width  *uint32  `json:"width,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Button uint32   `json:"button,omitempty"`
	State  string   `json:"state,omitempty"`
	Leave  bool     `json:"leave,omitempty"`
}

// Pointer converts the pointer part of m. ok is false when m has none.
func (m Message) Pointer() (ev mouse.Event, ok bool, err error) {
	if m.Leave {
		return mouse.Leave(), true, nil
	}
	if m.X == nil || m.Y == nil {
		if m.State != "" || m.Button != 0 {
			return mouse.Event{}, false, fmt.Errorf("pointer event without coordinates")
		}
		return mouse.Event{}, false, nil
	}
	state, err := mouse.ParseState(m.State)
	if err != nil {
		return mouse.Event{}, false, err
	}
	return mouse.Event{State: state, Button: m.Button, X: *m.X, Y: *m.Y}, true, nil
}

// Read consumes newline-delimited JSON messages from r and forwards widths
// and pointer events in input order. A non-zero initial width is sent before
// anything read from r, so a width reported by the display always wins.
// Malformed lines are logged and skipped. Sends block, nothing is dropped.
// Both channels are closed when r is exhausted or ctx is done.
func Read(ctx context.Context, r io.Reader, initial uint32, widths chan<- uint32, pointer chan<- mouse.Event, logger *slog.Logger) error {
	defer close(widths)
	defer close(pointer)
	if logger == nil {
		logger = slog.Default()
	}
	if initial > 0 {
		select {
		case widths <- initial:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var m Message
		if err := json.Unmarshal(line, &m); err != nil {
			logger.Warn("input parse", "error", err)
			continue
		}
		ev, hasPointer, err := m.Pointer()
		if err != nil {
			logger.Warn("input pointer", "error", err)
			continue
		}
		if m.Width != nil {
			select {
			case widths <- *m.Width:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if hasPointer {
			select {
			case pointer <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("input scanner: %w", err)
	}
	return nil
}
