package mouse

import (
	"fmt"
	"strconv"
	"strings"
)

// ButtonState is the state change carried by a pointer event.
type ButtonState int

const (
	None ButtonState = iota // motion only
	Pressed
	Released
)

func (s ButtonState) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return "none"
	}
}

// ParseState accepts "pressed", "released" and "" or "none".
func ParseState(s string) (ButtonState, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "pressed":
		return Pressed, nil
	case "released":
		return Released, nil
	}
	return None, fmt.Errorf("unknown button state %q", s)
}

// Linux input event codes for the common buttons.
const (
	ButtonLeft   uint32 = 0x110
	ButtonRight  uint32 = 0x111
	ButtonMiddle uint32 = 0x112
)

// ParseButton maps "left", "right", "middle" or a decimal code to a button.
func ParseButton(s string) (uint32, error) {
	switch strings.ToLower(s) {
	case "left":
		return ButtonLeft, nil
	case "right":
		return ButtonRight, nil
	case "middle":
		return ButtonMiddle, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("unknown button %q", s)
	}
	return uint32(n), nil
}

// Event is a pointer event in surface coordinates. Button is 0 when the
// event carries no button. Negative coordinates mean the pointer left the
// surface.
type Event struct {
	State  ButtonState
	Button uint32
	X, Y   float64
}

// Leave returns the "pointer left the surface" sentinel.
func Leave() Event { return Event{X: -1, Y: -1} }

// Left reports whether e is the leave sentinel.
func (e Event) Left() bool { return e.State == None && (e.X < 0 || e.Y < 0) }

// Translate shifts e horizontally, e.g. into block-local coordinates.
func (e Event) Translate(dx float64) Event {
	e.X += dx
	return e
}
