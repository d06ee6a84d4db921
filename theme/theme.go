package theme

import "image/color"

// Palette holds the built-in colors used whenever neither the bar section
// nor a block declaration names one. Hover colors default to the normal
// ones, so a block only changes appearance on hover when its config says so.
// Warn and Danger replace the foreground of probe blocks past a threshold.
type Palette struct {
	Background color.NRGBA
	Foreground color.NRGBA
	Warn       color.NRGBA
	Danger     color.NRGBA
}

var DefaultPalette = Palette{
	Background: color.NRGBA{0x28, 0x28, 0x28, 0xff},
	Foreground: color.NRGBA{0xeb, 0xdb, 0xb2, 0xff},
	Warn:       color.NRGBA{0xd0, 0x87, 0x70, 0xff}, // orange
	Danger:     color.NRGBA{0xbf, 0x61, 0x6a, 0xff}, // red
}

// Current holds the active palette.
var Current = DefaultPalette

type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarn
	SeverityDanger
)

// ColorFor returns the color and true if severity maps to a color.
func ColorFor(sev Severity) (color.NRGBA, bool) {
	switch sev {
	case SeverityWarn:
		return Current.Warn, true
	case SeverityDanger:
		return Current.Danger, true
	default:
		return color.NRGBA{}, false
	}
}

// Classify maps a percentage onto a severity given warn and danger thresholds.
func Classify(percent, warn, danger float64) Severity {
	switch {
	case percent >= danger:
		return SeverityDanger
	case percent >= warn:
		return SeverityWarn
	}
	return SeverityNormal
}

// Hex formats c as "#rrggbbaa", the form accepted by the config parser.
func Hex(c color.NRGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0, 0, 0}
	for i, v := range [4]uint8{c.R, c.G, c.B, c.A} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0x0f]
	}
	return string(b)
}
