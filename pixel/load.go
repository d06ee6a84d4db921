package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrBadColor = errors.New("invalid color")

// ParseColor reads "#rrggbb" or "#rrggbbaa". A missing alpha is opaque.
func ParseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.NRGBA{}, fmt.Errorf("%w %q: want #rrggbb or #rrggbbaa", ErrBadColor, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w %q: %v", ErrBadColor, s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// IsColor reports whether s should be parsed as a color rather than a path.
func IsColor(s string) bool { return strings.HasPrefix(strings.TrimSpace(s), "#") }

// Background resolves a config value that is either a color or an image path.
func Background(value string) (*Image, error) {
	if IsColor(value) {
		c, err := ParseColor(value)
		if err != nil {
			return nil, err
		}
		return Solid(c), nil
	}
	return Load(value)
}

// Load decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file. A leading "~" or
// "$HOME" is replaced with the user's home directory.
func Load(path string) (*Image, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return FromImage(img), nil
}

// ExpandHome replaces a leading "~" or "$HOME" with the home directory.
func ExpandHome(path string) (string, error) {
	var rest string
	switch {
	case path == "~" || strings.HasPrefix(path, "~/"):
		rest = path[1:]
	case path == "$HOME" || strings.HasPrefix(path, "$HOME/"):
		rest = path[len("$HOME"):]
	default:
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return filepath.Join(home, rest), nil
}
