// Package fonts turns text into positioned glyph coverage masks.
package fonts

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"panelbar/pixel"
)

// Font is a parsed TrueType/OpenType font. Faces are created lazily per
// pixel height and shared; a Font is safe for concurrent use.
type Font struct {
	mu    sync.Mutex
	sfnt  *opentype.Font
	faces map[int]font.Face
}

// Glyph is one rasterized rune. Bounds is in line space: x grows from the
// start of the run, y = 0 is the top of a line whose baseline sits at the
// face ascent. Mask holds the coverage for Bounds with its origin at
// Bounds.Min.
type Glyph struct {
	Rune    rune
	Bounds  image.Rectangle
	Mask    *image.Alpha
	Advance float64
}

// Parse reads font data.
func Parse(data []byte) (*Font, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Font{sfnt: ft, faces: map[int]font.Face{}}, nil
}

// Load reads and parses the font at path.
func Load(path string) (*Font, error) {
	path, err := pixel.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return Parse(data)
}

var defaultFont = sync.OnceValue(func() *Font {
	f, err := Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
	return f
})

// Default returns the built-in Go Regular font.
func Default() *Font { return defaultFont() }

func (f *Font) face(height int) (font.Face, error) {
	if face, ok := f.faces[height]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.sfnt, &opentype.FaceOptions{
		Size: float64(height), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	f.faces[height] = face
	return face, nil
}

// Layout positions and rasterizes text at the given pixel height. Runes the
// font cannot map are drawn as U+FFFD when available and skipped otherwise.
func (f *Font) Layout(text string, height int) ([]Glyph, error) {
	if height <= 0 || text == "" {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	face, err := f.face(height)
	if err != nil {
		return nil, err
	}
	dot := fixed.Point26_6{Y: face.Metrics().Ascent}
	prev := rune(-1)
	glyphs := make([]Glyph, 0, len(text))
	for _, r := range text {
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		dr, mask, maskp, adv, ok := face.Glyph(dot, r)
		if !ok {
			r = '\ufffd'
			if dr, mask, maskp, adv, ok = face.Glyph(dot, r); !ok {
				continue
			}
		}
		// The face reuses its mask buffer between calls.
		alpha := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		if mask != nil {
			draw.Draw(alpha, alpha.Bounds(), mask, maskp, draw.Src)
		}
		glyphs = append(glyphs, Glyph{
			Rune:    r,
			Bounds:  dr,
			Mask:    alpha,
			Advance: float64(adv) / 64,
		})
		dot.X += adv
		prev = r
	}
	return glyphs, nil
}

// Width measures a laid out run: the left edge of the last visible glyph
// plus its advance, rounded up. Runs without visible glyphs measure 0.
func Width(glyphs []Glyph) int {
	for i := len(glyphs) - 1; i >= 0; i-- {
		g := glyphs[i]
		if g.Bounds.Empty() {
			continue
		}
		return int(math.Ceil(float64(g.Bounds.Min.X) + g.Advance))
	}
	return 0
}
