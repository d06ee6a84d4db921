package blocks

import (
	"fmt"
	"image/color"
	"log/slog"
	"sort"
	"time"

	"panelbar/config"
	"panelbar/fonts"
	"panelbar/mouse"
	"panelbar/pixel"
)

// Settings carries what every constructor needs beyond its own declaration:
// bar geometry, the shared font, the [defaults] style and the process
// runner.
type Settings struct {
	BarHeight int
	Font      *fonts.Font
	Defaults  config.Style
	Runner    Runner
	Logger    *slog.Logger
}

// NewSettings resolves the bar-wide parts of cfg. A font that cannot be read
// is a configuration error.
func NewSettings(cfg *config.Config, logger *slog.Logger) (Settings, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := Settings{
		BarHeight: cfg.Bar.Height,
		Font:      fonts.Default(),
		Defaults:  cfg.Defaults,
		Runner:    Shell{},
		Logger:    logger,
	}
	if cfg.Bar.Font != "" {
		f, err := fonts.Load(cfg.Bar.Font)
		if err != nil {
			return Settings{}, fmt.Errorf("bar: field %q: %w", "font", err)
		}
		s.Font = f
	}
	return s, nil
}

// appearance is a block's fully resolved style.
type appearance struct {
	barHeight   int
	fontHeight  int
	minWidth    int
	spacing     int
	font        *fonts.Font
	bg, hoverBg *pixel.Image
	fg, hoverFg color.NRGBA
	interval    time.Duration
	timeout     time.Duration
	click       map[uint32]string
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// resolve merges d over the defaults and loads colors and images. Errors
// name the offending field.
func resolve(s Settings, d config.Block) (appearance, error) {
	st := config.Defaults().Defaults.Merge(s.Defaults).Merge(d.Style)
	a := appearance{
		barHeight: s.BarHeight,
		minWidth:  max(deref(st.Width), 0),
		spacing:   max(deref(st.Spacing), 0),
		font:      s.Font,
		interval:  time.Duration(max(deref(st.Interval), 0)) * time.Millisecond,
		timeout:   time.Duration(max(deref(st.Timeout), 0)) * time.Millisecond,
	}
	a.fontHeight = min(max(deref(st.FontHeight), 1), a.barHeight)
	if a.font == nil {
		a.font = fonts.Default()
	}

	var err error
	if a.fg, err = pixel.ParseColor(st.Foreground); err != nil {
		return a, fmt.Errorf("field %q: %w", "foreground", err)
	}
	if a.bg, err = pixel.Background(st.Background); err != nil {
		return a, fmt.Errorf("field %q: %w", "background", err)
	}
	a.hoverFg, a.hoverBg = a.fg, a.bg
	if h := d.Hover; h != nil {
		if h.Foreground != "" {
			if a.hoverFg, err = pixel.ParseColor(h.Foreground); err != nil {
				return a, fmt.Errorf("field %q: %w", "hover.foreground", err)
			}
		}
		if h.Background != "" {
			if a.hoverBg, err = pixel.Background(h.Background); err != nil {
				return a, fmt.Errorf("field %q: %w", "hover.background", err)
			}
		}
	}

	if len(d.Click) > 0 {
		a.click = make(map[uint32]string, len(d.Click))
		names := make([]string, 0, len(d.Click))
		for name := range d.Click {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			button, err := mouse.ParseButton(name)
			if err != nil {
				return a, fmt.Errorf("field %q: %w", "click."+name, err)
			}
			a.click[button] = d.Click[name]
		}
	}
	return a, nil
}
