package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"panelbar/theme"
)

// ErrNoConfig is returned together with the fallback config when no file
// was given and none exists on the search path.
var ErrNoConfig = errors.New("no config file found; using defaults")

type Config struct {
	Bar      Bar     `toml:"bar"`
	Defaults Style   `toml:"defaults"`
	Left     []Block `toml:"left"`
	Center   []Block `toml:"center"`
	Right    []Block `toml:"right"`

	path      string
	undecoded []string
}

// Bar describes the panel surface itself.
type Bar struct {
	Height     int    `toml:"height"`     // pixels
	Background string `toml:"background"` // "#rrggbb[aa]" or image path
	Font       string `toml:"font"`       // empty selects the built-in font
}

// Style holds the appearance fields shared by [defaults] and every block.
// Unset fields are nil or empty and fall back to [defaults].
type Style struct {
	FontHeight *int   `toml:"font_height"`
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Width      *int   `toml:"width"`    // minimum width
	Spacing    *int   `toml:"spacing"`  // padding on both sides
	Interval   *int   `toml:"interval"` // refresh period in ms, 0 disables
	Timeout    *int   `toml:"timeout"`  // command timeout in ms, 0 disables
}

// Hover overrides colors while the pointer is over a block.
type Hover struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
}

// Block is one [[left]], [[center]] or [[right]] declaration. Module
// selects the constructor; the remaining fields are module specific.
type Block struct {
	Module  string            `toml:"module"`
	Text    *string           `toml:"text"`
	Command *string           `toml:"command"`
	Click   map[string]string `toml:"click"` // button name -> shell command
	Hover   *Hover            `toml:"hover"`
	Style

	// cpu, mem and time modules
	Format    *string `toml:"format"`
	Prefix    *string `toml:"prefix"`
	Warn      *int    `toml:"warn_percent"`
	Danger    *int    `toml:"danger_percent"`
	Precision *int    `toml:"precision"`
}

func intp(v int) *int { return &v }

func Defaults() *Config {
	return &Config{
		Bar: Bar{
			Height:     30,
			Background: theme.Hex(theme.Current.Background),
		},
		Defaults: Style{
			FontHeight: intp(20),
			Foreground: theme.Hex(theme.Current.Foreground),
			Background: theme.Hex(theme.Current.Background),
			Width:      intp(0),
			Spacing:    intp(5),
			Interval:   intp(0),
			Timeout:    intp(0),
		},
	}
}

// Fallback is the config used when no file exists: a clock on the right.
func Fallback() *Config {
	c := Defaults()
	c.Right = []Block{{Module: "time"}}
	return c
}

// Load loads configuration from an explicit path or the search path.
// Precedence: provided path, else first existing search path, else Fallback
// together with ErrNoConfig. Read and parse errors are returned as is; they
// are fatal to the caller.
func Load(path string) (*Config, error) {
	chosen := path
	if chosen == "" {
		for _, p := range searchPaths() {
			if _, err := os.Stat(p); err == nil {
				chosen = p
				break
			}
		}
	}
	if chosen == "" {
		return Fallback(), ErrNoConfig
	}
	data, err := os.ReadFile(chosen)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", chosen, err)
	}
	c.path = chosen
	return c, nil
}

// Parse decodes a TOML document over Defaults.
func Parse(data string) (*Config, error) {
	c := Defaults()
	md, err := toml.Decode(data, c)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for _, k := range md.Undecoded() {
		c.undecoded = append(c.undecoded, k.String())
	}
	c.normalize()
	return c, nil
}

func searchPaths() []string {
	var out []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		out = append(out, filepath.Join(xdg, "panelbar", "config.toml"))
	}
	if home, _ := os.UserHomeDir(); home != "" {
		out = append(out, filepath.Join(home, ".config", "panelbar", "config.toml"))
	}
	return out
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string { return c.path }

// Undecoded returns keys present in the file that no field consumed.
func (c *Config) Undecoded() []string {
	if len(c.undecoded) == 0 {
		return nil
	}
	out := make([]string, len(c.undecoded))
	copy(out, c.undecoded)
	return out
}

// Blocks returns the number of declared blocks over all alignments.
func (c *Config) Blocks() int { return len(c.Left) + len(c.Center) + len(c.Right) }

// normalize clamps values after decoding. A [defaults] field explicitly
// emptied falls back to the built-in value.
func (c *Config) normalize() {
	c.Bar.Height = clampInt(c.Bar.Height, 1, 512, 30)
	if strings.TrimSpace(c.Bar.Background) == "" {
		c.Bar.Background = theme.Hex(theme.Current.Background)
	}
	c.Defaults = Defaults().Defaults.Merge(c.Defaults)
	*c.Defaults.FontHeight = clampInt(*c.Defaults.FontHeight, 1, 512, 20)
	for _, p := range []*int{c.Defaults.Width, c.Defaults.Spacing, c.Defaults.Interval, c.Defaults.Timeout} {
		*p = max(*p, 0)
	}
}

// Merge returns s with every field set in over replacing its own.
func (s Style) Merge(over Style) Style {
	if over.FontHeight != nil {
		s.FontHeight = over.FontHeight
	}
	if over.Foreground != "" {
		s.Foreground = over.Foreground
	}
	if over.Background != "" {
		s.Background = over.Background
	}
	if over.Width != nil {
		s.Width = over.Width
	}
	if over.Spacing != nil {
		s.Spacing = over.Spacing
	}
	if over.Interval != nil {
		s.Interval = over.Interval
	}
	if over.Timeout != nil {
		s.Timeout = over.Timeout
	}
	return s
}

func clampInt(val, min, max, fallback int) int {
	if val == 0 && fallback != 0 { // allow zero to trigger fallback when min>0
		val = fallback
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
