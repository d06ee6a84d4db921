package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sample = `
[bar]
height = 24
background = "~/wall.png"

[defaults]
foreground = "#ffffff"
spacing = 3

[[left]]
module = "text"
text = "hello"
click = { left = "notify-send hi" }
[left.hover]
foreground = "#ff0000"

[[center]]
module = "command"
command = "date"
interval = 500
font_height = 14

[[right]]
module = "text"
text = "r"
colour = "typo"
`

func TestParse(t *testing.T) {
	c, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Bar.Height != 24 || c.Bar.Background != "~/wall.png" {
		t.Errorf("bar = %+v", c.Bar)
	}
	if c.Defaults.Foreground != "#ffffff" || *c.Defaults.Spacing != 3 {
		t.Errorf("defaults override lost: %+v", c.Defaults)
	}
	if *c.Defaults.FontHeight != 20 || c.Defaults.Background == "" {
		t.Errorf("built-in defaults lost: %+v", c.Defaults)
	}
	if c.Blocks() != 3 {
		t.Fatalf("Blocks() = %d, want 3", c.Blocks())
	}

	left := c.Left[0]
	if left.Module != "text" || *left.Text != "hello" || left.Click["left"] != "notify-send hi" {
		t.Errorf("left = %+v", left)
	}
	if left.Hover == nil || left.Hover.Foreground != "#ff0000" {
		t.Errorf("left hover = %+v", left.Hover)
	}

	center := c.Center[0]
	if *center.Command != "date" || *center.Interval != 500 || *center.FontHeight != 14 {
		t.Errorf("center = %+v", center)
	}
	if center.Spacing != nil {
		t.Error("unset block field should stay nil")
	}

	if got := c.Undecoded(); len(got) != 1 || got[0] != "right.colour" {
		t.Errorf("Undecoded = %v", got)
	}
}

func TestStyleMerge(t *testing.T) {
	c, err := Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	s := c.Defaults.Merge(c.Center[0].Style)
	if *s.FontHeight != 14 || *s.Interval != 500 {
		t.Errorf("block fields not applied: %+v", s)
	}
	if *s.Spacing != 3 || s.Foreground != "#ffffff" {
		t.Errorf("defaults not used as fallback: %+v", s)
	}
}

func TestNormalize(t *testing.T) {
	c, err := Parse(`
[bar]
height = 9000
background = ""
[defaults]
font_height = 0
spacing = -4
interval = -1
`)
	if err != nil {
		t.Fatal(err)
	}
	if c.Bar.Height != 512 {
		t.Errorf("height = %d, want 512", c.Bar.Height)
	}
	if c.Bar.Background == "" {
		t.Error("empty background not replaced")
	}
	if *c.Defaults.FontHeight != 20 || *c.Defaults.Spacing != 0 || *c.Defaults.Interval != 0 {
		t.Errorf("defaults = font %d spacing %d interval %d", *c.Defaults.FontHeight, *c.Defaults.Spacing, *c.Defaults.Interval)
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse("[bar\nheight = 1"); err == nil {
		t.Error("want syntax error")
	}
	if _, err := Parse("[bar]\nheight = \"tall\""); err == nil {
		t.Error("want type error")
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Path() != path || c.Blocks() != 3 {
		t.Errorf("path %q blocks %d", c.Path(), c.Blocks())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil || errors.Is(err, ErrNoConfig) {
		t.Errorf("missing explicit file: err = %v", err)
	}
}

func TestLoadSearchPath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	if !errors.Is(err, ErrNoConfig) {
		t.Fatalf("err = %v, want ErrNoConfig", err)
	}
	if len(c.Right) != 1 || c.Right[0].Module != "time" {
		t.Errorf("fallback = %+v", c.Right)
	}

	dir := filepath.Join(xdg, "panelbar")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Path() != filepath.Join(dir, "config.toml") {
		t.Errorf("Path = %q", c.Path())
	}
}
