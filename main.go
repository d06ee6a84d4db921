// panelbar draws a desktop status bar. Blocks declared in a TOML file are
// rendered to pixels, laid out left, center and right, and every frame is
// handed to the display server through the configured output.
//
// The display side talks to panelbar over stdin with one JSON object per
// line: {"width":1920} reports the output width, {"x":10,"y":4} pointer
// motion, {"x":10,"y":4,"button":272,"state":"released"} a button, and
// {"leave":true} that the pointer left the bar.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"panelbar/bar"
	"panelbar/blocks"
	"panelbar/config"
	"panelbar/events"
	"panelbar/framebuffer"
	"panelbar/input"
	"panelbar/mouse"
	"panelbar/pixel"
)

// version is overridden at link time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "panelbar: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	output     string
	width      uint32
	debug      bool
	version    bool
	help       bool
}

func parseFlags(args []string) (options, *pflag.FlagSet, error) {
	var opts options
	flagSet := pflag.NewFlagSet("panelbar", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/panelbar/config.toml)")
	flagSet.StringVarP(&opts.output, "output", "o", "stream:-", "frame output: shm:<socket>, stream:<path|->, png:<path>")
	flagSet.Uint32Var(&opts.width, "width", 0, "initial output width in pixels, 0 waits for the display")
	flagSet.BoolVar(&opts.debug, "debug", false, "enable debug logging (also PANELBAR_DEBUG)")
	flagSet.BoolVar(&opts.version, "version", false, "print the version and exit")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")
	if err := flagSet.Parse(args); err != nil {
		return opts, flagSet, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, flagSet, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return opts, flagSet, nil
}

func run(args []string) error {
	opts, flagSet, err := parseFlags(args)
	if errors.Is(err, pflag.ErrHelp) || (err == nil && opts.help) {
		printHelp(flagSet)
		return nil
	}
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Println("panelbar", version)
		return nil
	}

	logger := newLogger(os.Stderr, opts.debug || os.Getenv("PANELBAR_DEBUG") != "")

	cfg, err := config.Load(opts.configPath)
	if errors.Is(err, config.ErrNoConfig) {
		logger.Warn("no config file found, using defaults")
	} else if err != nil {
		return err
	}
	for _, key := range cfg.Undecoded() {
		logger.Warn("unknown config key", "key", key)
	}

	settings, err := blocks.NewSettings(cfg, logger)
	if err != nil {
		return err
	}
	groups, err := blocks.NewRegistry().BuildGroups(settings, cfg)
	if err != nil {
		return err
	}
	background, err := pixel.Background(cfg.Bar.Background)
	if err != nil {
		return fmt.Errorf("bar: field %q: %w", "background", err)
	}

	sink, err := openSink(opts.output)
	if err != nil {
		return err
	}
	queue := framebuffer.NewQueue(sink, logger)
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Debug("closing output", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	merger := events.NewMerger(64)
	widths := make(chan uint32)
	pointer := make(chan mouse.Event)
	merger.AddResize(ctx, widths)
	merger.AddPointer(ctx, pointer)
	go func() {
		if err := input.Read(ctx, os.Stdin, opts.width, widths, pointer, logger); err != nil {
			logger.Error("reading input", "error", err)
		}
	}()
	for _, b := range groups.All() {
		b.StartInterval(ctx, merger.NewSink())
	}

	driver := bar.NewDriver(groups, bar.NewCompositor(cfg.Bar.Height, background), queue, logger)
	logger.Info("panelbar started",
		"config", cfg.Path(),
		"blocks", groups.Len(),
		"height", cfg.Bar.Height,
		"output", opts.output,
	)
	err = driver.Run(ctx, merger.Events())
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down", "frames", driver.Frames(), "dropped", queue.Dropped())
		return nil
	}
	return err
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openSink parses an --output value.
func openSink(value string) (framebuffer.Sink, error) {
	kind, target, ok := strings.Cut(value, ":")
	if !ok || target == "" {
		return nil, fmt.Errorf("output %q: want shm:<socket>, stream:<path|-> or png:<path>", value)
	}
	switch kind {
	case "shm":
		return framebuffer.DialShm(target)
	case "stream":
		if target == "-" {
			return framebuffer.NewStreamSink(os.Stdout), nil
		}
		path, err := pixel.ExpandHome(target)
		if err != nil {
			return nil, err
		}
		return framebuffer.CreateStreamSink(path)
	case "png":
		path, err := pixel.ExpandHome(target)
		if err != nil {
			return nil, err
		}
		return framebuffer.NewPNGSink(path), nil
	}
	return nil, fmt.Errorf("output %q: unknown kind %q", value, kind)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `panelbar: a status bar rendered from TOML declared blocks.

Reads the output width and pointer events from stdin, one JSON object per
line, and writes ARGB8888 frames to the selected output.

Usage:
  panelbar [flags]

Examples:
  # Draw a 1920 pixel wide bar into a PNG for inspection
  panelbar --width 1920 --output png:/tmp/bar.png < /dev/null

  # Hand frames to a compositor helper over a unix socket
  panelbar --output shm:$XDG_RUNTIME_DIR/panelbar.sock

Modules: %s

Flags:
`, strings.Join(blocks.NewRegistry().Names(), ", "))
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
