package blocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"panelbar/config"
	"panelbar/pixel"
	"panelbar/theme"
)

// Sample is one reading of a block's dynamic content.
type Sample struct {
	Text     string
	Severity theme.Severity
}

// Source produces the content of a CommandBlock each time its cache is
// invalid.
type Source interface {
	Sample(ctx context.Context) (Sample, error)
}

// CommandBlock shows text produced on demand by a Source: the standard
// output of a shell command, or one of the built-in system probes. The
// source runs at most once per cache-valid period.
type CommandBlock struct {
	base
	source Source
}

func NewCommandBlock(s Settings, d config.Block) (Block, error) {
	if d.Command == nil || strings.TrimSpace(*d.Command) == "" {
		return nil, fmt.Errorf("missing field %q", "command")
	}
	look, err := resolve(s, d)
	if err != nil {
		return nil, err
	}
	b := &CommandBlock{}
	b.init("command", s, look)
	b.source = shellSource{runner: b.runner, command: *d.Command, logger: b.logger}
	return b, nil
}

// newProbeBlock wraps a built-in source. defaultInterval is used unless the
// declaration sets an interval of its own, or [defaults] sets a non-zero
// one. An explicit interval = 0 on the block disables refreshing.
func newProbeBlock(name string, s Settings, d config.Block, src Source, defaultInterval time.Duration) (Block, error) {
	look, err := resolve(s, d)
	if err != nil {
		return nil, err
	}
	if d.Interval == nil && look.interval <= 0 {
		look.interval = defaultInterval
	}
	b := &CommandBlock{source: src}
	b.init(name, s, look)
	return b, nil
}

func (b *CommandBlock) Render() *pixel.Image {
	return b.render(func(hover bool) (*pixel.Image, error) {
		ctx := context.Background()
		if b.look.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, b.look.timeout)
			defer cancel()
		}
		sample, err := b.source.Sample(ctx)
		if err != nil {
			return nil, err
		}
		bg, fg := b.colors(hover)
		if c, ok := theme.ColorFor(sample.Severity); ok && !hover {
			fg = c
		}
		return renderText(sample.Text, &b.look, bg, fg)
	})
}

type shellSource struct {
	runner  Runner
	command string
	logger  *slog.Logger
}

func (s shellSource) Sample(ctx context.Context) (Sample, error) {
	out, err := s.runner.Output(ctx, s.command)
	if errors.Is(err, ErrExitStatus) {
		s.logger.Debug("command output", "error", err)
	} else if err != nil {
		return Sample{}, err
	}
	return Sample{Text: strings.ToValidUTF8(string(out), "\uFFFD")}, nil
}
