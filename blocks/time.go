package blocks

import (
	"context"
	"time"

	"panelbar/config"
)

// clockSource formats the current time with a Go layout.
type clockSource struct {
	format string
	now    func() time.Time
}

// NewTimeBlock builds the "time" module. It refreshes every second unless
// an interval is configured.
func NewTimeBlock(s Settings, d config.Block) (Block, error) {
	src := clockSource{format: stringOr(d.Format, "15:04"), now: time.Now}
	return newProbeBlock("time", s, d, src, time.Second)
}

func (c clockSource) Sample(context.Context) (Sample, error) {
	return Sample{Text: c.now().Format(c.format)}, nil
}
