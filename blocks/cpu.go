package blocks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"panelbar/config"
	"panelbar/theme"
)

// cpuSource reports aggregate CPU utilization from /proc/stat deltas.
type cpuSource struct {
	path      string
	prefix    string
	warn      float64
	danger    float64
	precision int

	mu          sync.Mutex
	prevTotal   uint64
	prevIdle    uint64
	havePrev    bool
	lastPercent float64
}

// NewCPUBlock builds the "cpu" module. It refreshes every 2s unless an
// interval is configured.
func NewCPUBlock(s Settings, d config.Block) (Block, error) {
	warn, danger, precision := thresholds(d)
	src := &cpuSource{
		path:      "/proc/stat",
		prefix:    stringOr(d.Prefix, "CPU"),
		warn:      warn,
		danger:    danger,
		precision: precision,
	}
	return newProbeBlock("cpu", s, d, src, 2*time.Second)
}

func (c *cpuSource) Sample(context.Context) (Sample, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields, err := readProcStat(c.path)
	if err != nil {
		return Sample{}, err
	}
	// user nice system idle iowait irq softirq steal
	idleAll := fields[3] + fields[4]
	total := idleAll + fields[0] + fields[1] + fields[2] + fields[5] + fields[6] + fields[7]

	percent := c.lastPercent
	if c.havePrev {
		if deltaTotal := float64(total - c.prevTotal); deltaTotal > 0 {
			percent = (deltaTotal - float64(idleAll-c.prevIdle)) / deltaTotal * 100
		}
	}
	c.prevTotal, c.prevIdle, c.havePrev, c.lastPercent = total, idleAll, true, percent

	return Sample{
		Text:     c.prefix + " " + formatPercent(percent, c.precision),
		Severity: theme.Classify(percent, c.warn, c.danger),
	}, nil
}

// readProcStat returns the first eight counters of the aggregate cpu line.
func readProcStat(path string) ([8]uint64, error) {
	var out [8]uint64
	f, err := os.Open(path)
	if err != nil {
		return out, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return out, fmt.Errorf("read %s: %w", path, err)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "cpu" {
		return out, errors.New("no cpu prefix")
	}
	if len(fields) < 9 {
		return out, errors.New("short cpu stat")
	}
	for i := range out {
		if out[i], err = strconv.ParseUint(fields[i+1], 10, 64); err != nil {
			return out, fmt.Errorf("cpu stat field %d: %w", i+1, err)
		}
	}
	return out, nil
}

func formatPercent(p float64, precision int) string {
	if precision == 0 {
		return strconv.FormatInt(int64(p+0.5), 10) + "%"
	}
	return fmt.Sprintf("%.1f%%", p)
}

// thresholds applies the warn/danger/precision defaults: warn 70, danger at
// least warn+10 and at most 100, precision 0 or 1.
func thresholds(d config.Block) (warn, danger float64, precision int) {
	w := 70
	if d.Warn != nil && *d.Warn > 0 {
		w = *d.Warn
	}
	dg := 0
	if d.Danger != nil {
		dg = *d.Danger
	}
	if dg <= w {
		dg = w + 10
	}
	dg = min(dg, 100)
	if d.Precision != nil && *d.Precision == 1 {
		precision = 1
	}
	return float64(w), float64(dg), precision
}

func stringOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}
