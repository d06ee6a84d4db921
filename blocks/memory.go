package blocks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"panelbar/config"
	"panelbar/theme"
)

// memorySource reports memory utilization or availability from
// /proc/meminfo.
type memorySource struct {
	path      string
	prefix    string
	format    string // percent|available|used
	warn      float64
	danger    float64
	precision int
}

// NewMemoryBlock builds the "mem" module. It refreshes every 5s unless an
// interval is configured.
func NewMemoryBlock(s Settings, d config.Block) (Block, error) {
	format := strings.ToLower(stringOr(d.Format, "percent"))
	switch format {
	case "percent", "available", "used":
	default:
		return nil, fmt.Errorf("field %q: want percent, available or used, got %q", "format", format)
	}
	warn, danger, precision := thresholds(d)
	src := &memorySource{
		path:      "/proc/meminfo",
		prefix:    stringOr(d.Prefix, "MEM"),
		format:    format,
		warn:      warn,
		danger:    danger,
		precision: precision,
	}
	return newProbeBlock("mem", s, d, src, 5*time.Second)
}

func (m *memorySource) Sample(context.Context) (Sample, error) {
	total, available, err := readMemInfo(m.path)
	if err != nil {
		return Sample{}, err
	}
	used := total - available
	percent := float64(used) / float64(total) * 100

	var text string
	switch m.format {
	case "available":
		text = fmt.Sprintf("%s %s free", m.prefix, humanBytes(available))
	case "used":
		text = fmt.Sprintf("%s %s used", m.prefix, humanBytes(used))
	default:
		text = m.prefix + " " + formatPercent(percent, m.precision)
	}
	return Sample{Text: text, Severity: theme.Classify(percent, m.warn, m.danger)}, nil
}

// readMemInfo returns total and available memory in bytes. Kernels without
// MemAvailable fall back to MemFree + Buffers + Cached.
func readMemInfo(path string) (total, available uint64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	values := map[string]uint64{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		// Key:  Value kB
		key, rest, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		if v, err := strconv.ParseUint(fields[0], 10, 64); err == nil {
			values[key] = v
		}
	}
	if err := sc.Err(); err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", path, err)
	}

	total = values["MemTotal"]
	if total == 0 {
		return 0, 0, errors.New("no MemTotal")
	}
	available, ok := values["MemAvailable"]
	if !ok {
		available = values["MemFree"] + values["Buffers"] + values["Cached"]
	}
	available = min(available, total)
	return total * 1024, available * 1024, nil
}

// humanBytes converts bytes to a short human string (KiB, MiB, GiB) with up to one decimal.
func humanBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit && exp < 4; n /= unit {
		div *= unit
		exp++
	}
	value := float64(b) / float64(div)
	if value < 10 {
		return fmt.Sprintf("%.1f%ciB", value, "KMGTPE"[exp])
	}
	return fmt.Sprintf("%.0f%ciB", value, "KMGTPE"[exp])
}
