// Package memcheck implements the available-memory precheck §5
// requires before a pass retains samples (quantile/mode bags): if the
// estimated working set exceeds free RAM minus a configurable
// headroom, the pass refuses to start rather than risk exhausting
// memory mid-pass.
package memcheck

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"colstats/domain/core"
)

// AvailableBytes reads free system memory from /proc/meminfo's
// MemAvailable line (Linux). ok is false when the file or field is
// unreadable (non-Linux platforms, sandboxes without /proc), in which
// case the caller falls back to skipping the precheck rather than
// blocking a pass it has no way to evaluate.
func AvailableBytes() (bytes uint64, ok bool) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemAvailable:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, false
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return kb * 1024, true
	}
	return 0, false
}

// RequireAvailable returns core.ErrInsufficientMem when estimatedBytes
// exceeds available free memory minus headroomPct, per §5's "free RAM
// minus a configurable headroom (default 20%)" gate. When free memory
// cannot be determined (no /proc/meminfo), the precheck is skipped and
// the pass proceeds, since there is no reliable signal to refuse on.
func RequireAvailable(estimatedBytes int64, headroomPct int) error {
	if estimatedBytes <= 0 {
		return nil
	}
	available, ok := AvailableBytes()
	if !ok {
		return nil
	}
	usable := available * uint64(100-headroomPct) / 100
	if uint64(estimatedBytes) > usable {
		return core.NewInsufficientMemError(estimatedBytes, int64(usable))
	}
	return nil
}
