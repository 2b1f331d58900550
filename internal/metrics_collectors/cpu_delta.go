package metrics_collectors

import (
	"math"
	"time"

	"github.com/benmeehan/procbench/internal/models"
)

// ClockTicksPerSecond is the assumed USER_HZ. The kernel value is not
// queried; 100 is what every mainstream architecture reports, but a kernel
// configured otherwise skews CPU percent by a constant factor.
const ClockTicksPerSecond = 100

// CPUPercent returns the CPU utilization of a process between two snapshots,
// normalized to the number of cores. It is 0 when no time elapsed or the
// tick counter did not advance (including a pid reused with a lower counter).
// There is no upper clamp: bursts may briefly exceed 100%.
func CPUPercent(prev, curr models.CPUSnapshot, cores int) float64 {
	dt := curr.Timestamp.Sub(prev.Timestamp).Seconds()
	if dt <= 0 {
		return 0
	}

	dTicks := curr.CPUTimeTicks - prev.CPUTimeTicks
	if dTicks <= 0 {
		return 0
	}

	if cores <= 0 {
		cores = 1
	}

	cpuSeconds := float64(dTicks) / ClockTicksPerSecond
	percent := cpuSeconds / (dt * float64(cores)) * 100
	if percent < 0 {
		return 0
	}
	return percent
}

// ticksToDuration converts clock ticks to a duration.
func ticksToDuration(ticks int64) time.Duration {
	return time.Duration(ticks) * (time.Second / ClockTicksPerSecond)
}

// secondsToTicks converts CPU seconds to clock ticks, rounding to the nearest
// tick since values like 0.29s do not survive float multiplication exactly.
func secondsToTicks(seconds float64) int64 {
	return int64(math.Round(seconds * ClockTicksPerSecond))
}
