package metrics_collectors

import (
	"runtime"

	"github.com/benmeehan/procbench/internal/models"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// HostMetricCollector samples system-wide load between benchmark runs.
type HostMetricCollector struct {
	Logger zerolog.Logger
}

// Collect returns the current host load. CPU usage is measured since the
// previous call (or boot, on the first call). Failed readings stay zero.
func (h *HostMetricCollector) Collect() models.HostSample {
	sample := models.HostSample{Goroutines: runtime.NumGoroutine()}

	cpuPercentages, err := cpu.Percent(0, false)
	switch {
	case err != nil:
		h.Logger.Warn().Err(err).Msg("Failed to get CPU usage")
	case len(cpuPercentages) == 0:
		h.Logger.Warn().Msg("CPU usage data is empty")
	default:
		sample.CPUPercent = cpuPercentages[0]
	}

	memStats, err := mem.VirtualMemory()
	if err != nil {
		h.Logger.Warn().Err(err).Msg("Failed to retrieve memory statistics")
	} else {
		sample.MemoryUsedPercent = memStats.UsedPercent
	}

	h.Logger.Debug().
		Float64("cpu_usage", sample.CPUPercent).
		Float64("memory_usage_percent", sample.MemoryUsedPercent).
		Int("goroutines", sample.Goroutines).
		Msg("Host load collected")
	return sample
}
