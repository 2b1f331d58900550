package metrics_collectors

import (
	"time"

	"github.com/benmeehan/procbench/internal/models"
	"github.com/benmeehan/procbench/internal/procfs"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/process"
)

// HybridCollector takes its CPU snapshot through gopsutil's process API and
// reads the remaining fields straight from procfs. gopsutil always reads the
// host's /proc (or $HOST_PROC), whatever the environment's ProcRoot is.
type HybridCollector struct {
	env     *Environment
	options models.CollectorOptions
	logger  zerolog.Logger
}

// NewHybridCollector creates a HybridCollector over env.
func NewHybridCollector(env *Environment, options models.CollectorOptions) *HybridCollector {
	h := &HybridCollector{
		env:     env,
		options: options,
		logger:  env.Logger.With().Str("collector", StrategyHybrid).Logger(),
	}
	if env.ProcRoot != procfs.DefaultRoot {
		h.logger.Warn().Str("proc_root", env.ProcRoot).Msg("Hybrid snapshots ignore the configured proc root")
	}
	return h
}

func (h *HybridCollector) Name() string {
	return StrategyHybrid
}

func (h *HybridCollector) Options() models.CollectorOptions {
	return h.options
}

// Snapshot converts gopsutil's user+system CPU seconds to clock ticks so the
// delta model is the same as for the procfs strategies.
func (h *HybridCollector) Snapshot() models.Snapshot {
	now := time.Now()

	pids, err := process.Pids()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to retrieve process list")
		return models.Snapshot{}
	}

	snapshot := make(models.Snapshot, len(pids))
	for _, pid := range pids {
		proc, err := process.NewProcess(pid)
		if err != nil {
			continue
		}
		times, err := proc.Times()
		if err != nil {
			continue
		}
		ticks := secondsToTicks(times.User + times.System)
		snapshot[int(pid)] = models.CPUSnapshot{PID: int(pid), CPUTimeTicks: ticks, Timestamp: now}
	}

	h.logger.Debug().Int("processes", len(snapshot)).Msg("CPU snapshot collected")
	return snapshot
}

// Metrics builds a full record for every pid present in both snapshots,
// taking the process name from gopsutil when it is available.
func (h *HybridCollector) Metrics(prev, curr models.Snapshot) []models.ProcessMetrics {
	result := make([]models.ProcessMetrics, 0, len(curr))

	for pid, currCPU := range curr {
		prevCPU, ok := prev[pid]
		if !ok {
			continue
		}
		m, ok := h.env.collectProcess(pid, prevCPU, currCPU, h.options)
		if !ok {
			continue
		}
		if name, ok := h.processName(pid); ok {
			m.ProcessName = name
		}
		result = append(result, m)
	}

	h.logger.Debug().Int("processes", len(result)).Msg("Process metrics collected")
	return result
}

func (h *HybridCollector) processName(pid int) (string, bool) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", false
	}
	name, err := proc.Name()
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}
