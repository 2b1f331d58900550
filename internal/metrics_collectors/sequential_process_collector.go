package metrics_collectors

import (
	"time"

	"github.com/benmeehan/procbench/internal/models"
	"github.com/benmeehan/procbench/internal/procfs"
	"github.com/rs/zerolog"
)

// SequentialCollector reads procfs one process at a time.
type SequentialCollector struct {
	env     *Environment
	options models.CollectorOptions
	logger  zerolog.Logger
}

// NewSequentialCollector creates a SequentialCollector over env.
func NewSequentialCollector(env *Environment, options models.CollectorOptions) *SequentialCollector {
	return &SequentialCollector{
		env:     env,
		options: options,
		logger:  env.Logger.With().Str("collector", StrategySequential).Logger(),
	}
}

func (s *SequentialCollector) Name() string {
	return StrategySequential
}

func (s *SequentialCollector) Options() models.CollectorOptions {
	return s.options
}

// Snapshot reads the CPU ticks of every visible process. Processes that exit
// mid-scan are silently left out.
func (s *SequentialCollector) Snapshot() models.Snapshot {
	now := time.Now()

	pids, err := procfs.ListPIDs(s.env.ProcRoot)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list processes")
		return models.Snapshot{}
	}

	snapshot := make(models.Snapshot, len(pids))
	for _, pid := range pids {
		if cpu, ok := s.env.readCPUSnapshot(pid, now); ok {
			snapshot[pid] = cpu
		}
	}

	s.logger.Debug().Int("processes", len(snapshot)).Msg("CPU snapshot collected")
	return snapshot
}

// Metrics builds a full record for every pid present in both snapshots.
func (s *SequentialCollector) Metrics(prev, curr models.Snapshot) []models.ProcessMetrics {
	result := make([]models.ProcessMetrics, 0, len(curr))

	for pid, currCPU := range curr {
		prevCPU, ok := prev[pid]
		if !ok {
			continue
		}
		if m, ok := s.env.collectProcess(pid, prevCPU, currCPU, s.options); ok {
			result = append(result, m)
		}
	}

	s.logger.Debug().Int("processes", len(result)).Msg("Process metrics collected")
	return result
}
