package metrics_collectors

import (
	"runtime"
	"time"

	"github.com/benmeehan/procbench/internal/models"
	"github.com/benmeehan/procbench/internal/procfs"
	"github.com/benmeehan/procbench/internal/utils"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
)

// ConcurrentCollector fans the per-pid procfs reads out over a fixed-size
// worker pool and merges results into a sharded concurrent map.
type ConcurrentCollector struct {
	env     *Environment
	options models.CollectorOptions
	workers int
	logger  zerolog.Logger
}

// NewConcurrentCollector creates a ConcurrentCollector. workers <= 0 uses one
// worker per CPU.
func NewConcurrentCollector(env *Environment, options models.CollectorOptions, workers int) *ConcurrentCollector {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ConcurrentCollector{
		env:     env,
		options: options,
		workers: workers,
		logger:  env.Logger.With().Str("collector", StrategyConcurrent).Int("workers", workers).Logger(),
	}
}

func (c *ConcurrentCollector) Name() string {
	return StrategyConcurrent
}

func (c *ConcurrentCollector) Options() models.CollectorOptions {
	return c.options
}

// Workers returns the size of the worker pool used for each pass.
func (c *ConcurrentCollector) Workers() int {
	return c.workers
}

func shardByPID(pid int) uint32 {
	return uint32(pid)
}

// Snapshot reads the CPU ticks of every visible process in parallel.
func (c *ConcurrentCollector) Snapshot() models.Snapshot {
	now := time.Now()

	pids, err := procfs.ListPIDs(c.env.ProcRoot)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list processes")
		return models.Snapshot{}
	}

	acc := cmap.NewWithCustomShardingFunction[int, models.CPUSnapshot](shardByPID)
	pool := utils.NewWorkerPool(c.workers)
	for _, pid := range pids {
		pid := pid
		pool.Submit(func() {
			if cpu, ok := c.env.readCPUSnapshot(pid, now); ok {
				acc.Set(pid, cpu)
			}
		})
	}
	pool.Shutdown()

	snapshot := models.Snapshot(acc.Items())
	c.logger.Debug().Int("processes", len(snapshot)).Msg("CPU snapshot collected")
	return snapshot
}

// Metrics builds a full record for every pid present in both snapshots,
// in no particular order.
func (c *ConcurrentCollector) Metrics(prev, curr models.Snapshot) []models.ProcessMetrics {
	acc := cmap.NewWithCustomShardingFunction[int, models.ProcessMetrics](shardByPID)
	pool := utils.NewWorkerPool(c.workers)

	for pid, currCPU := range curr {
		prevCPU, ok := prev[pid]
		if !ok {
			continue
		}
		pid, currCPU := pid, currCPU
		pool.Submit(func() {
			if m, ok := c.env.collectProcess(pid, prevCPU, currCPU, c.options); ok {
				acc.Set(pid, m)
			}
		})
	}
	pool.Shutdown()

	result := make([]models.ProcessMetrics, 0, acc.Count())
	for item := range acc.IterBuffered() {
		result = append(result, item.Val)
	}

	c.logger.Debug().Int("processes", len(result)).Msg("Process metrics collected")
	return result
}
