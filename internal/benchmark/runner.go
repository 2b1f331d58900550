// Package benchmark drives timed collection iterations against a collector.
package benchmark

import (
	"errors"
	"runtime"
	"sort"
	"time"

	"github.com/benmeehan/procbench/internal/metrics_collectors"
	"github.com/benmeehan/procbench/internal/models"
	"github.com/benmeehan/procbench/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNegativeIterations is returned by Run for a negative iteration count.
var ErrNegativeIterations = errors.New("iterations must not be negative")

// Runner measures a collector over repeated iterations. Iterations never
// overlap: the runner is single-threaded and sleeps between them.
type Runner struct {
	Interval time.Duration // pause between iterations, minus the iteration's own duration
	TopN     int           // when > 0, only the TopN busiest pids go through Metrics
	Logger   zerolog.Logger

	Sleep        func(time.Duration) // defaults to time.Sleep
	AllocCounter func() uint64       // cumulative allocated bytes, defaults to runtime.MemStats.TotalAlloc
}

// NewRunner creates a Runner with the default sleep and allocation counter.
func NewRunner(interval time.Duration, topN int, logger zerolog.Logger) *Runner {
	return &Runner{
		Interval:     interval,
		TopN:         topN,
		Logger:       logger,
		Sleep:        time.Sleep,
		AllocCounter: TotalAllocBytes,
	}
}

// TotalAllocBytes returns the cumulative bytes allocated for heap objects.
func TotalAllocBytes() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.TotalAlloc
}

// Run takes one unmeasured warm-up snapshot, then records exactly
// iterations results numbered from 1.
func (r *Runner) Run(collector metrics_collectors.ProcessCollector, iterations int) ([]models.IterationResult, error) {
	if iterations < 0 {
		return nil, ErrNegativeIterations
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	allocCounter := r.AllocCounter
	if allocCounter == nil {
		allocCounter = TotalAllocBytes
	}

	logger := r.Logger.With().
		Str("run_id", uuid.New().String()).
		Str("collector", collector.Name()).
		Logger()
	logger.Info().Int("iterations", iterations).Dur("interval", r.Interval).Int("top_n", r.TopN).Msg("Starting benchmark run")

	// Warm-up: primes lazy state and gives the first iteration a previous snapshot.
	prev := collector.Snapshot()
	sleep(r.Interval)

	results := make([]models.IterationResult, 0, iterations)
	for i := 1; i <= iterations; i++ {
		allocBefore := allocCounter()

		snapStart := time.Now()
		curr := collector.Snapshot()
		snapshotElapsed := time.Since(snapStart)

		metricsStart := time.Now()
		target := curr
		if r.TopN > 0 {
			target = Restrict(curr, SelectTopN(prev, curr, r.TopN))
		}
		metrics := collector.Metrics(prev, target)
		metricsElapsed := time.Since(metricsStart)

		allocAfter := allocCounter()

		result := models.IterationResult{
			Iteration:  i,
			Processes:  len(metrics),
			SnapshotMs: utils.Milliseconds(snapshotElapsed),
			MetricsMs:  utils.Milliseconds(metricsElapsed),
			AllocBytes: int64(allocAfter - allocBefore),
		}
		result.TotalMs = result.SnapshotMs + result.MetricsMs
		results = append(results, result)

		logger.Debug().
			Int("iteration", i).
			Int("processes", result.Processes).
			Float64("snapshot_ms", result.SnapshotMs).
			Float64("metrics_ms", result.MetricsMs).
			Int64("alloc_bytes", result.AllocBytes).
			Msg("Iteration completed")

		prev = curr

		if i < iterations {
			if remaining := r.Interval - (snapshotElapsed + metricsElapsed); remaining > 0 {
				sleep(remaining)
			}
		}
	}

	logger.Info().Int("iterations", len(results)).Msg("Benchmark run completed")
	return results, nil
}

// SelectTopN returns up to n pids present in both snapshots, ordered by CPU
// percent descending; ties keep ascending pid order. Core count scales every
// percentage equally, so ranking uses a single core.
func SelectTopN(prev, curr models.Snapshot, n int) []int {
	if n <= 0 {
		return nil
	}

	type ranked struct {
		pid int
		cpu float64
	}
	candidates := make([]ranked, 0, len(curr))
	for pid, c := range curr {
		p, ok := prev[pid]
		if !ok {
			continue
		}
		candidates = append(candidates, ranked{pid: pid, cpu: metrics_collectors.CPUPercent(p, c, 1)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].cpu != candidates[j].cpu {
			return candidates[i].cpu > candidates[j].cpu
		}
		return candidates[i].pid < candidates[j].pid
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	pids := make([]int, len(candidates))
	for i, c := range candidates {
		pids[i] = c.pid
	}
	return pids
}

// Restrict returns the entries of snapshot whose pid is in pids.
func Restrict(snapshot models.Snapshot, pids []int) models.Snapshot {
	keep := utils.SliceToSet(pids)
	restricted := make(models.Snapshot, len(keep))
	for pid, s := range snapshot {
		if _, ok := keep[pid]; ok {
			restricted[pid] = s
		}
	}
	return restricted
}
