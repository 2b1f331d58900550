// Package stats summarizes benchmark series and compares strategies.
package stats

import (
	"math"
	"sort"

	"github.com/benmeehan/procbench/internal/models"
)

// Summarize returns n, mean, nearest-rank median and p95, and max of values.
// An empty series yields the zero summary. values is not modified.
func Summarize(values []float64) models.StatsSummary {
	if len(values) == 0 {
		return models.StatsSummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return models.StatsSummary{
		N:      len(sorted),
		Mean:   sum / float64(len(sorted)),
		Median: Percentile(sorted, 50),
		P95:    Percentile(sorted, 95),
		Max:    sorted[len(sorted)-1],
	}
}

// Percentile returns the nearest-rank p-th percentile of an ascending slice:
// the element at clamp(ceil(p/100*n)-1, 0, n-1).
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	idx := int(math.Ceil(p/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

// BuildSummary aggregates the iterations of one collector run.
func BuildSummary(name string, results []models.IterationResult) models.PerfSummary {
	n := len(results)
	snap := make([]float64, n)
	met := make([]float64, n)
	tot := make([]float64, n)
	alloc := make([]float64, n)
	procSum := 0

	for i, r := range results {
		snap[i] = r.SnapshotMs
		met[i] = r.MetricsMs
		tot[i] = r.TotalMs
		alloc[i] = float64(r.AllocBytes)
		procSum += r.Processes
	}

	avgProcs := 0.0
	if n > 0 {
		avgProcs = float64(procSum) / float64(n)
	}

	summary := models.PerfSummary{
		Name:         name,
		Iterations:   n,
		AvgProcesses: avgProcs,
		Snapshot:     Summarize(snap),
		Metrics:      Summarize(met),
		Total:        Summarize(tot),
		Alloc:        Summarize(alloc),
	}
	summary.ThroughputProcPerSec = Throughput(avgProcs, summary.Total.Mean)
	return summary
}

// Throughput returns processes per second given a mean iteration time in ms.
func Throughput(avgProcesses, meanTotalMs float64) float64 {
	seconds := meanTotalMs / 1000
	if seconds <= 0 {
		return 0
	}
	return avgProcesses / seconds
}

// Compare reports how summary b differs from summary a.
func Compare(a, b models.PerfSummary) models.Comparison {
	return models.Comparison{
		A:               a.Name,
		B:               b.Name,
		Snapshot:        phaseDelta(a.Snapshot, b.Snapshot),
		Metrics:         phaseDelta(a.Metrics, b.Metrics),
		Total:           phaseDelta(a.Total, b.Total),
		AllocMeanDelta:  b.Alloc.Mean - a.Alloc.Mean,
		AllocMeanPct:    PercentChange(a.Alloc.Mean, b.Alloc.Mean),
		ThroughputA:     a.ThroughputProcPerSec,
		ThroughputB:     b.ThroughputProcPerSec,
		ThroughputDelta: b.ThroughputProcPerSec - a.ThroughputProcPerSec,
		ThroughputPct:   PercentChange(a.ThroughputProcPerSec, b.ThroughputProcPerSec),
	}
}

func phaseDelta(a, b models.StatsSummary) models.PhaseDelta {
	return models.PhaseDelta{
		MeanDelta: b.Mean - a.Mean,
		MeanPct:   PercentChange(a.Mean, b.Mean),
		P95Delta:  b.P95 - a.P95,
		P95Pct:    PercentChange(a.P95, b.P95),
	}
}

// PercentChange returns (to/from - 1) * 100, or 0 when from is not positive.
func PercentChange(from, to float64) float64 {
	if from <= 0 {
		return 0
	}
	return (to/from - 1) * 100
}
