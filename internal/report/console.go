// Package report renders benchmark results for people: console summaries,
// CSV rows and an HTML latency chart.
package report

import (
	"fmt"
	"io"

	"github.com/benmeehan/procbench/internal/models"
)

const bytesPerKilobyte = 1024.0

func phaseLine(label string, s models.StatsSummary) string {
	return fmt.Sprintf("%-10s mean %7.2f ms | med %6.2f ms | p95 %6.2f ms | max %6.2f ms", label, s.Mean, s.Median, s.P95, s.Max)
}

func deltaLine(label string, d models.PhaseDelta) string {
	return fmt.Sprintf("%-10s mean %7.2f ms (%6.1f%%) | p95 %6.2f ms (%6.1f%%)", label, d.MeanDelta, d.MeanPct, d.P95Delta, d.P95Pct)
}

// WriteSummary prints one strategy's summary.
func WriteSummary(w io.Writer, s models.PerfSummary) error {
	if s.Iterations == 0 {
		_, err := fmt.Fprintf(w, "\n==== %s summary ====\nNo results.\n", s.Name)
		return err
	}

	_, err := fmt.Fprintf(w, "\n==== %s summary ====\n"+
		"Iterations: %d, Avg processes: %.0f\n\n"+
		"%s\n%s\n%s\n\n"+
		"alloc      mean %7.1f KB | p95 %6.1f KB | max %6.1f KB\n"+
		"throughput ~ %.0f processes/sec\n"+
		"========================\n",
		s.Name,
		s.Iterations, s.AvgProcesses,
		phaseLine("snapshot", s.Snapshot), phaseLine("metrics", s.Metrics), phaseLine("total", s.Total),
		s.Alloc.Mean/bytesPerKilobyte, s.Alloc.P95/bytesPerKilobyte, s.Alloc.Max/bytesPerKilobyte,
		s.ThroughputProcPerSec,
	)
	if err != nil || s.Host == nil {
		return err
	}

	_, err = fmt.Fprintf(w, "host       cpu %.1f%% | mem %.1f%% | goroutines %d\n",
		s.Host.CPUPercent, s.Host.MemoryUsedPercent, s.Host.Goroutines)
	return err
}

// WriteComparison prints how strategy B performed relative to strategy A.
func WriteComparison(w io.Writer, c models.Comparison) error {
	_, err := fmt.Fprintf(w, "\n==== delta (B vs A) ====\n"+
		"A = %s\nB = %s\n\n"+
		"%s\n%s\n%s\n\n"+
		"alloc mean  %.1f KB (%.1f%%)\n"+
		"tput        %.0f proc/s (%.1f%%)\n"+
		"========================\n",
		c.A, c.B,
		deltaLine("snapshot", c.Snapshot), deltaLine("metrics", c.Metrics), deltaLine("total", c.Total),
		c.AllocMeanDelta/bytesPerKilobyte, c.AllocMeanPct,
		c.ThroughputDelta, c.ThroughputPct,
	)
	return err
}
