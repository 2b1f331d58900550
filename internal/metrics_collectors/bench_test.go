package metrics_collectors

import (
	"os"
	"testing"

	"github.com/benmeehan/procbench/internal/models"
	"github.com/rs/zerolog"
)

func benchmarkEnv(b *testing.B) *Environment {
	if _, err := os.Stat("/proc/self/stat"); os.IsNotExist(err) {
		b.Skip("Skipping: /proc not available")
	}
	env, err := LoadEnvironment(EnvironmentConfig{Logger: zerolog.Nop()})
	if err != nil {
		b.Skipf("Skipping: %v", err)
	}
	return env
}

func benchmarkSnapshot(b *testing.B, c ProcessCollector) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Snapshot()
	}
}

func benchmarkMetrics(b *testing.B, c ProcessCollector) {
	prev := c.Snapshot()
	curr := c.Snapshot()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Metrics(prev, curr)
	}
}

func BenchmarkSequentialCollector_Snapshot(b *testing.B) {
	benchmarkSnapshot(b, NewSequentialCollector(benchmarkEnv(b), models.CollectorOptions{}))
}

func BenchmarkConcurrentCollector_Snapshot(b *testing.B) {
	benchmarkSnapshot(b, NewConcurrentCollector(benchmarkEnv(b), models.CollectorOptions{}, 0))
}

func BenchmarkHybridCollector_Snapshot(b *testing.B) {
	benchmarkSnapshot(b, NewHybridCollector(benchmarkEnv(b), models.CollectorOptions{}))
}

func BenchmarkSequentialCollector_Metrics(b *testing.B) {
	benchmarkMetrics(b, NewSequentialCollector(benchmarkEnv(b), models.CollectorOptions{}))
}

func BenchmarkConcurrentCollector_Metrics(b *testing.B) {
	benchmarkMetrics(b, NewConcurrentCollector(benchmarkEnv(b), models.CollectorOptions{}, 0))
}

func BenchmarkSequentialCollector_MetricsAllFields(b *testing.B) {
	opts := models.CollectorOptions{IncludeVMS: true, IncludeThreads: true, IncludeReadBytes: true}
	benchmarkMetrics(b, NewSequentialCollector(benchmarkEnv(b), opts))
}
