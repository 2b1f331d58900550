package benchmark

import (
	"os"
	"testing"

	"github.com/benmeehan/procbench/internal/metrics_collectors"
	"github.com/rs/zerolog"
)

func benchmarkRunner(b *testing.B, strategy string, topN int) {
	if _, err := os.Stat("/proc/self/stat"); os.IsNotExist(err) {
		b.Skip("Skipping: /proc not available")
	}
	env, err := metrics_collectors.LoadEnvironment(metrics_collectors.EnvironmentConfig{Logger: zerolog.Nop()})
	if err != nil {
		b.Skipf("Skipping: %v", err)
	}
	collector, err := metrics_collectors.DefaultRegistry().New(strategy, env, metrics_collectors.Settings{})
	if err != nil {
		b.Fatal(err)
	}
	r := NewRunner(0, topN, zerolog.Nop())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Run(collector, 1); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRunner_Sequential(b *testing.B) {
	benchmarkRunner(b, metrics_collectors.StrategySequential, 0)
}

func BenchmarkRunner_Concurrent(b *testing.B) {
	benchmarkRunner(b, metrics_collectors.StrategyConcurrent, 0)
}

func BenchmarkRunner_SequentialTop10(b *testing.B) {
	benchmarkRunner(b, metrics_collectors.StrategySequential, 10)
}
