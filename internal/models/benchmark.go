package models

// IterationResult is one measured benchmark iteration.
type IterationResult struct {
	Iteration  int     `json:"iteration"`   // 1-based
	Processes  int     `json:"processes"`   // number of ProcessMetrics emitted
	SnapshotMs float64 `json:"snapshot_ms"` // time spent in Snapshot
	MetricsMs  float64 `json:"metrics_ms"`  // time spent in Metrics
	TotalMs    float64 `json:"total_ms"`    // SnapshotMs + MetricsMs
	AllocBytes int64   `json:"alloc_bytes"` // heap bytes allocated during the iteration
}

// StatsSummary is a distributional aggregate over one measurement series.
type StatsSummary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// PerfSummary aggregates all iterations of one collector run.
type PerfSummary struct {
	Name                 string       `json:"name"`
	Iterations           int          `json:"iterations"`
	AvgProcesses         float64      `json:"avg_processes"`
	Snapshot             StatsSummary `json:"snapshot"`
	Metrics              StatsSummary `json:"metrics"`
	Total                StatsSummary `json:"total"`
	Alloc                StatsSummary `json:"alloc"`
	ThroughputProcPerSec float64      `json:"throughput_proc_per_sec"`
	Host                 *HostSample  `json:"host,omitempty"` // host load right after the run
}

// HostSample is a coarse picture of how busy the host was, so runs taken
// under different load are not compared blindly.
type HostSample struct {
	CPUPercent        float64 `json:"cpu_percent"`         // system-wide, since the previous sample
	MemoryUsedPercent float64 `json:"memory_used_percent"` // of total virtual memory
	Goroutines        int     `json:"goroutines"`          // of this process
}

// PhaseDelta compares one phase of two runs, B relative to A.
type PhaseDelta struct {
	MeanDelta float64 `json:"mean_delta"`
	MeanPct   float64 `json:"mean_pct"`
	P95Delta  float64 `json:"p95_delta"`
	P95Pct    float64 `json:"p95_pct"`
}

// Comparison is the delta of PerfSummary B against PerfSummary A.
type Comparison struct {
	A string `json:"a"`
	B string `json:"b"`

	Snapshot PhaseDelta `json:"snapshot"`
	Metrics  PhaseDelta `json:"metrics"`
	Total    PhaseDelta `json:"total"`

	AllocMeanDelta float64 `json:"alloc_mean_delta"`
	AllocMeanPct   float64 `json:"alloc_mean_pct"`

	ThroughputA     float64 `json:"throughput_a"`
	ThroughputB     float64 `json:"throughput_b"`
	ThroughputDelta float64 `json:"throughput_delta"`
	ThroughputPct   float64 `json:"throughput_pct"`
}
