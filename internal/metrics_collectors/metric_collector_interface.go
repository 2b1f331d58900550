package metrics_collectors

import (
	"github.com/benmeehan/procbench/internal/models"
)

// ProcessCollector defines one strategy for sampling every process on the host.
type ProcessCollector interface {
	Name() string                                               // Name of the strategy (e.g., "procfs", "hybrid")
	Options() models.CollectorOptions                           // Optional fields this collector populates
	Snapshot() models.Snapshot                                  // Cheap pass: cumulative CPU ticks per pid
	Metrics(prev, curr models.Snapshot) []models.ProcessMetrics // Expensive pass: full record per pid seen in both snapshots
}
