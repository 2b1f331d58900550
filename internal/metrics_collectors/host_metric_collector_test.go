package metrics_collectors

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestHostMetricCollector_Collect(t *testing.T) {
	host := &HostMetricCollector{Logger: zerolog.Nop()}

	host.Collect()
	sample := host.Collect()

	assert.GreaterOrEqual(t, sample.CPUPercent, 0.0)
	assert.LessOrEqual(t, sample.CPUPercent, 100.0)
	assert.GreaterOrEqual(t, sample.MemoryUsedPercent, 0.0)
	assert.LessOrEqual(t, sample.MemoryUsedPercent, 100.0)
	assert.Greater(t, sample.Goroutines, 0)
}
