package utils

import (
	"testing"

	"github.com/benmeehan/procbench/pkg/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_SampleFile(t *testing.T) {
	config, err := LoadConfig("../../configs/config.yaml", file.NewFileService())
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().Benchmark, config.Benchmark)
	assert.Equal(t, "/proc", config.Collector.ProcRoot)
	assert.Equal(t, DefaultLogLevel, config.Logging.Level)
}
