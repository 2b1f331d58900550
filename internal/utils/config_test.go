package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benmeehan/procbench/pkg/file"
	"github.com/benmeehan/procbench/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
collector:
  proc_root: /host/proc
  passwd_path: /host/etc/passwd
  cores: 8
  workers: 16
  options:
    include_vms: true
    include_threads: true
benchmark:
  iterations: 20
  interval: 250ms
  top_n: 25
  strategies: [procfs, hybrid]
output:
  csv: true
  chart_file: latency.html
logging:
  level: debug
`

func TestLoadConfig(t *testing.T) {
	fileClient := new(mocks.FileOperations)
	fileClient.On("IsFileExists", "config.yaml").Return(true, nil)
	fileClient.On("ReadYamlFile", "config.yaml", mock.Anything).Return(sampleConfig, nil)

	config, err := LoadConfig("config.yaml", fileClient)
	require.NoError(t, err)

	assert.Equal(t, "/host/proc", config.Collector.ProcRoot)
	assert.Equal(t, "/host/etc/passwd", config.Collector.PasswdPath)
	assert.Equal(t, 8, config.Collector.Cores)
	assert.Equal(t, 16, config.Collector.Workers)
	assert.True(t, config.Collector.Options.IncludeVMS)
	assert.True(t, config.Collector.Options.IncludeThreads)
	assert.False(t, config.Collector.Options.IncludeReadBytes)
	assert.Equal(t, 20, config.Benchmark.Iterations)
	assert.Equal(t, 250*time.Millisecond, config.Benchmark.Interval)
	assert.Equal(t, 25, config.Benchmark.TopN)
	assert.Equal(t, []string{"procfs", "hybrid"}, config.Benchmark.Strategies)
	assert.True(t, config.Output.CSV)
	assert.Equal(t, "latency.html", config.Output.ChartFile)
	assert.Equal(t, "debug", config.Logging.Level)
	fileClient.AssertExpectations(t)
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	fileClient := new(mocks.FileOperations)
	fileClient.On("IsFileExists", "config.yaml").Return(true, nil)
	fileClient.On("ReadYamlFile", "config.yaml", mock.Anything).Return("collector:\n  workers: 2\n", nil)

	config, err := LoadConfig("config.yaml", fileClient)
	require.NoError(t, err)

	assert.Equal(t, 2, config.Collector.Workers)
	assert.Equal(t, DefaultIterations, config.Benchmark.Iterations)
	assert.Equal(t, DefaultInterval, config.Benchmark.Interval)
	assert.Equal(t, DefaultStrategies, config.Benchmark.Strategies)
	assert.Equal(t, DefaultLogLevel, config.Logging.Level)
}

func TestLoadConfig_ReadError(t *testing.T) {
	fileClient := new(mocks.FileOperations)
	fileClient.On("IsFileExists", "broken.yaml").Return(true, nil)
	fileClient.On("ReadYamlFile", "broken.yaml", mock.Anything).Return("", os.ErrPermission)

	_, err := LoadConfig("broken.yaml", fileClient)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "failed to read config file broken.yaml")
}

func TestLoadConfig_NotFound(t *testing.T) {
	fileClient := new(mocks.FileOperations)
	fileClient.On("IsFileExists", "missing.yaml").Return(false, nil)

	_, err := LoadConfig("missing.yaml", fileClient)
	assert.EqualError(t, err, "config file missing.yaml not found")
	fileClient.AssertNotCalled(t, "ReadYamlFile", mock.Anything, mock.Anything)
}

func TestLoadConfig_StatError(t *testing.T) {
	fileClient := new(mocks.FileOperations)
	fileClient.On("IsFileExists", "config.yaml").Return(false, os.ErrPermission)

	_, err := LoadConfig("config.yaml", fileClient)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "failed to check config file config.yaml")
}

func TestLoadConfig_Invalid(t *testing.T) {
	fileClient := new(mocks.FileOperations)
	fileClient.On("IsFileExists", "config.yaml").Return(true, nil)
	fileClient.On("ReadYamlFile", "config.yaml", mock.Anything).Return("benchmark:\n  top_n: -1\n", nil)

	_, err := LoadConfig("config.yaml", fileClient)
	assert.ErrorContains(t, err, "top_n must not be negative")
}

func TestLoadConfig_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("benchmark:\n  iterationz: 5\n"), 0o644))

	_, err := LoadConfig(path, file.NewFileService())
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, DefaultIterations, config.Benchmark.Iterations)
	assert.Equal(t, DefaultInterval, config.Benchmark.Interval)
	assert.Zero(t, config.Benchmark.TopN)
	assert.Equal(t, DefaultStrategies, config.Benchmark.Strategies)
	assert.NoError(t, config.Validate())

	config.Benchmark.Strategies[0] = "hybrid"
	assert.Equal(t, "procfs", DefaultStrategies[0])
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		err    string
	}{
		{"negative iterations", func(c *Config) { c.Benchmark.Iterations = -1 }, "iterations must not be negative"},
		{"negative interval", func(c *Config) { c.Benchmark.Interval = -time.Second }, "interval must not be negative"},
		{"negative workers", func(c *Config) { c.Collector.Workers = -2 }, "workers must not be negative"},
		{"negative cores", func(c *Config) { c.Collector.Cores = -1 }, "cores must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			require.Error(t, err)
			assert.EqualError(t, err, tt.err)
		})
	}

	config := DefaultConfig()
	config.Benchmark.Iterations = 0
	assert.NoError(t, config.Validate(), "zero iterations is a valid explicit choice")
}
