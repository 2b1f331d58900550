package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/benmeehan/procbench/internal/models"
	"github.com/benmeehan/procbench/pkg/file"
)

// Config represents the structure of the configuration file.
type Config struct {
	Collector struct {
		ProcRoot   string                  `yaml:"proc_root"`   // Mount point of procfs
		PasswdPath string                  `yaml:"passwd_path"` // User database used to resolve uids
		Cores      int                     `yaml:"cores"`       // Core count for CPU normalization (0 = detect)
		Workers    int                     `yaml:"workers"`     // Worker pool size of concurrent strategies (0 = NumCPU)
		Options    models.CollectorOptions `yaml:"options"`     // Optional per-process fields
	} `yaml:"collector"`

	Benchmark struct {
		Iterations int           `yaml:"iterations"` // Measured iterations per strategy
		Interval   time.Duration `yaml:"interval"`   // Pause between iterations
		TopN       int           `yaml:"top_n"`      // Only collect metrics of the N busiest processes (0 = all)
		Strategies []string      `yaml:"strategies"` // Strategies to compare, A first
	} `yaml:"benchmark"`

	Output struct {
		CSV       bool   `yaml:"csv"`        // Print per-iteration CSV rows
		ChartFile string `yaml:"chart_file"` // Write an HTML latency chart when set
	} `yaml:"output"`

	Logging struct {
		Level string `yaml:"level"` // zerolog level name
	} `yaml:"logging"`
}

// Defaults used when neither the file nor the flags set a value.
const (
	DefaultIterations = 50
	DefaultInterval   = time.Second
	DefaultLogLevel   = "info"
)

// DefaultStrategies are compared when no strategies are configured.
var DefaultStrategies = []string{"procfs", "procfs-parallel"}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	config := &Config{}
	config.ApplyDefaults()
	return config
}

// LoadConfig loads the YAML configuration from the specified file.
// It returns a pointer to the Config struct and an error if loading fails.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	exists, err := fileClient.IsFileExists(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to check config file %s: %w", filename, err)
	}
	if !exists {
		return nil, fmt.Errorf("config file %s not found", filename)
	}

	var config Config
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}

	return &config, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Benchmark.Iterations == 0 {
		c.Benchmark.Iterations = DefaultIterations
	}
	if c.Benchmark.Interval == 0 {
		c.Benchmark.Interval = DefaultInterval
	}
	if len(c.Benchmark.Strategies) == 0 {
		c.Benchmark.Strategies = append([]string(nil), DefaultStrategies...)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// Validate rejects values the benchmark cannot run with.
func (c *Config) Validate() error {
	if c.Benchmark.Iterations < 0 {
		return errors.New("iterations must not be negative")
	}
	if c.Benchmark.Interval < 0 {
		return errors.New("interval must not be negative")
	}
	if c.Benchmark.TopN < 0 {
		return errors.New("top_n must not be negative")
	}
	if c.Collector.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.Collector.Cores < 0 {
		return errors.New("cores must not be negative")
	}
	return nil
}
