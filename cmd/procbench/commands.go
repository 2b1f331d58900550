package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/benmeehan/procbench/internal/benchmark"
	"github.com/benmeehan/procbench/internal/metrics_collectors"
	"github.com/benmeehan/procbench/internal/models"
	"github.com/benmeehan/procbench/internal/report"
	"github.com/benmeehan/procbench/internal/stats"
	"github.com/benmeehan/procbench/internal/utils"
	"github.com/benmeehan/procbench/pkg/file"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cliFlags holds raw flag values; only flags the user set override the config file.
type cliFlags struct {
	configFile string
	iterations int
	interval   time.Duration
	vms        bool
	threads    bool
	io         bool
	csv        bool
	topN       int
	workers    int
	procRoot   string
	chartFile  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	f := &cliFlags{}

	root := &cobra.Command{
		Use:   "procbench",
		Short: "Benchmark per-process metrics collection strategies on procfs",
		Long: `procbench samples every process through /proc, derives CPU percent from
tick deltas, and measures how long and how much memory each collection
strategy needs per iteration.

Without a subcommand it compares the configured strategies.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, f, args)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&f.configFile, "config", "", "YAML configuration file")
	flags.IntVarP(&f.iterations, "iterations", "n", utils.DefaultIterations, "Measured iterations per strategy")
	flags.DurationVar(&f.interval, "interval", utils.DefaultInterval, "Pause between iterations")
	flags.BoolVar(&f.vms, "vms", false, "Collect virtual memory size")
	flags.BoolVar(&f.threads, "threads", false, "Collect thread counts")
	flags.BoolVar(&f.io, "io", false, "Collect read bytes from /proc/[pid]/io")
	flags.BoolVar(&f.csv, "csv", false, "Print per-iteration CSV rows")
	flags.IntVar(&f.topN, "top", 0, "Only collect metrics for the N busiest processes (0 = all)")
	flags.IntVar(&f.workers, "workers", 0, "Worker pool size for concurrent strategies (0 = NumCPU)")
	flags.StringVar(&f.procRoot, "proc-root", "", "Mount point of procfs")
	flags.StringVar(&f.chartFile, "chart", "", "Write an HTML latency chart to this file")
	flags.StringVar(&f.logLevel, "log-level", utils.DefaultLogLevel, "Log level (debug, info, warn, error)")

	root.AddCommand(
		newCompareCmd(f),
		newRunCmd(f),
		newStrategiesCmd(),
	)

	return root
}

func newCompareCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compare [strategyA strategyB]",
		Short: "Run two strategies and report B relative to A",
		Example: `  procbench compare -n 40 --interval 500ms --vms --threads
  procbench compare procfs hybrid --io --csv`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return errors.New("compare takes either no strategies or exactly two")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, f, args)
		},
	}
}

func newRunCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "run <strategy>",
		Short:   "Run a single strategy and print its summary",
		Example: `  procbench run procfs-parallel -n 50 --interval 1s --workers 8 --csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := f.resolve(cmd)
			if err != nil {
				return err
			}

			env, err := loadEnvironment(config, logger)
			if err != nil {
				return err
			}

			host := newHostCollector(logger)
			run, summary, err := runStrategy(cmd.OutOrStdout(), config, env, host, args[0], logger)
			if err != nil {
				return err
			}
			if err := report.WriteSummary(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			return writeChart(file.NewFileService(), config, []report.Run{run}, logger)
		},
	}
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the available collection strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range metrics_collectors.DefaultRegistry().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func runCompare(cmd *cobra.Command, f *cliFlags, args []string) error {
	config, logger, err := f.resolve(cmd)
	if err != nil {
		return err
	}

	strategies := config.Benchmark.Strategies
	if len(args) == 2 {
		strategies = args
	}
	if len(strategies) != 2 {
		return fmt.Errorf("compare needs exactly two strategies, got %d", len(strategies))
	}

	env, err := loadEnvironment(config, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	host := newHostCollector(logger)
	runs := make([]report.Run, 0, len(strategies))
	summaries := make([]models.PerfSummary, 0, len(strategies))
	for _, name := range strategies {
		run, summary, err := runStrategy(out, config, env, host, name, logger)
		if err != nil {
			return err
		}
		runs = append(runs, run)
		summaries = append(summaries, summary)
	}

	for _, s := range summaries {
		if err := report.WriteSummary(out, s); err != nil {
			return err
		}
	}
	if err := report.WriteComparison(out, stats.Compare(summaries[0], summaries[1])); err != nil {
		return err
	}

	return writeChart(file.NewFileService(), config, runs, logger)
}

// resolve merges the config file, when given, with the flags the user set.
func (f *cliFlags) resolve(cmd *cobra.Command) (*utils.Config, zerolog.Logger, error) {
	config := utils.DefaultConfig()
	if f.configFile != "" {
		loaded, err := utils.LoadConfig(f.configFile, file.NewFileService())
		if err != nil {
			return nil, zerolog.Nop(), err
		}
		config = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("iterations") {
		config.Benchmark.Iterations = f.iterations
	}
	if flags.Changed("interval") {
		config.Benchmark.Interval = f.interval
	}
	if flags.Changed("top") {
		config.Benchmark.TopN = f.topN
	}
	if flags.Changed("workers") {
		config.Collector.Workers = f.workers
	}
	if flags.Changed("proc-root") {
		config.Collector.ProcRoot = f.procRoot
	}
	if flags.Changed("chart") {
		config.Output.ChartFile = f.chartFile
	}
	if flags.Changed("log-level") {
		config.Logging.Level = f.logLevel
	}
	config.Collector.Options.IncludeVMS = config.Collector.Options.IncludeVMS || f.vms
	config.Collector.Options.IncludeThreads = config.Collector.Options.IncludeThreads || f.threads
	config.Collector.Options.IncludeReadBytes = config.Collector.Options.IncludeReadBytes || f.io
	config.Output.CSV = config.Output.CSV || f.csv

	if err := config.Validate(); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(config.Logging.Level)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return config, logger, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().
		Logger(), nil
}

func loadEnvironment(config *utils.Config, logger zerolog.Logger) (*metrics_collectors.Environment, error) {
	env, err := metrics_collectors.LoadEnvironment(metrics_collectors.EnvironmentConfig{
		ProcRoot:   config.Collector.ProcRoot,
		PasswdPath: config.Collector.PasswdPath,
		Cores:      config.Collector.Cores,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize collectors: %w", err)
	}
	return env, nil
}

// newHostCollector returns a host collector whose first CPU reading has
// already been taken, so the next one covers the benchmark run.
func newHostCollector(logger zerolog.Logger) *metrics_collectors.HostMetricCollector {
	host := &metrics_collectors.HostMetricCollector{Logger: logger}
	host.Collect()
	return host
}

func runStrategy(out io.Writer, config *utils.Config, env *metrics_collectors.Environment, host *metrics_collectors.HostMetricCollector, name string, logger zerolog.Logger) (report.Run, models.PerfSummary, error) {
	collector, err := metrics_collectors.DefaultRegistry().New(name, env, metrics_collectors.Settings{
		Options: config.Collector.Options,
		Workers: config.Collector.Workers,
	})
	if err != nil {
		return report.Run{}, models.PerfSummary{}, err
	}

	runner := benchmark.NewRunner(config.Benchmark.Interval, config.Benchmark.TopN, logger)
	results, err := runner.Run(collector, config.Benchmark.Iterations)
	if err != nil {
		return report.Run{}, models.PerfSummary{}, fmt.Errorf("benchmark %s: %w", name, err)
	}

	summary := stats.BuildSummary(collector.Name(), results)
	sample := host.Collect()
	summary.Host = &sample

	if config.Output.CSV {
		fmt.Fprintf(out, "\nCollector: %s\n", collector.Name())
		if err := report.WriteCSV(out, results); err != nil {
			return report.Run{}, models.PerfSummary{}, err
		}
	}

	return report.Run{Name: collector.Name(), Results: results}, summary, nil
}

func writeChart(fileClient file.FileOperations, config *utils.Config, runs []report.Run, logger zerolog.Logger) error {
	if config.Output.ChartFile == "" {
		return nil
	}
	err := fileClient.WriteFileAtomic(config.Output.ChartFile, func(w io.Writer) error {
		return report.WriteChart(w, runs)
	})
	if err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	logger.Info().Str("path", config.Output.ChartFile).Msg("Chart written")
	return nil
}
