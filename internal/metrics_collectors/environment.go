package metrics_collectors

import (
	"fmt"
	"runtime"
	"time"

	"github.com/benmeehan/procbench/internal/models"
	"github.com/benmeehan/procbench/internal/procfs"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/cpu"
	"golang.org/x/sys/unix"
)

// EnvironmentConfig selects where host information is read from.
type EnvironmentConfig struct {
	ProcRoot   string // defaults to /proc
	PasswdPath string // defaults to /etc/passwd
	Cores      int    // 0 detects the logical core count
	Logger     zerolog.Logger
}

// Environment is the host information shared by every collector. It is
// loaded once and never mutated, so it is safe to share across goroutines.
type Environment struct {
	ProcRoot string
	BootTime time.Time
	Users    *procfs.UserNameCache
	Kernel   procfs.KernelInfo
	Layout   procfs.StatLayout
	Cores    int
	PageSize int64
	Logger   zerolog.Logger
}

// LoadEnvironment reads boot time, the user database and kernel details.
// A missing or unparseable boot time is fatal; a missing user database is not.
func LoadEnvironment(cfg EnvironmentConfig) (*Environment, error) {
	if cfg.ProcRoot == "" {
		cfg.ProcRoot = procfs.DefaultRoot
	}
	if cfg.PasswdPath == "" {
		cfg.PasswdPath = procfs.DefaultPasswdPath
	}

	bootTime, err := procfs.ReadBootTime(cfg.ProcRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	users, err := procfs.LoadUserNameCache(cfg.PasswdPath)
	if err != nil {
		cfg.Logger.Warn().Err(err).Str("path", cfg.PasswdPath).Msg("User database unavailable, uids will be reported numerically")
		users = procfs.NewUserNameCache(nil)
	}

	cores := cfg.Cores
	if cores <= 0 {
		cores = detectCores(cfg.Logger)
	}

	env := &Environment{
		ProcRoot: cfg.ProcRoot,
		BootTime: bootTime,
		Users:    users,
		Kernel:   procfs.ReadKernelInfo(cfg.ProcRoot),
		Layout:   procfs.DefaultStatLayout,
		Cores:    cores,
		PageSize: int64(unix.Getpagesize()),
		Logger:   cfg.Logger,
	}

	env.Logger.Debug().
		Time("boot_time", env.BootTime).
		Int("users", users.Len()).
		Str("kernel", env.Kernel.Release).
		Int("cores", env.Cores).
		Int64("page_size", env.PageSize).
		Msg("Environment loaded")

	return env, nil
}

// detectCores returns the logical core count, preferring gopsutil since it
// honours the host's cpuinfo rather than the scheduler affinity mask.
func detectCores(logger zerolog.Logger) int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		logger.Debug().Err(err).Msg("Falling back to runtime.NumCPU for core count")
		return runtime.NumCPU()
	}
	return n
}

// StartTime converts a start time in ticks since boot to wall-clock time.
func (e *Environment) StartTime(startTicks int64) time.Time {
	return e.BootTime.Add(ticksToDuration(startTicks))
}

// readCPUSnapshot reads just enough of the stat record of pid to get its
// CPU ticks. ok is false when the process is gone or unreadable.
func (e *Environment) readCPUSnapshot(pid int, now time.Time) (models.CPUSnapshot, bool) {
	raw, err := procfs.ReadStat(procfs.PIDDir(e.ProcRoot, pid))
	if err != nil {
		return models.CPUSnapshot{}, false
	}
	ticks, err := e.Layout.ParseCPU(raw)
	if err != nil {
		e.Logger.Debug().Err(err).Int("pid", pid).Msg("Skipping malformed stat record")
		return models.CPUSnapshot{}, false
	}
	return models.CPUSnapshot{PID: pid, CPUTimeTicks: ticks, Timestamp: now}, true
}

// collectProcess reads the full record set of pid. ok is false when the
// process exited, is inaccessible, or its stat record is malformed; the
// caller drops the pid for this iteration.
func (e *Environment) collectProcess(pid int, prev, curr models.CPUSnapshot, opts models.CollectorOptions) (models.ProcessMetrics, bool) {
	dir := procfs.PIDDir(e.ProcRoot, pid)

	raw, err := procfs.ReadStat(dir)
	if err != nil {
		e.Logger.Debug().Err(err).Int("pid", pid).Msg("Process vanished before stat read")
		return models.ProcessMetrics{}, false
	}
	stat, err := e.Layout.Parse(raw)
	if err != nil {
		e.Logger.Debug().Err(err).Int("pid", pid).Msg("Skipping malformed stat record")
		return models.ProcessMetrics{}, false
	}

	cmdline := procfs.ReadCmdline(dir)

	statusRaw, err := procfs.ReadStatus(dir)
	if err != nil {
		e.Logger.Debug().Err(err).Int("pid", pid).Msg("Process vanished before status read")
		return models.ProcessMetrics{}, false
	}
	status := procfs.ParseStatus(statusRaw)

	metrics := models.ProcessMetrics{
		PID:         pid,
		ProcessName: stat.ProcessName,
		Cmdline:     cmdline,
		User:        e.Users.Resolve(status.UID),
		StartTime:   e.StartTime(stat.StartTimeTicks),
		CPUPercent:  CPUPercent(prev, curr, e.Cores),
		RSSBytes:    stat.ResidentSetPages * e.PageSize,
		State:       stat.State,
	}
	if status.VmRSSBytes != nil {
		metrics.RSSBytes = *status.VmRSSBytes
	}

	if opts.IncludeVMS {
		vms := stat.VirtualMemoryBytes
		if status.VmSizeBytes != nil {
			vms = *status.VmSizeBytes
		}
		metrics.VMSBytes = &vms
	}
	if opts.IncludeThreads {
		metrics.Threads = status.Threads
	}
	if opts.IncludeReadBytes && e.Kernel.SupportsIOAccounting() {
		metrics.ReadBytes = procfs.ReadIOReadBytes(dir)
	}

	return metrics, true
}
