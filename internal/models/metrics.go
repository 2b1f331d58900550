package models

import "time"

// CPUSnapshot is a single process's cumulative CPU ticks observed at a point in time.
type CPUSnapshot struct {
	PID          int       `json:"pid"`
	CPUTimeTicks int64     `json:"cpu_time_ticks"` // utime + stime, in clock ticks
	Timestamp    time.Time `json:"timestamp"`
}

// Snapshot maps a pid to its CPU counters for one sampling pass.
type Snapshot map[int]CPUSnapshot

// ProcessStatRecord holds the fields parsed from /proc/[pid]/stat.
type ProcessStatRecord struct {
	ProcessName        string `json:"process_name"`         // comm, verbatim between the outer parentheses
	State              byte   `json:"state"`                // 'R', 'S', 'D', ...
	UserCPUTicks       int64  `json:"user_cpu_ticks"`       // utime
	KernelCPUTicks     int64  `json:"kernel_cpu_ticks"`     // stime
	StartTimeTicks     int64  `json:"start_time_ticks"`     // ticks since boot
	VirtualMemoryBytes int64  `json:"virtual_memory_bytes"` // vsize
	ResidentSetPages   int64  `json:"resident_set_pages"`   // rss, in pages
}

// TotalCPUTicks returns user plus kernel ticks.
func (r ProcessStatRecord) TotalCPUTicks() int64 {
	return r.UserCPUTicks + r.KernelCPUTicks
}

// ProcessStatus holds the fields read from /proc/[pid]/status.
type ProcessStatus struct {
	UID         int    // real uid, -1 when the line is missing
	Threads     *int   // Threads:
	VmRSSBytes  *int64 // VmRSS: converted from kB
	VmSizeBytes *int64 // VmSize: converted from kB
}

// ProcessMetrics is a fully enriched observation of one process for one iteration.
type ProcessMetrics struct {
	PID         int       `json:"pid"`
	ProcessName string    `json:"process_name"`
	Cmdline     *string   `json:"cmdline,omitempty"`
	User        string    `json:"user"`
	StartTime   time.Time `json:"start_time"`
	CPUPercent  float64   `json:"cpu_percent"`
	RSSBytes    int64     `json:"rss_bytes"`
	VMSBytes    *int64    `json:"vms_bytes,omitempty"`
	Threads     *int      `json:"threads,omitempty"`
	State       byte      `json:"state"`
	ReadBytes   *int64    `json:"read_bytes,omitempty"`
}

// CollectorOptions toggles the optional, more expensive per-process fields.
type CollectorOptions struct {
	IncludeVMS       bool `yaml:"include_vms" json:"include_vms"`               // populate VMSBytes
	IncludeThreads   bool `yaml:"include_threads" json:"include_threads"`       // populate Threads
	IncludeReadBytes bool `yaml:"include_read_bytes" json:"include_read_bytes"` // read /proc/[pid]/io
}
