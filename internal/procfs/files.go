package procfs

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultRoot is where the proc filesystem is normally mounted.
const DefaultRoot = "/proc"

var ioReadBytes = []byte("read_bytes:")

// PIDDir returns the directory of pid under root.
func PIDDir(root string, pid int) string {
	return filepath.Join(root, strconv.Itoa(pid))
}

// ListPIDs returns the numeric directory names under root, in directory order.
func ListPIDs(root string) ([]int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	pids := make([]int, 0, len(entries)/2)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// ReadStat reads /proc/[pid]/stat.
func ReadStat(dir string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, "stat"))
}

// ReadStatus reads /proc/[pid]/status.
func ReadStatus(dir string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, "status"))
}

// ReadCmdline returns the NUL separated command line joined with spaces.
// Kernel threads have an empty cmdline; they and unreadable files yield nil.
func ReadCmdline(dir string) *string {
	data, err := os.ReadFile(filepath.Join(dir, "cmdline"))
	if err != nil || len(data) == 0 {
		return nil
	}
	cmdline := string(bytes.TrimSpace(bytes.ReplaceAll(data, []byte{0}, []byte{' '})))
	return &cmdline
}

// ReadIOReadBytes returns read_bytes from /proc/[pid]/io, or nil when the
// file is unreadable (commonly EACCES for other users' processes).
func ReadIOReadBytes(dir string) *int64 {
	data, err := os.ReadFile(filepath.Join(dir, "io"))
	if err != nil {
		return nil
	}

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if !bytes.HasPrefix(line, ioReadBytes) {
			continue
		}
		fields := bytes.Fields(line)
		if len(fields) != 2 {
			return nil
		}
		v, err := strconv.ParseInt(string(fields[1]), 10, 64)
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}
