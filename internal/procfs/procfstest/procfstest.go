// Package procfstest builds fake proc filesystems for tests.
package procfstest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// statTokens is the number of fields after "(comm) state" on a 3.5+ kernel.
const statTokens = 49

// Process describes one fake /proc/[pid] directory.
type Process struct {
	PID           int
	Name          string
	State         byte // defaults to 'S'
	UserTicks     int64
	KernelTicks   int64
	StartTicks    int64
	VirtualBytes  int64
	ResidentPages int64

	UID      int
	Threads  int   // omitted from status when 0
	VmRSSKB  int64 // omitted from status when 0
	VmSizeKB int64 // omitted from status when 0

	Cmdline   []string // empty writes an empty cmdline, like a kernel thread
	ReadBytes *int64   // nil leaves out the io file
}

// StatLine renders p as a /proc/[pid]/stat line.
func StatLine(p Process) string {
	state := p.State
	if state == 0 {
		state = 'S'
	}

	tokens := make([]string, statTokens)
	for i := range tokens {
		tokens[i] = "0"
	}
	set := func(field int, v int64) {
		tokens[field-4] = strconv.FormatInt(v, 10)
	}
	set(14, p.UserTicks)
	set(15, p.KernelTicks)
	set(22, p.StartTicks)
	set(23, p.VirtualBytes)
	set(24, p.ResidentPages)

	return fmt.Sprintf("%d (%s) %c %s\n", p.PID, p.Name, state, strings.Join(tokens, " "))
}

// FS is a fake proc filesystem rooted in a temporary directory.
type FS struct {
	Root string
	t    testing.TB
}

// New creates a fake proc root with the given boot time and kernel release.
func New(t testing.TB, bootTime int64, release string) *FS {
	t.Helper()
	fs := &FS{Root: t.TempDir(), t: t}
	fs.write("stat", fmt.Sprintf("cpu  1 2 3 4 5 6 7 0 0 0\nintr 0\nctxt 0\nbtime %d\nprocesses 1\n", bootTime))
	if release != "" {
		fs.write(filepath.Join("sys", "kernel", "osrelease"), release+"\n")
	}
	return fs
}

// Add writes every file of p, replacing a previous process with the same pid.
func (fs *FS) Add(p Process) {
	fs.t.Helper()
	dir := strconv.Itoa(p.PID)
	fs.write(filepath.Join(dir, "stat"), StatLine(p))
	fs.write(filepath.Join(dir, "status"), statusFile(p))
	fs.write(filepath.Join(dir, "cmdline"), cmdlineFile(p.Cmdline))
	if p.ReadBytes != nil {
		fs.write(filepath.Join(dir, "io"), fmt.Sprintf(
			"rchar: 0\nwchar: 0\nsyscr: 0\nsyscw: 0\nread_bytes: %d\nwrite_bytes: 0\ncancelled_write_bytes: 0\n", *p.ReadBytes))
	}
}

// WriteFile writes an arbitrary file below the root.
func (fs *FS) WriteFile(rel, content string) {
	fs.t.Helper()
	fs.write(rel, content)
}

// Remove deletes the directory of pid, as if the process exited.
func (fs *FS) Remove(pid int) {
	fs.t.Helper()
	require.NoError(fs.t, os.RemoveAll(filepath.Join(fs.Root, strconv.Itoa(pid))))
}

// RemoveFile deletes one file of pid, e.g. to simulate a race with exit.
func (fs *FS) RemoveFile(pid int, name string) {
	fs.t.Helper()
	require.NoError(fs.t, os.Remove(filepath.Join(fs.Root, strconv.Itoa(pid), name)))
}

// WritePasswd writes a passwd file next to the root and returns its path.
func WritePasswd(t testing.TB, users map[int]string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("# test user database\n\n")
	for uid, name := range users {
		fmt.Fprintf(&b, "%s:x:%d:%d::/home/%s:/bin/sh\n", name, uid, uid, name)
	}
	path := filepath.Join(t.TempDir(), "passwd")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func (fs *FS) write(rel, content string) {
	path := filepath.Join(fs.Root, rel)
	require.NoError(fs.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(fs.t, os.WriteFile(path, []byte(content), 0o644))
}

func statusFile(p Process) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name:\t%s\n", p.Name)
	b.WriteString("State:\tS (sleeping)\n")
	fmt.Fprintf(&b, "Uid:\t%d\t%d\t%d\t%d\n", p.UID, p.UID, p.UID, p.UID)
	if p.VmSizeKB > 0 {
		fmt.Fprintf(&b, "VmSize:\t%8d kB\n", p.VmSizeKB)
	}
	if p.VmRSSKB > 0 {
		fmt.Fprintf(&b, "VmRSS:\t%8d kB\n", p.VmRSSKB)
	}
	if p.Threads > 0 {
		fmt.Fprintf(&b, "Threads:\t%d\n", p.Threads)
	}
	return b.String()
}

func cmdlineFile(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.Join(args, "\x00") + "\x00"
}
