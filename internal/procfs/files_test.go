package procfs

import (
	"testing"

	"github.com/benmeehan/procbench/internal/procfs/procfstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPIDs(t *testing.T) {
	fs := procfstest.New(t, 1700000000, "6.1.0")
	fs.Add(procfstest.Process{PID: 1, Name: "init"})
	fs.Add(procfstest.Process{PID: 42, Name: "bash"})
	fs.WriteFile("self/stat", "not a pid")
	fs.WriteFile("1000", "a file, not a directory")

	pids, err := ListPIDs(fs.Root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 42}, pids)
}

func TestListPIDs_MissingRoot(t *testing.T) {
	_, err := ListPIDs("/nonexistent/proc/root")
	assert.Error(t, err)
}

func TestReadCmdline(t *testing.T) {
	fs := procfstest.New(t, 1700000000, "6.1.0")
	fs.Add(procfstest.Process{PID: 10, Name: "python3", Cmdline: []string{"python3", "-m", "http.server"}})
	fs.Add(procfstest.Process{PID: 2, Name: "kthreadd"})

	cmdline := ReadCmdline(PIDDir(fs.Root, 10))
	require.NotNil(t, cmdline)
	assert.Equal(t, "python3 -m http.server", *cmdline)

	assert.Nil(t, ReadCmdline(PIDDir(fs.Root, 2)))
	assert.Nil(t, ReadCmdline(PIDDir(fs.Root, 999)))
}

func TestReadIOReadBytes(t *testing.T) {
	fs := procfstest.New(t, 1700000000, "6.1.0")
	readBytes := int64(4096)
	fs.Add(procfstest.Process{PID: 10, Name: "cat", ReadBytes: &readBytes})
	fs.Add(procfstest.Process{PID: 11, Name: "secret"})
	fs.WriteFile("12/io", "rchar: 1\nread_bytes: many\n")

	got := ReadIOReadBytes(PIDDir(fs.Root, 10))
	require.NotNil(t, got)
	assert.Equal(t, int64(4096), *got)

	assert.Nil(t, ReadIOReadBytes(PIDDir(fs.Root, 11)))
	assert.Nil(t, ReadIOReadBytes(PIDDir(fs.Root, 12)))
}

func TestReadStat(t *testing.T) {
	fs := procfstest.New(t, 1700000000, "6.1.0")
	fs.Add(procfstest.Process{PID: 5, Name: "sleep", UserTicks: 1, KernelTicks: 2})

	raw, err := ReadStat(PIDDir(fs.Root, 5))
	require.NoError(t, err)
	ticks, err := ParseStatCPU(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ticks)

	fs.Remove(5)
	_, err = ReadStat(PIDDir(fs.Root, 5))
	assert.Error(t, err)
}
