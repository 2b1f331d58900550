package metrics_collectors

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/benmeehan/procbench/internal/procfs"
	"github.com/benmeehan/procbench/internal/procfs/procfstest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBootTime = 1700000000

func newTestEnv(t *testing.T, fs *procfstest.FS) *Environment {
	t.Helper()
	env, err := LoadEnvironment(EnvironmentConfig{
		ProcRoot:   fs.Root,
		PasswdPath: procfstest.WritePasswd(t, map[int]string{0: "root", 1000: "alice"}),
		Cores:      2,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	return env
}

func TestLoadEnvironment(t *testing.T) {
	fs := procfstest.New(t, testBootTime, "6.1.0-13-amd64")
	env := newTestEnv(t, fs)

	assert.Equal(t, fs.Root, env.ProcRoot)
	assert.Equal(t, time.Unix(testBootTime, 0).UTC(), env.BootTime)
	assert.Equal(t, 2, env.Users.Len())
	assert.Equal(t, "6.1.0-13-amd64", env.Kernel.Release)
	assert.Equal(t, procfs.DefaultStatLayout, env.Layout)
	assert.Equal(t, 2, env.Cores)
	assert.Greater(t, env.PageSize, int64(0))
}

func TestLoadEnvironment_MissingBootTime(t *testing.T) {
	_, err := LoadEnvironment(EnvironmentConfig{ProcRoot: t.TempDir(), Logger: zerolog.Nop()})
	assert.ErrorIs(t, err, procfs.ErrBootTime)
}

func TestLoadEnvironment_MissingPasswd(t *testing.T) {
	fs := procfstest.New(t, testBootTime, "6.1.0")

	env, err := LoadEnvironment(EnvironmentConfig{
		ProcRoot:   fs.Root,
		PasswdPath: filepath.Join(t.TempDir(), "passwd"),
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, env.Users.Len())
	assert.Equal(t, "1000", env.Users.Resolve(1000))
	assert.Greater(t, env.Cores, 0)
}

func TestEnvironment_StartTime(t *testing.T) {
	fs := procfstest.New(t, testBootTime, "6.1.0")
	env := newTestEnv(t, fs)

	assert.Equal(t, time.Unix(testBootTime+90, 500000000).UTC(), env.StartTime(9050))
}
