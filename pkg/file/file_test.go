package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileService_IsFileExists(t *testing.T) {
	fs := NewFileService()
	path := filepath.Join(t.TempDir(), "present")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	exists, err := fs.IsFileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = fs.IsFileExists(path + ".missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileService_ReadYamlFile(t *testing.T) {
	fs := NewFileService()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: procbench\ncount: 3\n"), 0o644))

	var v struct {
		Name  string `yaml:"name"`
		Count int    `yaml:"count"`
	}
	require.NoError(t, fs.ReadYamlFile(path, &v))
	assert.Equal(t, "procbench", v.Name)
	assert.Equal(t, 3, v.Count)

	var strict struct {
		Name string `yaml:"name"`
	}
	assert.Error(t, fs.ReadYamlFile(path, &strict), "unknown fields are rejected")
}

func TestFileService_WriteFileAtomic(t *testing.T) {
	fs := NewFileService()
	path := filepath.Join(t.TempDir(), "chart.html")

	err := fs.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "<html></html>")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
	assert.NoFileExists(t, path+".tmp")
}

func TestFileService_WriteFileAtomic_KeepsOldContentOnError(t *testing.T) {
	fs := NewFileService()
	path := filepath.Join(t.TempDir(), "chart.html")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := fs.WriteFileAtomic(path, func(w io.Writer) error {
		fmt.Fprint(w, "partial")
		return errors.New("render failed")
	})
	assert.EqualError(t, err, "render failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.NoFileExists(t, path+".tmp")
}
