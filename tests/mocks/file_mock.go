package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
	"gopkg.in/yaml.v3"
)

// FileOperations is a mock implementation of the file.FileOperations interface
type FileOperations struct {
	mock.Mock
}

func (m *FileOperations) IsFileExists(filePath string) (bool, error) {
	args := m.Called(filePath)
	return args.Bool(0), args.Error(1)
}

// ReadYamlFile decodes the YAML document returned for filePath into v, so tests
// can feed raw config text through the real decoder.
func (m *FileOperations) ReadYamlFile(filePath string, v any) error {
	args := m.Called(filePath, v)
	if err := args.Error(1); err != nil {
		return err
	}
	if doc := args.String(0); doc != "" {
		return yaml.Unmarshal([]byte(doc), v)
	}
	return nil
}

// WriteFileAtomic runs write against the io.Writer configured for filePath.
func (m *FileOperations) WriteFileAtomic(filePath string, write func(w io.Writer) error) error {
	args := m.Called(filePath, write)
	if err := args.Error(1); err != nil {
		return err
	}
	if w, ok := args.Get(0).(io.Writer); ok {
		return write(w)
	}
	return nil
}
