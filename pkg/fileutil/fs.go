package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrUnsupportedExtension is returned for document paths that are not YAML or JSON.
var ErrUnsupportedExtension = errors.New("document path must end with .yaml, .yml or .json")

// Exists reports whether path exists on fs.
func Exists(fs afero.Fs, path string) (bool, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return ok, nil
}

// ReadFile reads a whole file from fs.
// A missing file is reported with an error that satisfies errors.Is(err, os.ErrNotExist).
func ReadFile(fs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes data to path, creating missing parent directories.
func WriteFile(fs afero.Fs, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, ReadWriteExecuteUserReadExecuteOthers); err != nil {
			return fmt.Errorf("failed to create directory path %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, path, data, ReadWriteUserReadOthers); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// CheckDocumentExtension verifies path names a YAML or JSON document.
func CheckDocumentExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range documentExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
}

// IsNotExist reports whether err was caused by a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
