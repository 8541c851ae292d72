package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStore abstracts the filesystem access the report engine needs: list
// input files, stream one file, and publish an output atomically.
type FileStore interface {
	// ListCSV returns the names (not paths) of the *.csv files directly
	// under dir, in lexical order.
	ListCSV(dir string) ([]string, error)
	Open(path string) (io.ReadCloser, error)
	// WriteAtomic writes data so that readers never observe a partial
	// file, creating parent directories as needed.
	WriteAtomic(path string, data []byte) error
}

type osFileStore struct{}

// NewOSFileStore returns a FileStore backed by the local filesystem.
func NewOSFileStore() FileStore {
	return osFileStore{}
}

func (osFileStore) ListCSV(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".csv") {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (osFileStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (osFileStore) WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
