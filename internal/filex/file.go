// Package filex wraps the few local filesystem operations the CLI needs.
package filex

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// EnsureSubDir creates dirName under the current working directory if it is
// missing and returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// LocalFile is a file read from disk with its sniffed content type.
type LocalFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadLocalFile reads path fully and sniffs its content type from the first
// bytes.
func ReadLocalFile(path string) (*LocalFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &LocalFile{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
