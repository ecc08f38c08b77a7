package cloudwriter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalFactory writes backup objects under a base directory using the
// same contract as the S3 factory, so the export command does not branch
// on destination.
type LocalFactory struct {
	baseDir string
}

func NewLocalFactory(baseDir string) *LocalFactory {
	return &LocalFactory{baseDir: baseDir}
}

func (f *LocalFactory) NewWriter(ctx context.Context, objectPath string) (ObjectWriter, error) {
	full := filepath.Join(f.baseDir, objectPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create backup directory: %w", err)
	}
	file, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("unable to create backup file: %w", err)
	}
	return &localWriter{file: file}, nil
}

type localWriter struct {
	file *os.File
}

func (w *localWriter) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *localWriter) Close(ctx context.Context) error {
	return w.file.Close()
}
