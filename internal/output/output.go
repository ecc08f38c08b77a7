// Package output fans order lifecycle events out to the configured sinks.
// Every sink speaks the same topic/message contract so the reconciler does
// not care where events land.
package output

import (
	"fmt"
	"os"
)

// Destination receives serialized lifecycle events.
type Destination interface {
	WriteMessage(topic string, msg []byte) error
}

// ConsoleOutput prints events to stdout, one line per event.
type ConsoleOutput struct{}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	out := fmt.Sprintf("[%s] %s\n", topic, string(msg))
	if _, err := os.Stdout.Write([]byte(out)); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	_ = os.Stdout.Sync()
	return nil
}

// FileOutput appends events to one file per topic under a base directory.
type FileOutput struct {
	files    map[string]*os.File
	basePath string
}

func NewFileOutput(basePath string) *FileOutput {
	return &FileOutput{
		files:    make(map[string]*os.File),
		basePath: basePath,
	}
}

func (f *FileOutput) WriteMessage(topic string, msg []byte) error {
	if _, ok := f.files[topic]; !ok {
		filename := fmt.Sprintf("%s/%s.jsonl", f.basePath, topic)
		file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open file for topic %s: %w", topic, err)
		}
		f.files[topic] = file
	}

	if _, err := f.files[topic].Write(append(msg, '\n')); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}
	return nil
}

func (f *FileOutput) Close() error {
	for _, file := range f.files {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

// MultiOutput writes every event to each wrapped destination, returning
// the first error while still attempting the rest.
type MultiOutput struct {
	destinations []Destination
}

func NewMultiOutput(destinations ...Destination) *MultiOutput {
	return &MultiOutput{destinations: destinations}
}

func (m *MultiOutput) WriteMessage(topic string, msg []byte) error {
	var firstErr error
	for _, d := range m.destinations {
		if err := d.WriteMessage(topic, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
