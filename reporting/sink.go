package reporting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink writes a finished report to its destination
type Sink interface {
	Write(report []byte) error
	// Destination returns a human-readable description of where reports go
	Destination() string
}

// NewSink returns a sink for the configured output path. An empty path
// means stdout.
func NewSink(path string) Sink {
	if path == "" {
		return NewStdoutSink()
	}
	return NewFileSink(path)
}

// FileSink writes reports to a file, creating parent directories as needed
type FileSink struct {
	path string
}

// NewFileSink creates a sink writing to path
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Write(report []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	if err := os.WriteFile(s.path, report, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", s.path, err)
	}
	return nil
}

func (s *FileSink) Destination() string {
	return s.path
}

// StdoutSink copies reports to standard output
type StdoutSink struct {
	out io.Writer
}

// NewStdoutSink creates a sink writing to os.Stdout
func NewStdoutSink() *StdoutSink {
	return &StdoutSink{out: os.Stdout}
}

func (s *StdoutSink) Write(report []byte) error {
	if _, err := s.out.Write(report); err != nil {
		return fmt.Errorf("failed to write report to stdout: %w", err)
	}
	return nil
}

func (s *StdoutSink) Destination() string {
	return "stdout"
}
