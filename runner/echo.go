package runner

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// ConsoleEcho streams child output to a console writer while scripts run.
// Each line is prefixed with the script name; lines from concurrently
// running scripts never interleave mid-line.
type ConsoleEcho struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleEcho creates an echo sink writing to out
func NewConsoleEcho(out io.Writer) *ConsoleEcho {
	return &ConsoleEcho{out: out}
}

// Writer returns a line-buffered writer labeling output with name.
// Close flushes a trailing line that has no newline terminator.
func (e *ConsoleEcho) Writer(name string) io.WriteCloser {
	return &lineWriter{echo: e, prefix: name}
}

func (e *ConsoleEcho) emit(prefix string, line []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintf(e.out, "%s | %s\n", prefix, line)
}

// lineWriter buffers partial writes until a full line is available.
// Each instance is written from a single stream copier; only emit takes
// the shared lock.
type lineWriter struct {
	echo   *ConsoleEcho
	prefix string
	buf    bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// Keep the partial line until more output arrives
			w.buf.Write(line)
			break
		}
		w.echo.emit(w.prefix, bytes.TrimRight(line, "\n"))
	}
	return len(p), nil
}

func (w *lineWriter) Close() error {
	if w.buf.Len() > 0 {
		w.echo.emit(w.prefix, w.buf.Bytes())
		w.buf.Reset()
	}
	return nil
}
