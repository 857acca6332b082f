package wmstatus

import (
	"fmt"
	"io"
	"sync"
)

// Output receives composed status lines from the refresh loop.
// Implementations must be safe for concurrent use.
type Output interface {
	// Set replaces the currently displayed status line.
	Set(line string) error
	// Close releases any resources held by the output.
	Close() error
}

// WriterOutput delivers status lines to an io.Writer, one line per Set
// call. It is useful for piping the status line to another program and
// for tests.
type WriterOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterOutput creates a WriterOutput writing to w.
func NewWriterOutput(w io.Writer) *WriterOutput {
	return &WriterOutput{w: w}
}

// Set writes line followed by a newline.
func (o *WriterOutput) Set(line string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.w == nil {
		return fmt.Errorf("writer output is closed")
	}
	if _, err := fmt.Fprintln(o.w, line); err != nil {
		return fmt.Errorf("writing status line: %w", err)
	}
	return nil
}

// Close detaches the writer; subsequent Set calls return an error.
// The underlying writer itself is not closed.
func (o *WriterOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.w = nil
	return nil
}
