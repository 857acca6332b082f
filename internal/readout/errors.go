package readout

import (
	"errors"
	"fmt"
	"strings"
)

// ReadoutSource identifies which readout produced an error.
type ReadoutSource string

const (
	SourceThermal ReadoutSource = "thermal"
	SourceBattery ReadoutSource = "battery"
	SourceNet     ReadoutSource = "net"
	SourceLoad    ReadoutSource = "load"
	SourceClock   ReadoutSource = "clock"
)

// ErrNotPresent marks a battery whose sysfs present flag is 0.
var ErrNotPresent = errors.New("device not present")

// ReadoutError wraps a single failed readout with its source and the
// path or identifier that failed. It preserves the original error for
// inspection via errors.Is/errors.As.
type ReadoutError struct {
	Source ReadoutSource
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *ReadoutError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Source, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *ReadoutError) Unwrap() error {
	return e.Err
}

// NewReadoutError creates a new ReadoutError.
func NewReadoutError(source ReadoutSource, path string, err error) *ReadoutError {
	return &ReadoutError{
		Source: source,
		Path:   path,
		Err:    err,
	}
}

// CollectError aggregates the readout errors from a single Collect()
// call. The Reading returned alongside it still carries every readout
// that succeeded; callers inspect individual failures here.
type CollectError struct {
	Readouts []*ReadoutError
}

// Error implements the error interface.
func (e *CollectError) Error() string {
	if len(e.Readouts) == 0 {
		return "no errors"
	}
	if len(e.Readouts) == 1 {
		return fmt.Sprintf("collect error: %v", e.Readouts[0])
	}
	msgs := make([]string, len(e.Readouts))
	for i, re := range e.Readouts {
		msgs[i] = re.Error()
	}
	return fmt.Sprintf("collect errors (%d): %s", len(e.Readouts), strings.Join(msgs, "; "))
}

// Unwrap returns the underlying errors slice for multi-error support.
// This enables errors.Is to check against any wrapped error.
func (e *CollectError) Unwrap() []error {
	errs := make([]error, len(e.Readouts))
	for i, re := range e.Readouts {
		errs[i] = re
	}
	return errs
}

// HasSource returns true if any error originated from the given source.
func (e *CollectError) HasSource(source ReadoutSource) bool {
	for _, re := range e.Readouts {
		if re.Source == source {
			return true
		}
	}
	return false
}

// BySource returns all errors from the specified source.
func (e *CollectError) BySource(source ReadoutSource) []*ReadoutError {
	var result []*ReadoutError
	for _, re := range e.Readouts {
		if re.Source == source {
			result = append(result, re)
		}
	}
	return result
}

// AsCollectError attempts to extract a CollectError from an error.
// Returns nil if the error is not a CollectError.
func AsCollectError(err error) *CollectError {
	var ce *CollectError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// IsReadoutError returns true if err wraps or is a ReadoutError with
// the given source.
func IsReadoutError(err error, source ReadoutSource) bool {
	var re *ReadoutError
	for errors.As(err, &re) {
		if re.Source == source {
			return true
		}
		err = re.Err
	}
	return false
}
