package compressor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOutputDir         = errors.New("cannot create output directory")
	ErrToolNotFound      = errors.New("compression tool not found on PATH")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrSameFile          = errors.New("source and destination are the same file")
)

// TransformError records why one file could not be compressed. It never
// aborts the batch.
type TransformError struct {
	Input  string
	Output string
	Stderr string
	Err    error
}

func (e *TransformError) Error() string {
	msg := fmt.Sprintf("compress %s: %v", e.Input, e.Err)
	if last := lastLine(e.Stderr); last != "" {
		msg += " (" + last + ")"
	}
	return msg
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
