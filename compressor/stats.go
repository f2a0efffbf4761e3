package compressor

import (
	"fmt"
	"time"
)

// FileResult is the outcome of one transformation.
type FileResult struct {
	Source         string
	Destination    string
	Info           ImageInfo
	Err            error
	OriginalSize   int64
	CompressedSize int64
	Duration       time.Duration
}

func (r FileResult) OK() bool {
	return r.Err == nil
}

// RunSummary tracks one invocation of the batch loop.
type RunSummary struct {
	RunID               string
	Root                string
	OutputDir           string
	Total               int
	Succeeded           int
	Failed              int
	Interrupted         bool
	// Skipped lists unreadable paths below Root that discovery passed over.
	Skipped             []string
	Results             []FileResult
	TotalOriginalSize   int64
	TotalCompressedSize int64
}

func (s *RunSummary) record(r FileResult) {
	s.Results = append(s.Results, r)
	if r.OK() {
		s.Succeeded++
		s.TotalOriginalSize += r.OriginalSize
		s.TotalCompressedSize += r.CompressedSize
		return
	}
	s.Failed++
}

// Processed is the number of files a transformation was attempted for.
func (s *RunSummary) Processed() int {
	return len(s.Results)
}

// SpaceSaved is positive when outputs are smaller than their inputs.
// Failed files are not counted.
func (s *RunSummary) SpaceSaved() int64 {
	return s.TotalOriginalSize - s.TotalCompressedSize
}

// CompressionRatio is compressed/original in percent, or 0 with no data.
func (s *RunSummary) CompressionRatio() float64 {
	if s.TotalOriginalSize <= 0 {
		return 0
	}
	return float64(s.TotalCompressedSize) / float64(s.TotalOriginalSize) * 100
}

func (s *RunSummary) FailedFiles() []string {
	var out []string
	for _, r := range s.Results {
		if !r.OK() {
			out = append(out, r.Source)
		}
	}
	return out
}

// OK reports whether every discovered file was compressed.
func (s *RunSummary) OK() bool {
	return s.Failed == 0 && !s.Interrupted
}

// FormatBytes returns a human-readable size (B, KiB, MiB, ...).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}
