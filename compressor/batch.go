// Package compressor discovers images under a root folder and writes
// compressed copies of them into <root>/compressed, one file at a time.
//
// A failure on one file is recorded in the RunSummary and the batch moves on;
// only discovery and output directory failures abort a run.
package compressor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"imgcompress/logger"

	"github.com/google/uuid"
)

type Options struct {
	// Extensions defaults to SupportedExtensions when empty.
	Extensions []string
	// Tool is looked up on PATH before the loop starts; empty skips the check.
	Tool string
	// FlattenOverwrite lets files with the same base name overwrite each
	// other in the output directory instead of getting a dup suffix.
	FlattenOverwrite bool
}

type Processor struct {
	Transformer Transformer
	Console     *logger.Console
	Options     Options
	RunID       string
}

func NewProcessor(t Transformer, console *logger.Console, opts Options) *Processor {
	runID := uuid.NewString()

	return &Processor{
		Transformer: t,
		Console:     console.With("run_id", runID),
		Options:     opts,
		RunID:       runID,
	}
}

// Run compresses every supported image under root. The returned error is
// non-nil only for fatal conditions; per-file failures are in the summary.
func (p *Processor) Run(ctx context.Context, root string) (*RunSummary, error) {
	summary := &RunSummary{RunID: p.RunID, Root: root}

	files, err := DiscoverFunc(root, p.extensions(), func(path string, err error) {
		summary.Skipped = append(summary.Skipped, path)
		p.Console.Warn("Skipping unreadable path %s: %v", path, err)
	})
	if err != nil {
		return summary, fmt.Errorf("file collection error: %w", err)
	}

	summary.Total = len(files)
	if summary.Total == 0 {
		p.Console.Info("No images found to compress.")
		return summary, nil
	}

	p.Console.Info("Found %d images. Starting compression...", summary.Total)

	outDir, err := EnsureOutputDir(root)
	if err != nil {
		return summary, err
	}
	summary.OutputDir = outDir

	if p.Options.Tool != "" {
		if err := CheckTool(p.Options.Tool); err != nil {
			p.Console.Warn("%v; every file is expected to fail", err)
		}
	}

	timer := p.Console.StartTimer("Batch")
	resolver := NewCollisionResolver()

	for i, src := range files {
		if ctx.Err() != nil {
			summary.Interrupted = true
			p.Console.Warn("Interrupted: %d of %d files not processed", summary.Total-i, summary.Total)
			break
		}

		dst := filepath.Join(outDir, filepath.Base(src))
		if !samePath(src, dst) {
			dst = p.destination(resolver, src, dst)
		}
		summary.record(p.processFile(ctx, i+1, summary.Total, src, dst))
	}

	timer.End()
	p.displayResults(summary)

	return summary, nil
}

func (p *Processor) extensions() []string {
	if len(p.Options.Extensions) == 0 {
		return SupportedExtensions
	}
	return p.Options.Extensions
}

// destination claims requested for src unless FlattenOverwrite is set.
// Images already inside the output directory never claim a name.
func (p *Processor) destination(resolver *CollisionResolver, src, requested string) string {
	if p.Options.FlattenOverwrite {
		return requested
	}

	resolved := resolver.Resolve(src, requested)
	if resolved != requested {
		p.Console.Warn("Name collision: %s already taken, writing %s",
			filepath.Base(requested), filepath.Base(resolved))
	}
	return resolved
}

func (p *Processor) processFile(ctx context.Context, n, total int, src, dst string) FileResult {
	result := FileResult{Source: src, Destination: dst}

	p.Console.Info("[%d/%d] Compressing: %s -> %s", n, total, src, dst)

	if samePath(src, dst) {
		result.Err = &TransformError{Input: src, Output: dst, Err: ErrSameFile}
		p.Console.Error("Failed to compress image: %v", result.Err)
		return result
	}

	info, err := Inspect(src)
	result.OriginalSize = info.Size
	if err != nil {
		p.Console.Debug("  could not inspect %s: %v", filepath.Base(src), err)
	} else {
		result.Info = info
		p.Console.Debug("  %s", info)
		if !info.MatchesExtension(src) {
			p.Console.Warn("%s is actually %s data", filepath.Base(src), info.Format)
		}
	}

	start := time.Now()
	if err := p.Transformer.Transform(ctx, src, dst); err != nil {
		result.Err = err
		p.Console.Error("Failed to compress image: %v", err)
		return result
	}
	result.Duration = time.Since(start)

	if fi, err := os.Stat(dst); err == nil {
		result.CompressedSize = fi.Size()
	}

	p.Console.Debug("  %s -> %s in %v", FormatBytes(result.OriginalSize),
		FormatBytes(result.CompressedSize), result.Duration.Round(time.Millisecond))

	return result
}

func (p *Processor) displayResults(s *RunSummary) {
	if p.Console.JSON {
		p.Console.Logger.Info("Processing Summary",
			"total", s.Total,
			"succeeded", s.Succeeded,
			"failed", s.Failed,
			"skipped", len(s.Skipped),
			"interrupted", s.Interrupted,
			"original_bytes", s.TotalOriginalSize,
			"compressed_bytes", s.TotalCompressedSize,
			"compression_ratio", s.CompressionRatio(),
			"output_dir", s.OutputDir,
		)
	} else {
		p.printTable(s)
	}

	for _, f := range s.FailedFiles() {
		p.Console.Warn("  failed: %s", f)
	}

	if s.Interrupted {
		p.Console.Warn("Image compression interrupted. Partial output is in %s", s.OutputDir)
		return
	}
	p.Console.Success("Image compression completed. Compressed files are in %s", s.OutputDir)
}

func (p *Processor) printTable(s *RunSummary) {
	table := p.Console.NewTable([]string{"Metric", "Value"})
	table.AddRow("Processed files", fmt.Sprintf("%d/%d", s.Succeeded, s.Total))
	table.AddRow("Failed files", fmt.Sprintf("%d", s.Failed))
	if len(s.Skipped) > 0 {
		table.AddRow("Skipped paths", fmt.Sprintf("%d", len(s.Skipped)))
	}
	table.AddRow("Original size", FormatBytes(s.TotalOriginalSize))
	table.AddRow("Compressed size", FormatBytes(s.TotalCompressedSize))
	table.AddRow("Compression ratio", fmt.Sprintf("%.1f%%", s.CompressionRatio()))

	if saved := s.SpaceSaved(); saved > 0 {
		table.AddRow("Space saved", FormatBytes(saved))
	}
	table.AddRow("Run ID", s.RunID)

	p.Console.Info("Processing Summary:")
	table.Print()
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
