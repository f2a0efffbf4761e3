package compressor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Transformer writes a compressed copy of input to output.
type Transformer interface {
	Transform(ctx context.Context, input, output string) error
}

// CommandRunner runs an external program to completion and returns what it
// wrote to stderr.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.String(), err
}

// DefaultTool is the compressor binary used when none is configured.
const DefaultTool = "ffmpeg"

// compressionLevel is passed as -compression_level; 9 is the strongest
// lossless setting for PNG and the slowest/smallest for WebP.
const compressionLevel = "9"

// FFmpegTransformer invokes ffmpeg (or any binary honoring the same
// -i <input> ... <output> contract) once per file.
type FFmpegTransformer struct {
	Binary string
	Runner CommandRunner
}

func NewFFmpegTransformer(binary string) *FFmpegTransformer {
	if binary == "" {
		binary = DefaultTool
	}
	return &FFmpegTransformer{
		Binary: binary,
		Runner: ExecRunner{},
	}
}

// Args builds the argument list for one file. Any tool is called as
// <tool> -i <input> -compression_level 9 <output>. ffmpeg itself also gets
// quiet, non-interactive flags and -y, which lets a later file with the same
// base name replace an earlier output.
func (t *FFmpegTransformer) Args(input, output string) []string {
	args := []string{"-i", input, "-compression_level", compressionLevel, output}
	if !isFFmpeg(t.Binary) {
		return args
	}
	return append([]string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y"}, args...)
}

// isFFmpeg matches "ffmpeg" and "ffmpeg.exe" by base name, so absolute
// paths to an ffmpeg build still get the ffmpeg-only flags.
func isFFmpeg(binary string) bool {
	name := strings.TrimSuffix(filepath.Base(binary), ".exe")
	return name == DefaultTool
}

func (t *FFmpegTransformer) Transform(ctx context.Context, input, output string) error {
	stderr, err := t.Runner.Run(ctx, t.Binary, t.Args(input, output)...)
	if err != nil {
		return &TransformError{
			Input:  input,
			Output: output,
			Stderr: stderr,
			Err:    fmt.Errorf("%s: %w", t.Binary, err),
		}
	}
	return nil
}

// CheckTool reports ErrToolNotFound when binary cannot be resolved.
func CheckTool(binary string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, binary)
	}
	return nil
}
