package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"imgcompress/compressor"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := ParseConfig([]string{dir}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.InputPath)
	assert.Equal(t, compressor.DefaultTool, cfg.Tool)
	assert.Equal(t, EngineFFmpeg, cfg.Engine)
	assert.False(t, cfg.Strict)
	assert.False(t, cfg.FlattenOverwrite)
	assert.False(t, cfg.JSON)
	assert.Equal(t, Version, cfg.Version)
}

func TestParseConfig_Flags(t *testing.T) {
	dir := t.TempDir()

	cfg, err := ParseConfig([]string{
		"--tool", "/opt/ffmpeg/bin/ffmpeg", "--strict", "--flatten-overwrite",
		"--json", "--no-color", "-v", dir,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.Tool)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.FlattenOverwrite)
	assert.True(t, cfg.JSON)
	assert.True(t, cfg.NoColor)
	assert.True(t, cfg.Verbose)
}

func TestParseConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing path", nil, errNoInput.Error()},
		{"too many paths", []string{dir, dir}, "expected exactly one folder path"},
		{"nonexistent", []string{filepath.Join(dir, "missing")}, "the specified folder does not exist"},
		{"invalid engine", []string{"--engine", "magick", dir}, `invalid engine "magick"`},
		{"empty tool", []string{"--tool", "", dir}, "--tool must not be empty"},
		{"unknown flag", []string{"--quality", "80", dir}, "unknown flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig(tt.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseConfig_AcceptsFileRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(file, []byte("data"), 0o644))

	cfg, err := ParseConfig([]string{file}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, file, cfg.InputPath)
}

func TestParseConfig_MissingPathPrintsUsage(t *testing.T) {
	var usage bytes.Buffer
	_, err := ParseConfig(nil, &usage)

	assert.ErrorIs(t, err, errNoInput)
	assert.Contains(t, usage.String(), "Usage: imgcompress [options] <folder-path>")
}

func TestParseConfig_NativeEngineIgnoresTool(t *testing.T) {
	cfg, err := ParseConfig([]string{"--engine", "native", "--tool", "", t.TempDir()}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.IsType(t, compressor.NativeTransformer{}, cfg.Transformer())
	assert.Empty(t, cfg.ProcessorOptions().Tool)
}

func TestParseConfig_VersionSkipsPath(t *testing.T) {
	cfg, err := ParseConfig([]string{"--version"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, cfg.ShowVersion)
}

func TestParseConfig_Help(t *testing.T) {
	var usage bytes.Buffer
	_, err := ParseConfig([]string{"--help"}, &usage)

	assert.ErrorIs(t, err, pflag.ErrHelp)
	assert.Contains(t, usage.String(), "--flatten-overwrite")
}

func TestConfig_Transformer(t *testing.T) {
	cfg := &Config{Engine: EngineFFmpeg, Tool: "/usr/local/bin/ffmpeg"}

	tr, ok := cfg.Transformer().(*compressor.FFmpegTransformer)
	require.True(t, ok)
	assert.Equal(t, "/usr/local/bin/ffmpeg", tr.Binary)
	assert.Equal(t, "/usr/local/bin/ffmpeg", cfg.ProcessorOptions().Tool)
}

func TestConfig_LoggerOptions(t *testing.T) {
	var stdout, stderr bytes.Buffer

	opts := (&Config{}).LoggerOptions(&stdout, &stderr)
	assert.Same(t, &stdout, opts.Output)
	assert.Same(t, &stderr, opts.ErrOutput)
	assert.False(t, opts.EnableColors, "buffers are never terminals")
	assert.Equal(t, slog.LevelInfo, opts.Level)

	opts = (&Config{Verbose: true, JSON: true}).LoggerOptions(&stdout, &stderr)
	assert.Equal(t, slog.LevelDebug, opts.Level)
	assert.True(t, opts.EnableJSON)
}

func TestConfig_LoggerOptionsColorsNeedBothTerminals(t *testing.T) {
	orig := colorsSupported
	t.Cleanup(func() { colorsSupported = orig })
	colorsSupported = func(*os.File) bool { return true }

	stdout, err := os.CreateTemp(t.TempDir(), "stdout")
	require.NoError(t, err)
	defer stdout.Close()
	stderr, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	defer stderr.Close()

	tests := []struct {
		name   string
		cfg    Config
		stdout io.Writer
		stderr io.Writer
		want   bool
	}{
		{"both terminals", Config{}, stdout, stderr, true},
		{"stderr redirected", Config{}, stdout, &bytes.Buffer{}, false},
		{"stdout redirected", Config{}, &bytes.Buffer{}, stderr, false},
		{"no-color", Config{NoColor: true}, stdout, stderr, false},
		{"json", Config{JSON: true}, stdout, stderr, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.LoggerOptions(tt.stdout, tt.stderr).EnableColors)
		})
	}
}
