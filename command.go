package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"imgcompress/compressor"
	"imgcompress/logger"

	"github.com/spf13/pflag"
)

const (
	EngineFFmpeg = "ffmpeg"
	EngineNative = "native"
)

type Config struct {
	InputPath        string
	Version          string
	Tool             string
	Engine           string
	Strict           bool
	FlattenOverwrite bool
	JSON             bool
	NoColor          bool
	Verbose          bool
	ShowVersion      bool
}

var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var errNoInput = errors.New("no input path specified")

// ParseConfig parses args (without the program name). Usage and flag errors
// are written to usage. pflag.ErrHelp is returned for -h/--help.
func ParseConfig(args []string, usage io.Writer) (*Config, error) {
	cfg := &Config{Version: Version}

	flags := pflag.NewFlagSet("imgcompress", pflag.ContinueOnError)
	flags.SetOutput(usage)

	flags.StringVar(&cfg.Tool, "tool", compressor.DefaultTool, "External compressor binary (called as <tool> -i <in> -compression_level 9 <out>)")
	flags.StringVar(&cfg.Engine, "engine", EngineFFmpeg, "Compression engine: ffmpeg | native")
	flags.BoolVar(&cfg.Strict, "strict", false, "Exit with status 1 when any file fails to compress")
	flags.BoolVar(&cfg.FlattenOverwrite, "flatten-overwrite", false, "Let images with the same name overwrite each other in compressed/")
	flags.BoolVar(&cfg.JSON, "json", false, "Write logs as JSON lines")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Show per-file details")
	flags.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")

	flags.Usage = func() {
		fmt.Fprintln(usage, "Usage: imgcompress [options] <folder-path>")
		fmt.Fprintln(usage, "\nCompresses every png, jpeg, jpg and webp image under <folder-path>")
		fmt.Fprintln(usage, "into <folder-path>/compressed.")
		fmt.Fprintln(usage, "\nOptions:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if cfg.ShowVersion {
		return cfg, nil
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		flags.Usage()
		return nil, errNoInput
	case len(rest) > 1:
		return nil, fmt.Errorf("expected exactly one folder path, got %d", len(rest))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.InputPath = rest[0]

	// A root that is a file is accepted; discovery finds no images in it.
	if _, err := os.Stat(cfg.InputPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("the specified folder does not exist: %s", cfg.InputPath)
		}
		return nil, fmt.Errorf("error: %w", err)
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Engine {
	case EngineFFmpeg, EngineNative:
	default:
		return fmt.Errorf("invalid engine %q (use '%s' or '%s')", cfg.Engine, EngineFFmpeg, EngineNative)
	}
	if cfg.Engine == EngineFFmpeg && cfg.Tool == "" {
		return errors.New("--tool must not be empty")
	}
	return nil
}

func (cfg *Config) Transformer() compressor.Transformer {
	if cfg.Engine == EngineNative {
		return compressor.NativeTransformer{}
	}
	return compressor.NewFFmpegTransformer(cfg.Tool)
}

func (cfg *Config) ProcessorOptions() compressor.Options {
	opts := compressor.Options{FlattenOverwrite: cfg.FlattenOverwrite}
	if cfg.Engine == EngineFFmpeg {
		opts.Tool = cfg.Tool
	}
	return opts
}

func (cfg *Config) LoggerOptions(stdout, stderr io.Writer) *logger.RichLoggerOptions {
	opts := logger.DefaultOptions()
	opts.Output = stdout
	opts.ErrOutput = stderr
	opts.EnableJSON = cfg.JSON

	opts.EnableColors = !cfg.NoColor && !cfg.JSON && isColorTerminal(stdout) && isColorTerminal(stderr)

	if cfg.Verbose {
		opts.Level = slog.LevelDebug
	}
	return opts
}

// colorsSupported is replaced in tests, where no stream is a terminal.
var colorsSupported = logger.ColorsSupported

// isColorTerminal reports whether w is a file that accepts ANSI colors.
func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && colorsSupported(f)
}
