package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"imgcompress/compressor"
	"imgcompress/logger"

	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "Unexpected error: %v\n", r)
			code = 1
		}
	}()

	// The console depends on flags, so configuration errors go straight to stderr.
	cfg, err := ParseConfig(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	console := logger.NewConsole(cfg.LoggerOptions(stdout, stderr))

	if cfg.ShowVersion {
		console.Box("imgcompress version information", fmt.Sprintf(
			"Version: %s\nBuild date: %s\nGit commit: %s",
			cfg.Version, BuildDate, GitCommit,
		))
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	processor := compressor.NewProcessor(cfg.Transformer(), console, cfg.ProcessorOptions())

	summary, err := processor.Run(ctx, cfg.InputPath)
	if err != nil {
		console.Error("Error during image compression: %v", err)
		return 1
	}

	if summary.Interrupted {
		return 1
	}
	if cfg.Strict && summary.Failed > 0 {
		console.Error("%d of %d images failed to compress", summary.Failed, summary.Total)
		return 1
	}

	return 0
}
