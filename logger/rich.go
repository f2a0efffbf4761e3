package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

type RichLoggerOptions struct {
	Output           io.Writer
	ErrOutput        io.Writer
	TimeFormat       string
	Level            slog.Level
	AddSource        bool
	EnableJSON       bool
	EnableColors     bool
	TimestampInJSON  bool
	CompactJSON      bool
	EnableSeparators bool
}

func DefaultOptions() *RichLoggerOptions {
	return &RichLoggerOptions{
		Level:           slog.LevelInfo,
		AddSource:       false,
		EnableColors:    ColorsSupported(os.Stdout),
		TimeFormat:      "2006-01-02 15:04:05.000",
		Output:          os.Stdout,
		ErrOutput:       os.Stderr,
		TimestampInJSON: true,
		CompactJSON:     true,
	}
}

// ColorsSupported reports whether ANSI colors should be written to f.
// NO_COLOR (https://no-color.org) and TERM=dumb always disable them.
func ColorsSupported(f *os.File) bool {
	if f == nil || os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type RichHandler struct {
	opts   *RichLoggerOptions
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

func NewRichHandler(opts *RichLoggerOptions) *RichHandler {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = opts.Output
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = DefaultOptions().TimeFormat
	}

	return &RichHandler{
		opts: opts,
		mu:   &sync.Mutex{},
	}
}

func (h *RichHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level
}

func (h *RichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := h.clone()
	h2.attrs = append(h2.attrs, attrs...)
	return h2
}

func (h *RichHandler) WithGroup(name string) slog.Handler {
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

// clone shares the mutex so derived loggers never interleave partial lines.
func (h *RichHandler) clone() *RichHandler {
	h2 := &RichHandler{
		opts:   h.opts,
		mu:     h.mu,
		attrs:  make([]slog.Attr, len(h.attrs)),
		groups: make([]string, len(h.groups)),
	}
	copy(h2.attrs, h.attrs)
	copy(h2.groups, h.groups)
	return h2
}

func (h *RichHandler) Handle(ctx context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.opts.EnableJSON {
		return h.handleJSON(ctx, record)
	}

	return h.handleText(ctx, record)
}

// writer routes warnings and errors to ErrOutput.
func (h *RichHandler) writer(level slog.Level) io.Writer {
	if level >= slog.LevelWarn {
		return h.opts.ErrOutput
	}
	return h.opts.Output
}

func (h *RichHandler) attrKey(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func (h *RichHandler) handleJSON(_ context.Context, record slog.Record) error {
	jsonMap := make(map[string]interface{})

	if h.opts.TimestampInJSON {
		jsonMap["time"] = record.Time.Format(h.opts.TimeFormat)
	}

	jsonMap["level"] = record.Level.String()

	if h.opts.AddSource && record.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := fs.Next()
		jsonMap["source"] = fmt.Sprintf("%s:%d", f.File, f.Line)
	}

	jsonMap["msg"] = record.Message

	for _, a := range h.attrs {
		jsonMap[a.Key] = a.Value.Any()
	}

	record.Attrs(func(a slog.Attr) bool {
		jsonMap[h.attrKey(a.Key)] = a.Value.Any()
		return true
	})

	var jsonData []byte
	var err error
	if h.opts.CompactJSON {
		jsonData, err = json.Marshal(jsonMap)
	} else {
		jsonData, err = json.MarshalIndent(jsonMap, "", "  ")
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(h.writer(record.Level), string(jsonData))
	return err
}

func (h *RichHandler) handleText(_ context.Context, record slog.Record) error {
	var builder strings.Builder

	levelColors := map[slog.Level]string{
		slog.LevelDebug: Cyan,
		slog.LevelInfo:  Green,
		slog.LevelWarn:  Yellow,
		slog.LevelError: Red,
	}

	colors := h.opts.EnableColors
	paint := func(code, s string) {
		if colors {
			builder.WriteString(code)
		}
		builder.WriteString(s)
		if colors {
			builder.WriteString(Reset)
		}
	}

	paint(Blue, record.Time.Format(h.opts.TimeFormat))
	builder.WriteString(" ")
	paint(levelColors[record.Level]+Bold, fmt.Sprintf("%-5s", strings.ToUpper(record.Level.String())))
	builder.WriteString(" ")

	if h.opts.AddSource && record.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := fs.Next()
		sourceFile := f.File
		if lastSlash := strings.LastIndex(sourceFile, "/"); lastSlash >= 0 {
			sourceFile = sourceFile[lastSlash+1:]
		}
		paint(Magenta, fmt.Sprintf("%s:%d", sourceFile, f.Line))
		builder.WriteString(" ")
	}

	builder.WriteString(record.Message)

	// Handler-level attrs (run id) are JSON-only; text output stays readable.
	record.Attrs(func(a slog.Attr) bool {
		builder.WriteString(" ")
		paint(Dim, h.attrKey(a.Key)+"="+a.Value.String())
		return true
	})

	if h.opts.EnableSeparators {
		builder.WriteString("\n")
		paint(Blue, strings.Repeat("─", 80))
	}

	_, err := fmt.Fprintln(h.writer(record.Level), builder.String())
	return err
}

func NewRichLogger(opts *RichLoggerOptions) *slog.Logger {
	if opts == nil {
		opts = DefaultOptions()
	}
	handler := NewRichHandler(opts)
	return slog.New(handler)
}
