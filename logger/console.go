package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Console is the human-facing reporter used by the CLI and the batch loop.
// Info and success lines go to Out; warnings and errors go to ErrOut.
type Console struct {
	Logger    *slog.Logger
	Out       io.Writer
	ErrOut    io.Writer
	Colorized bool
	// JSON is set when every log line is a JSON object; callers then log
	// records instead of printing tables.
	JSON      bool
}

func NewConsole(opts *RichLoggerOptions) *Console {
	if opts == nil {
		opts = DefaultOptions()
	}

	handler := NewRichHandler(opts)

	return &Console{
		Logger:    slog.New(handler),
		Out:       opts.Output,
		ErrOut:    opts.ErrOutput,
		Colorized: opts.EnableColors,
		JSON:      opts.EnableJSON,
	}
}

// With returns a Console whose log records carry args as attributes.
func (c *Console) With(args ...any) *Console {
	c2 := *c
	c2.Logger = c.Logger.With(args...)
	return &c2
}

func (c *Console) StartTimer(name string) *Timer {
	return &Timer{
		Name:      name,
		StartTime: time.Now(),
		Console:   c,
	}
}

func (c *Console) Success(format string, args ...interface{}) {
	msg := "✓ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Green + Bold + msg + Reset
	}
	c.Logger.Info(msg)
}

func (c *Console) Info(format string, args ...interface{}) {
	msg := "ℹ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Blue + Bold + msg + Reset
	}
	c.Logger.Info(msg)
}

func (c *Console) Log(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = White + msg + Reset
	}
	c.Logger.Info(msg)
}

func (c *Console) Debug(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Cyan + msg + Reset
	}
	c.Logger.Debug(msg)
}

func (c *Console) Warn(format string, args ...interface{}) {
	msg := "⚠ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Yellow + Bold + msg + Reset
	}
	c.Logger.Warn(msg)
}

func (c *Console) Error(format string, args ...interface{}) {
	msg := "✖ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Red + Bold + msg + Reset
	}
	c.Logger.Error(msg)
}

func (c *Console) NewTable(headers []string) *Table {
	return NewTable(headers, c.out(), c.Colorized)
}

// Box prints content inside a rounded border with title on the first line.
func (c *Console) Box(title string, content string) {
	body := title + "\n\n" + content

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if c.Colorized {
		style = style.BorderForeground(lipgloss.Color("4"))
	}

	fmt.Fprintln(c.out(), style.Render(body))
}

func (c *Console) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}
