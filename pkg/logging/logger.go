package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/clog/hooks"
	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidOption is returned for unknown formats or levels.
var ErrInvalidOption = errors.New("invalid logging option")

// Logs go to stderr so stdout stays clean for the resolved version.
var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func Default() *slog.Logger {
	return defaultLogger
}

// Configure replaces the default logger. format is "text" or "json"; output
// is "stderr", "stdout" ("-") or a file path.
func Configure(format, level, output string) error {
	logger, err := New(format, level, output)
	if err != nil {
		return err
	}
	defaultLogger = logger
	return nil
}

func New(format, level, output string) (*slog.Logger, error) {
	levelMap := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	lv, ok := levelMap[level]
	if !ok {
		return nil, goerr.Wrap(ErrInvalidOption, "invalid log level", goerr.V("value", level))
	}
	// Reject the format before a log file is created for it.
	if format != "text" && format != "json" {
		return nil, errInvalidFormat(format)
	}

	var w io.Writer
	switch output {
	case "", "stderr":
		w = os.Stderr
	case "stdout", "-":
		w = os.Stdout
	default:
		fd, err := os.Create(filepath.Clean(output))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", output))
		}
		w = fd
	}

	return NewWithWriter(format, lv, w)
}

func NewWithWriter(format string, level slog.Level, w io.Writer) (*slog.Logger, error) {
	var handler slog.Handler
	switch format {
	case "text":
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithColorMap(&clog.ColorMap{
				Level: map[slog.Level]*color.Color{
					slog.LevelDebug: color.New(color.FgGreen, color.Bold),
					slog.LevelInfo:  color.New(color.FgCyan, color.Bold),
					slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
					slog.LevelError: color.New(color.FgRed, color.Bold),
				},
				LevelDefault: color.New(color.FgBlue, color.Bold),
				Time:         color.New(color.FgWhite),
				Message:      color.New(color.FgHiWhite),
				AttrKey:      color.New(color.FgHiCyan),
				AttrValue:    color.New(color.FgHiWhite),
			}),
			clog.WithAttrHook(hooks.GoErr()),
		)

	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})

	default:
		return nil, errInvalidFormat(format)
	}

	return slog.New(handler), nil
}

func errInvalidFormat(format string) error {
	return goerr.Wrap(ErrInvalidOption, "invalid log format, should be 'json' or 'text'", goerr.V("value", format))
}

type ctxLoggerKey struct{}

func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From returns the logger stored in ctx, or the default logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}
