package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/latest-version-resolver/pkg/logging"
	"github.com/m-mizutani/gt"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := logging.NewWithWriter("json", slog.LevelInfo, &buf)
		gt.NoError(t, err)

		logger.Info("resolved", slog.String("version", "v1.2.3"))
		logger.Debug("dropped")

		var entry map[string]any
		gt.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		gt.V(t, entry["msg"]).Equal(any("resolved"))
		gt.V(t, entry["version"]).Equal(any("v1.2.3"))
	})

	t.Run("text output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := logging.NewWithWriter("text", slog.LevelDebug, &buf)
		gt.NoError(t, err)

		logger.Debug("hello")
		gt.S(t, buf.String()).Contains("hello")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := logging.NewWithWriter("xml", slog.LevelInfo, &bytes.Buffer{})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, logging.ErrInvalidOption))
	})
}

func TestNew(t *testing.T) {
	_, err := logging.New("json", "verbose", "stderr")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, logging.ErrInvalidOption))

	logger, err := logging.New("json", "warn", "stderr")
	gt.NoError(t, err)
	gt.V(t, logger == nil).Equal(false)
}

func TestNewFileOutput(t *testing.T) {
	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "resolver.log")
		logger, err := logging.New("json", "info", path)
		gt.NoError(t, err)

		logger.Info("written to file")
		data, err := os.ReadFile(path)
		gt.NoError(t, err)
		gt.S(t, string(data)).Contains("written to file")
	})

	t.Run("invalid format does not create file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "resolver.log")
		_, err := logging.New("xml", "info", path)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, logging.ErrInvalidOption))

		_, statErr := os.Stat(path)
		gt.True(t, errors.Is(statErr, fs.ErrNotExist))
	})
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	gt.V(t, logging.From(ctx)).Equal(logging.Default())

	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ctx = logging.With(ctx, logger)
	gt.V(t, logging.From(ctx)).Equal(logger)
}
