package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/i18ndata/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNew_ContextAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info"}, &buf, logger.DefaultExtractors()...)

	ctx := logger.WithRequestID(context.Background(), "req-1")
	ctx = logger.WithLocale(ctx, "en-GB")
	ctx = logger.WithDataKey(ctx, "messages/greeting@1")
	log.InfoContext(ctx, "resolved", slog.String("resolved", "en"))

	rec := decode(t, &buf)
	assert.Equal(t, "resolved", rec["msg"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "en-GB", rec["locale"])
	assert.Equal(t, "messages/greeting@1", rec["data_key"])
	assert.Equal(t, "en", rec["resolved"])
	assert.Equal(t, "req-1", logger.RequestID(ctx))
}

func TestNew_SkipsEmptyValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{}, &buf, logger.RequestIDExtractor(), nil)
	log.InfoContext(logger.WithRequestID(context.Background(), ""), "hello")

	rec := decode(t, &buf)
	assert.NotContains(t, rec, "request_id")
}

func TestNew_LevelAndFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Format: "text"}, &buf)
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "msg=shown"), out)
}

func TestNew_GroupsKeepExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{}, &buf, logger.LocaleExtractor()).With(slog.String("component", "loader"))
	log.InfoContext(logger.WithLocale(context.Background(), "sr-Latn"), "x")

	rec := decode(t, &buf)
	assert.Equal(t, "loader", rec["component"])
	assert.Equal(t, "sr-Latn", rec["locale"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel(" ERROR "))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("loud"))
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}
