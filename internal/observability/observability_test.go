package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/processors/minsev"
)

func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })
}

func TestInstrumentConsole(t *testing.T) {
	restoreDefaultLogger(t)
	var buf bytes.Buffer

	shutdown, err := instrument(context.Background(), &buf, slog.LevelWarn, "json", ExporterNone)
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	slog.Info("hidden")
	slog.Warn("shown", "machine", "example.com")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"machine":"example.com"`)
}

func TestInstrumentStdoutExporter(t *testing.T) {
	restoreDefaultLogger(t)
	var buf bytes.Buffer

	shutdown, err := instrument(context.Background(), &buf, slog.LevelInfo, "text", ExporterStdout)
	require.NoError(t, err)

	slog.Debug("filtered")
	slog.Info("exported")
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "exported")
	assert.NotContains(t, buf.String(), "filtered")
}

func TestInstrumentRejectsUnknownSettings(t *testing.T) {
	restoreDefaultLogger(t)
	var buf bytes.Buffer

	_, err := instrument(context.Background(), &buf, slog.LevelInfo, "xml", ExporterNone)
	assert.Error(t, err)

	_, err = instrument(context.Background(), &buf, slog.LevelInfo, "text", "syslog")
	assert.Error(t, err)
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, minsev.SeverityDebug, severity(slog.LevelDebug))
	assert.Equal(t, minsev.SeverityInfo, severity(slog.LevelInfo))
	assert.Equal(t, minsev.SeverityWarn, severity(slog.LevelWarn))
	assert.Equal(t, minsev.SeverityError, severity(slog.LevelError))
}
