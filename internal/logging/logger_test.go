package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestJSONRecordsCarryContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewFromConfig(&buf, "info", "json").WithPhase("support").WithSource("mdn")
	l.BadVersion("clampFunction", "safari", "preview")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "bad version", rec["msg"])
	assert.Equal(t, "support", rec["phase"])
	assert.Equal(t, "mdn", rec["source"])
	assert.Equal(t, "preview", rec["version"])
}

func TestPhaseDone(t *testing.T) {
	var buf bytes.Buffer
	l := NewFromConfig(&buf, "info", "text")
	l.PhaseDone("load", time.Now(), nil)
	assert.Contains(t, buf.String(), "phase completed")

	buf.Reset()
	l.PhaseDone("emit", time.Now(), errors.New("gofmt: exit status 2"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "phase=emit")
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	NewFromConfig(&buf, "error", "text").BadVersion("x", "chrome", "?")
	assert.Empty(t, buf.String())
}
