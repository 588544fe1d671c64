// Public domain.

package logging_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/dstar/internal/config"
	"github.com/soniakeys/dstar/internal/logging"
)

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "": slog.LevelInfo, "Warning": slog.LevelWarn, "error": slog.LevelError,
	} {
		got, err := logging.ParseLevel(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
	_, err := logging.ParseLevel("trace")
	assert.Error(t, err)
}

func TestTerminalOnly(t *testing.T) {
	var buf bytes.Buffer
	l, c, err := logging.New(config.Logging{Level: "info"}, &buf)
	require.NoError(t, err)
	defer c.Close()
	logging.Component(l, "ingest").Debug("hidden")
	logging.Component(l, "ingest").Info("read", "rows", 3)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "component=ingest")
	assert.Contains(t, out, "rows=3")
}

func TestFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "dstar.log")
	var buf bytes.Buffer
	l, c, err := logging.New(config.Logging{Level: "debug", File: fn, MaxSizeMB: 1}, &buf)
	require.NoError(t, err)
	logging.Component(l, "catalog").Debug("no WDS entry", "object", "STF 2118 AB")
	require.NoError(t, c.Close())

	f, err := os.Open(fn)
	require.NoError(t, err)
	defer f.Close()
	var found bool
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		if rec["msg"] == "no WDS entry" {
			found = true
			assert.Equal(t, "catalog", rec["component"])
			assert.Equal(t, "STF 2118 AB", rec["object"])
		}
	}
	assert.True(t, found)
	assert.True(t, strings.Contains(buf.String(), "no WDS entry"))
}

func TestNilComponentDiscards(t *testing.T) {
	l := logging.Component(nil, "x")
	require.NotNil(t, l)
	l.Info("nothing")
}
