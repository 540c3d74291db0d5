package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog_DisabledByDefault(t *testing.T) {
	// Must not panic without a logger.
	Debug(CatCLI, "nothing")
	ErrorErr(CatCLI, "nothing", errors.New("boom"))
}

func TestLog_Format(t *testing.T) {
	var buf bytes.Buffer
	reset := InitWriter(&buf)
	defer reset()

	Info(CatCLI, "Tokenized arguments", "args", 3, "tokens", 4)
	ErrorErr(CatConfig, "Failed to load", errors.New("boom"))
	Warn(CatRender, "odd fields", "orphan")

	out := buf.String()
	require.Contains(t, out, "[INFO] [cli] Tokenized arguments args=3 tokens=4\n")
	require.Contains(t, out, "[ERROR] [config] Failed to load error=boom\n")
	require.Contains(t, out, "[WARN] [render] odd fields orphan=<missing>\n")
}

func TestLog_MinLevelAndEnabled(t *testing.T) {
	var buf bytes.Buffer
	reset := InitWriter(&buf)
	defer reset()

	SetMinLevel(LevelWarn)
	Debug(CatCLI, "hidden")
	Info(CatCLI, "hidden")
	Error(CatCLI, "shown")

	SetEnabled(false)
	Error(CatCLI, "muted")

	require.NotContains(t, buf.String(), "hidden")
	require.NotContains(t, buf.String(), "muted")
	require.Contains(t, buf.String(), "shown")
}

func TestLog_InitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexarg.log")
	cleanup, err := Init(path)
	require.NoError(t, err)

	Debug(CatHarness, "parsed", "filters", 2)
	cleanup()
	Debug(CatHarness, "after cleanup")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[DEBUG] [harness] parsed filters=2")
	require.NotContains(t, string(data), "after cleanup")
}

func TestLog_InitFileError(t *testing.T) {
	_, err := Init(filepath.Join(t.TempDir(), "missing", "dir", "lexarg.log"))
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelDebug,
	}
	for in, expected := range tests {
		require.Equal(t, expected, ParseLevel(in), in)
		require.NotEqual(t, "UNKNOWN", expected.String())
	}
	require.Equal(t, "UNKNOWN", Level(42).String())
}
