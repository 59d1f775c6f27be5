package debuglog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec), "line: %s", sc.Text())
		records = append(records, rec)
	}
	require.NoError(t, sc.Err())
	return records
}

func messages(records []map[string]any) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r["msg"].(string))
	}
	return out
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelOff, "OFF"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.level.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" info ", LevelInfo},
		{"WARN", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"off", LevelOff},
		{"INVALID", LevelInfo},
		{"", LevelInfo},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, ParseLogLevel(test.input), "input %q", test.input)
	}
}

func TestSetupWithLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "test.log")

	require.NoError(t, Setup(LevelInfo, logPath))
	assert.Equal(t, LevelInfo, GetLevel())

	Debugf("debug message")
	Infof("info message %d", 1)
	Warnf("warn message")
	Errorf("error message")

	require.NoError(t, Close())

	records := readRecords(t, logPath)
	assert.Equal(t, []string{"info message 1", "warn message", "error message"}, messages(records))
	assert.Equal(t, "info", records[0]["level"])
	assert.Equal(t, "gamesearch", records[0]["logger"])
}

func TestSetupWithLevelOff(t *testing.T) {
	require.NoError(t, Setup(LevelOff))
	assert.Equal(t, LevelOff, GetLevel())

	// Nop logger; nothing to assert beyond not panicking.
	Debugf("debug message")
	Errorf("error message")
	WithFields(map[string]interface{}{"k": "v"}).Errorf("field message")
}

func TestBackwardCompatibility(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	SetupWithBool(true)
	assert.Equal(t, LevelInfo, GetLevel())

	SetupWithBool(false)
	assert.Equal(t, LevelOff, GetLevel())
}

func TestFieldLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "field_test.log")

	require.NoError(t, Setup(LevelDebug, logPath))

	logger := WithFields(map[string]interface{}{
		"component":  "search",
		"request_id": "abc",
		"token":      42,
	})
	logger.Infof("request issued")
	logger.Debugf("debug with fields")

	require.NoError(t, Close())

	records := readRecords(t, logPath)
	require.Len(t, records, 2)
	assert.Equal(t, "request issued", records[0]["msg"])
	assert.Equal(t, "search", records[0]["component"])
	assert.Equal(t, "abc", records[0]["request_id"])
	assert.EqualValues(t, 42, records[0]["token"])
}

func TestSetLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")
	require.NoError(t, Setup(LevelDebug, logPath))
	defer Close()

	SetLevel(LevelError)
	assert.Equal(t, LevelError, GetLevel())

	Infof("suppressed")
	Errorf("kept")
	require.NoError(t, Close())

	assert.Equal(t, []string{"kept"}, messages(readRecords(t, logPath)))
}
