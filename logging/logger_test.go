package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ Logger = NoOpLogger{}
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*withLogger)(nil)
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	l.Debug("hidden")
	l.Info("agent.run.start", "agent", "orchestrator")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "agent.run.start", entry["msg"])
	assert.Equal(t, "orchestrator", entry["agent"])
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l := With(NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "text", Output: &buf}), "run_id", "r1")

	l.Debug("agent.turn", "turn", 1)

	assert.Contains(t, buf.String(), "run_id=r1")
	assert.Contains(t, buf.String(), "turn=1")
}

type recordingLogger struct {
	NoOpLogger
	args []any
}

func (r *recordingLogger) Info(_ string, args ...any) { r.args = args }

func TestWith_CustomLogger(t *testing.T) {
	rec := &recordingLogger{}
	With(rec, "a", 1).Info("msg", "b", 2)
	assert.Equal(t, []any{"a", 1, "b", 2}, rec.args)

	assert.Equal(t, NoOpLogger{}, With(nil, "a", 1))
	assert.Equal(t, NoOpLogger{}, OrNoOp(nil))
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{
		"debug": LogLevelDebug,
		"INFO":  LogLevelInfo,
		"":      LogLevelInfo,
		"warn":  LogLevelWarn,
		"error": LogLevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, "WARN", LogLevelWarn.String())
}
