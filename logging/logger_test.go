package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*HostLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf})
	return logger, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestHostLogger_KeyValueArgsBecomeAttributes(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	logger.Info("turn routed", "conversation_id", "conv-1", "intent", "calendar.create", "confidence", 0.9)

	entry := decodeLine(t, buf)
	assert.Equal(t, "turn routed", entry["msg"], "args must not be formatted into the message")
	assert.Equal(t, "conv-1", entry["conversation_id"])
	assert.Equal(t, "calendar.create", entry["intent"])
	assert.InDelta(t, 0.9, entry["confidence"], 1e-9)
	assert.NotContains(t, buf.String(), "%!", "no printf mangling")
}

func TestHostLogger_DanglingArgKeptUnderBadKey(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	logger.Info("odd args", "key", "value", "dangling")

	entry := decodeLine(t, buf)
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "dangling", entry["!BADKEY"])
}

func TestHostLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelWarn)

	logger.Info("below threshold", "k", "v")
	assert.Zero(t, buf.Len())

	logger.Warn("at threshold")
	assert.NotZero(t, buf.Len())
}

func TestHostLogger_ConversationContext(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	logger.WithConversation("conv-1", "calendar").WithComponent("connector").Info("forwarding")

	entry := decodeLine(t, buf)
	assert.Equal(t, "conv-1", entry["conversation_id"])
	assert.Equal(t, "calendar", entry["skill_id"])
	assert.Equal(t, "connector", entry["component"])
}

func TestHostLogger_LogSkillCall(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	logger.LogSkillCall("calendar", 2, 120*time.Millisecond, false, errors.New("boom"))

	entry := decodeLine(t, buf)
	assert.Equal(t, "Skill call failed", entry["msg"])
	assert.Equal(t, "calendar", entry["skill_id"])
	assert.Equal(t, float64(2), entry["reply_count"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestHostLogger_ErrorWithStack(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	logger.ErrorWithStack(errors.New("boom"), "turn crashed", "conversation_id", "conv-1")

	entry := decodeLine(t, buf)
	assert.Equal(t, "turn crashed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "conv-1", entry["conversation_id"])
	assert.NotEmpty(t, entry["stack_trace"])
}
