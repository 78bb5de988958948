package recognizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClassifyPrompt_ListsIntents(t *testing.T) {
	prompt := BuildClassifyPrompt([]string{"calendar.create", "email.send"})

	assert.Contains(t, prompt, "- calendar.create")
	assert.Contains(t, prompt, "- email.send")
	assert.Contains(t, prompt, `"confidence"`)
}

func TestParseResult(t *testing.T) {
	result, err := ParseResult(`{"intent": "calendar.create", "confidence": 0.92}`)
	require.NoError(t, err)
	assert.Equal(t, "calendar.create", result.Intent)
	assert.InDelta(t, 0.92, result.Confidence, 1e-9)
}

func TestParseResult_StripsCodeFence(t *testing.T) {
	result, err := ParseResult("```json\n{\"intent\": \"none\", \"confidence\": 0.1}\n```")
	require.NoError(t, err)
	assert.Equal(t, "none", result.Intent)
}

func TestParseResult_ClampsConfidence(t *testing.T) {
	result, err := ParseResult(`{"intent": "x", "confidence": 1.7}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Confidence)

	result, err = ParseResult(`{"intent": "x", "confidence": -0.3}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestParseResult_Rejects(t *testing.T) {
	_, err := ParseResult("I think it's about calendars")
	assert.Error(t, err)

	_, err = ParseResult(`{"confidence": 0.9}`)
	assert.Error(t, err)
}

func TestKeyword_FirstRuleWins(t *testing.T) {
	k := NewKeyword().
		Add("meeting", "calendar.create", 0.9).
		Add("schedule", "calendar.query", 0.8)

	result, err := k.Recognize(context.Background(), "Schedule a MEETING for tomorrow")
	require.NoError(t, err)
	assert.Equal(t, "calendar.create", result.Intent)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestKeyword_NoMatch(t *testing.T) {
	k := NewKeyword().Add("meeting", "calendar.create", 0.9)

	result, err := k.Recognize(context.Background(), "how tall is the eiffel tower")
	require.NoError(t, err)
	assert.Equal(t, "none", result.Intent)
	assert.Equal(t, 0.0, result.Confidence)
}
