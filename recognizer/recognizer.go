// Package recognizer provides intent recognizers for the dispatch layer:
// shared prompt and result handling for LLM-backed classifiers plus a
// deterministic keyword recognizer for development and tests. Provider
// implementations live in subpackages (openai, anthropic).
package recognizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/skillhost/core"
)

// BuildClassifyPrompt renders the system prompt for an intent classification
// call. The model must answer with a single JSON object; anything else is a
// parse failure surfaced to the caller.
func BuildClassifyPrompt(intents []string) string {
	var b strings.Builder
	b.WriteString("You classify one user utterance into exactly one intent.\n")
	b.WriteString("Known intents:\n")
	for _, intent := range intents {
		b.WriteString("- ")
		b.WriteString(intent)
		b.WriteString("\n")
	}
	b.WriteString("Respond with only a JSON object of the form ")
	b.WriteString(`{"intent": "<name>", "confidence": <0..1>}.` + "\n")
	b.WriteString("If no intent fits, use intent \"none\" with a low confidence.")
	return b.String()
}

// ParseResult decodes a model's classification answer into a DispatchResult.
// Confidence is clamped into [0,1] so a misbehaving model can never bypass
// the dispatch threshold with an out-of-range score.
func ParseResult(raw string) (core.DispatchResult, error) {
	raw = strings.TrimSpace(raw)
	// Models occasionally wrap the object in a code fence despite the prompt.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var result core.DispatchResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &result); err != nil {
		return core.DispatchResult{}, fmt.Errorf("parse classification: %w", err)
	}
	if result.Intent == "" {
		return core.DispatchResult{}, fmt.Errorf("parse classification: missing intent")
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	return result, nil
}

// Keyword is a deterministic recognizer mapping case-insensitive substrings
// to intents. It needs no network and is the default for examples and tests.
type Keyword struct {
	rules []keywordRule
}

type keywordRule struct {
	phrase     string
	intent     string
	confidence float64
}

var _ core.Recognizer = (*Keyword)(nil)

// NewKeyword creates an empty keyword recognizer.
func NewKeyword() *Keyword { return &Keyword{} }

// Add registers a phrase-to-intent rule. Rules match in registration order;
// the first hit wins.
func (k *Keyword) Add(phrase, intent string, confidence float64) *Keyword {
	k.rules = append(k.rules, keywordRule{phrase: strings.ToLower(phrase), intent: intent, confidence: confidence})
	return k
}

// Recognize implements core.Recognizer.
func (k *Keyword) Recognize(_ context.Context, text string) (core.DispatchResult, error) {
	lowered := strings.ToLower(text)
	for _, rule := range k.rules {
		if strings.Contains(lowered, rule.phrase) {
			return core.DispatchResult{Intent: rule.intent, Confidence: rule.confidence}, nil
		}
	}
	return core.DispatchResult{Intent: "none", Confidence: 0}, nil
}
