package core

import "context"

// DispatchResult is the closed shape produced by a recognizer for one user
// utterance. Anything beyond intent and confidence (entities, raw scores)
// travels in the Attributes bag so dispatch never depends on per-domain
// result types.
type DispatchResult struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Recognizer scores a user utterance into a single intent with a confidence
// in [0,1]. Implementations are external collaborators (LLM backed, keyword
// based, ...) and must be safe for concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, text string) (DispatchResult, error)
}

// RecognizerFunc adapts a plain function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, text string) (DispatchResult, error)

// Recognize implements Recognizer.
func (f RecognizerFunc) Recognize(ctx context.Context, text string) (DispatchResult, error) {
	return f(ctx, text)
}
