// Package openai provides a core.Recognizer backed by the OpenAI Chat
// Completions API. It sends the utterance with a closed intent catalog and
// parses the model's JSON answer into a DispatchResult.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/recognizer"
)

// Options configure the OpenAI recognizer.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	// Intents is the closed catalog the model may choose from.
	Intents []string
}

// Recognizer wraps the OpenAI Chat Completions API behind the generic
// core.Recognizer interface.
type Recognizer struct {
	client *openai.Client
	opts   Options
}

var _ core.Recognizer = (*Recognizer)(nil)

// NewRecognizer creates a new OpenAI recognizer using the official client
func NewRecognizer(optFns ...func(o *Options)) *Recognizer {
	client := openai.NewClient()
	return NewRecognizerFromClient(&client, optFns...)
}

// NewRecognizerFromClient creates a new OpenAI recognizer from an existing client
func NewRecognizerFromClient(client *openai.Client, optFns ...func(o *Options)) *Recognizer {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0,
		MaxCompletionTokens: 256,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Recognizer{client: client, opts: opts}
}

// Recognize classifies one utterance into an intent with a confidence.
func (r *Recognizer) Recognize(ctx context.Context, text string) (core.DispatchResult, error) {
	params := openai.ChatCompletionNewParams{
		Model: r.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(recognizer.BuildClassifyPrompt(r.opts.Intents)),
			openai.UserMessage(text),
		},
		Temperature:         openai.Float(r.opts.Temperature),
		MaxCompletionTokens: openai.Int(r.opts.MaxCompletionTokens),
	}

	resp, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return core.DispatchResult{}, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return core.DispatchResult{}, fmt.Errorf("no choices returned")
	}
	return recognizer.ParseResult(resp.Choices[0].Message.Content)
}
