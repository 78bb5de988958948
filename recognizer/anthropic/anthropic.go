// Package anthropic provides a core.Recognizer backed by the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/recognizer"
)

// Options configures the Anthropic recognizer (model id, max tokens, API key,
// intent catalog). Extend via functional options to preserve stability.
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
	// Intents is the closed catalog the model may choose from.
	Intents []string
}

// Recognizer wraps the Anthropic Messages API behind the generic
// core.Recognizer interface.
type Recognizer struct {
	client *anthropic.Client
	opts   Options
}

var _ core.Recognizer = (*Recognizer)(nil)

// NewRecognizer creates a new Anthropic recognizer using the official client
func NewRecognizer(optFns ...func(o *Options)) *Recognizer {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 256,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Recognizer{
		client: &client,
		opts:   opts,
	}
}

// NewRecognizerFromClient creates a new Anthropic recognizer from an existing client
func NewRecognizerFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Recognizer {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 256,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Recognizer{
		client: client,
		opts:   opts,
	}
}

// Recognize classifies one utterance into an intent with a confidence.
func (r *Recognizer) Recognize(ctx context.Context, text string) (core.DispatchResult, error) {
	resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.opts.Model,
		MaxTokens: r.opts.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: recognizer.BuildClassifyPrompt(r.opts.Intents)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return core.DispatchResult{}, fmt.Errorf("anthropic api error: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.AsText().Text)
		}
	}
	if b.Len() == 0 {
		return core.DispatchResult{}, fmt.Errorf("no text content returned")
	}
	return recognizer.ParseResult(b.String())
}
