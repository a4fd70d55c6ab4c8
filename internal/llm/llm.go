// Package llm defines the language-model boundary. The model receives one
// rendered prompt and returns free-form text; everything downstream of this
// interface treats that text as untrusted.
package llm

import "context"

type Request struct {
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

type Client interface {
	// Complete submits the prompt as a single user message and returns the
	// model's text reply.
	Complete(ctx context.Context, req Request) (string, error)
}
