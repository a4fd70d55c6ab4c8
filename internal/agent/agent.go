// Package agent runs the query pipeline: prompt construction, model
// completion, response parsing, tool dispatch and answer formatting.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	clierr "github.com/suisage/suisage/internal/errors"
	"github.com/suisage/suisage/internal/extract"
	"github.com/suisage/suisage/internal/llm"
	"github.com/suisage/suisage/internal/market"
	"github.com/suisage/suisage/internal/model"
	"github.com/suisage/suisage/internal/prompt"
)

type Agent struct {
	llm    llm.Client
	market market.Client

	model       string
	maxTokens   int
	temperature float64
	network     string
}

type Option func(*Agent)

// WithModel overrides the completion model name.
func WithModel(name string) Option {
	return func(a *Agent) { a.model = name }
}

func WithMaxTokens(n int) Option {
	return func(a *Agent) { a.maxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(a *Agent) { a.temperature = t }
}

// WithNetwork sets the network used when an action omits one.
func WithNetwork(network string) Option {
	return func(a *Agent) { a.network = network }
}

func New(llmClient llm.Client, marketClient market.Client, opts ...Option) *Agent {
	a := &Agent{
		llm:    llmClient,
		market: marketClient,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask answers a free-text query. It never returns an error: every failure
// along the pipeline collapses into a response with status "error" so
// callers always have something to render.
func (a *Agent) Ask(ctx context.Context, query string) model.Response {
	resp, err := a.Do(ctx, query)
	if err != nil {
		return model.Response{
			Status: model.StatusError,
			Error:  err.Error(),
		}
	}
	return resp
}

// Do is Ask with the typed error preserved, for callers that map error
// codes to exit codes.
func (a *Agent) Do(ctx context.Context, query string) (model.Response, error) {
	content, err := a.llm.Complete(ctx, llm.Request{
		Prompt:      prompt.Build(query),
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		return model.Response{}, err
	}

	raw, ok := extract.JSON(content)
	if !ok {
		return model.Response{}, clierr.New(clierr.CodeUnparsable, "no JSON object found in model response")
	}
	var ai model.AIResponse
	if err := json.Unmarshal([]byte(raw), &ai); err != nil {
		return model.Response{}, clierr.Wrap(clierr.CodeUnparsable, "decode model response", err)
	}

	switch ai.Status {
	case model.StatusError:
		msg := ai.ErrorMessage
		if msg == "" {
			msg = ai.Reasoning
		}
		if msg == "" {
			msg = "model reported an error"
		}
		return model.Response{}, clierr.New(clierr.CodeModelFailed, msg)
	case model.StatusRequiresInfo:
		return model.Response{
			Status:  model.StatusNeedsInfo,
			Request: ai.Request,
		}, nil
	case model.StatusSuccess:
	default:
		return model.Response{}, clierr.New(clierr.CodeUnparsable,
			fmt.Sprintf("unexpected model status: %q", ai.Status))
	}

	results := make([]model.ActionResult, 0, len(ai.Actions))
	for _, action := range ai.Actions {
		result, err := a.executeAction(ctx, action)
		if err != nil {
			return model.Response{}, err
		}
		results = append(results, model.ActionResult{
			Tool:   action.Tool,
			Result: result,
			Action: action,
		})
	}

	final := ai.FinalAnswer
	if len(results) > 0 {
		final = formatFinalAnswer(final, results, query)
	}
	return model.Response{
		Status:      model.StatusSuccess,
		Reasoning:   ai.Reasoning,
		Results:     results,
		FinalAnswer: final,
	}, nil
}
