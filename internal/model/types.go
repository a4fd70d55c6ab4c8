package model

import "time"

const EnvelopeVersion = "v1"

// Envelope wraps the output of direct market-data commands.
type Envelope struct {
	Version  string       `json:"version"`
	Success  bool         `json:"success"`
	Data     any          `json:"data,omitempty"`
	Error    *ErrorBody   `json:"error"`
	Warnings []string     `json:"warnings,omitempty"`
	Meta     EnvelopeMeta `json:"meta"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type EnvelopeMeta struct {
	RequestID string      `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
	Command   string      `json:"command"`
	Cache     CacheStatus `json:"cache"`
}

type CacheStatus struct {
	Status string `json:"status"`
	AgeMS  int64  `json:"age_ms"`
	Stale  bool   `json:"stale"`
}

// Action is one model-requested invocation of a tool with concrete inputs.
type Action struct {
	Tool  string         `json:"tool"`
	Input map[string]any `json:"input"`
}

// AIResponse is the structured object parsed out of the model's free-form
// reply. FinalAnswer may contain ${...} placeholders resolved against the
// first action's result.
type AIResponse struct {
	Status       string   `json:"status"`
	Reasoning    string   `json:"reasoning,omitempty"`
	Actions      []Action `json:"actions,omitempty"`
	FinalAnswer  string   `json:"final_answer,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
	Request      string   `json:"request,omitempty"`
}

// AIResponse status values the prompt instructs the model to emit.
const (
	StatusSuccess      = "success"
	StatusError        = "error"
	StatusRequiresInfo = "requires_info"
	StatusNeedsInfo    = "needs_info"
)

// ActionResult pairs a tool invocation with its raw result for one query.
type ActionResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result"`
	Action Action `json:"-"`
}

// Response is the public result of one query through the pipeline.
type Response struct {
	Status      string         `json:"status"`
	Reasoning   string         `json:"reasoning,omitempty"`
	Results     []ActionResult `json:"results,omitempty"`
	FinalAnswer string         `json:"final_answer,omitempty"`
	Error       string         `json:"error,omitempty"`
	Request     string         `json:"request,omitempty"`
}
