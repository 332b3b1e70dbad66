// Package llm defines the provider-neutral model adapter contract.
package llm

import "context"

// Message is one chat turn in provider-neutral form.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Context is the input to a single model call.
type Context struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Response struct {
	Text         string
	Usage        Usage
	FinishReason string
}

// Adapter generates one completion per call. Implementations must honor
// ctx cancellation and deadlines.
type Adapter interface {
	Generate(ctx context.Context, input Context) (Response, error)
	Name() string
}
