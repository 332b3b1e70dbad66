package mock

import (
	"context"
	"sync"

	"github.com/neuronaut/clarity/pkg/llm"
)

type LLMConfig struct {
	// Responses are returned in order; the last one repeats.
	Responses []string
	Err       error
}

// LLMAdapter is a scripted model double that records every call.
type LLMAdapter struct {
	cfg   LLMConfig
	mu    sync.Mutex
	calls []llm.Context
}

func NewLLMAdapter(cfg LLMConfig) *LLMAdapter {
	if len(cfg.Responses) == 0 {
		cfg.Responses = []string{"mock response"}
	}
	return &LLMAdapter{cfg: cfg}
}

func (a *LLMAdapter) Name() string { return "mock_llm" }

func (a *LLMAdapter) Generate(ctx context.Context, input llm.Context) (llm.Response, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cfg.Err != nil {
		return llm.Response{}, a.cfg.Err
	}
	idx := len(a.calls)
	a.calls = append(a.calls, input)
	if idx >= len(a.cfg.Responses) {
		idx = len(a.cfg.Responses) - 1
	}
	return llm.Response{Text: a.cfg.Responses[idx], FinishReason: "stop"}, nil
}

// Calls returns a copy of every recorded call.
func (a *LLMAdapter) Calls() []llm.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]llm.Context, len(a.calls))
	copy(out, a.calls)
	return out
}

var _ llm.Adapter = (*LLMAdapter)(nil)
