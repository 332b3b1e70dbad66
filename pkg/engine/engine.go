// Package engine orchestrates one conversational turn: content gate,
// language resolution, memory, the reply call, and note extraction.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/neuronaut/clarity/pkg/errorsx"
	"github.com/neuronaut/clarity/pkg/guard"
	"github.com/neuronaut/clarity/pkg/lang"
	"github.com/neuronaut/clarity/pkg/llm"
	"github.com/neuronaut/clarity/pkg/logging"
	"github.com/neuronaut/clarity/pkg/memory"
	"github.com/neuronaut/clarity/pkg/notes"
	"github.com/neuronaut/clarity/pkg/prompt"
	"github.com/neuronaut/clarity/pkg/redact"
)

// Message is one turn of client-supplied history. Never mutated.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TurnContext is the ephemeral per-request context. Every field is optional;
// an empty UserIdentity means a guest and guests never get notes persisted.
type TurnContext struct {
	LanguagePreference string `json:"languagePreference,omitempty"`
	UserIdentity       string `json:"userIdentity,omitempty"`
	DisplayName        string `json:"displayName,omitempty"`
	PronounPreference  string `json:"pronounPreference,omitempty"`
	Country            string `json:"country,omitempty"`
	IntakeReason       string `json:"intakeReason,omitempty"`
}

// TurnResult is what the boundary returns. Note is empty when no note
// survived this turn; the transport renders that as null.
type TurnResult struct {
	Reply string
	Note  string
}

// Policy parameterizes the engine: one engine, many deployments, no forked
// handlers. Zero values fall back to the defaults below.
type Policy struct {
	Persona        string
	BlockedPhrases []string
	RedirectReply  string
	FallbackReply  string
	ClarifyReply   string

	ReplyTemperature float64
	ReplyTimeout     time.Duration
	NoteTimeout      time.Duration
	MemoryLimit      int
}

const (
	defaultRedirectReply = `I can't help with medical, mental health crisis, legal, or harm-related topics.

For career and work exploration, I can discuss general directions.
What would you like to explore?`

	defaultFallbackReply = "Something went wrong. Please try again."

	defaultClarifyReply = "Tell me what's on your mind about work."
)

// DefaultPolicy returns the production policy.
func DefaultPolicy() Policy {
	return Policy{
		Persona:          prompt.DefaultPersona,
		BlockedPhrases:   guard.DefaultBlockedPhrases,
		RedirectReply:    defaultRedirectReply,
		FallbackReply:    defaultFallbackReply,
		ClarifyReply:     defaultClarifyReply,
		ReplyTemperature: 0.6,
		ReplyTimeout:     30 * time.Second,
		NoteTimeout:      15 * time.Second,
		MemoryLimit:      6,
	}
}

type Engine struct {
	policy    Policy
	adapter   llm.Adapter
	store     memory.Store
	filter    *guard.Filter
	extractor *notes.Extractor
	log       *slog.Logger
}

func New(policy Policy, adapter llm.Adapter, store memory.Store, logger *slog.Logger) *Engine {
	policy = withDefaults(policy)
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		policy:    policy,
		adapter:   adapter,
		store:     store,
		filter:    guard.NewFilter(policy.BlockedPhrases),
		extractor: notes.NewExtractor(adapter),
		log:       logging.NewComponentLogger(logger, "engine"),
	}
}

func withDefaults(p Policy) Policy {
	def := DefaultPolicy()
	if strings.TrimSpace(p.Persona) == "" {
		p.Persona = def.Persona
	}
	if len(p.BlockedPhrases) == 0 {
		p.BlockedPhrases = def.BlockedPhrases
	}
	if strings.TrimSpace(p.RedirectReply) == "" {
		p.RedirectReply = def.RedirectReply
	}
	if strings.TrimSpace(p.FallbackReply) == "" {
		p.FallbackReply = def.FallbackReply
	}
	if strings.TrimSpace(p.ClarifyReply) == "" {
		p.ClarifyReply = def.ClarifyReply
	}
	if p.ReplyTemperature <= 0 {
		p.ReplyTemperature = def.ReplyTemperature
	}
	if p.ReplyTimeout <= 0 {
		p.ReplyTimeout = def.ReplyTimeout
	}
	if p.NoteTimeout <= 0 {
		p.NoteTimeout = def.NoteTimeout
	}
	if p.MemoryLimit <= 0 {
		p.MemoryLimit = def.MemoryLimit
	}
	return p
}

// Policy returns the effective policy, defaults applied.
func (e *Engine) Policy() Policy { return e.policy }

// HandleTurn runs one full turn. It never returns an error: every internal
// failure maps to a calm fixed reply so the chat never looks broken.
func (e *Engine) HandleTurn(ctx context.Context, history []Message, tc TurnContext) TurnResult {
	lastUser := lastUserText(history)
	if lastUser != "" {
		e.log.Debug("turn received", slog.String("last_user", redact.Snippet(lastUser, 120)))
	}

	if e.filter.IsBlocked(lastUser) {
		e.log.Info("content filter tripped, redirecting")
		return TurnResult{Reply: e.policy.RedirectReply}
	}

	language := e.resolveLanguage(tc, lastUser)
	memoryBlock := e.loadMemory(ctx, tc.UserIdentity)

	system := prompt.Compose(e.policy.Persona, prompt.Profile{
		DisplayName:  tc.DisplayName,
		Pronoun:      tc.PronounPreference,
		Country:      tc.Country,
		IntakeReason: tc.IntakeReason,
	}, language.Name(), memoryBlock)

	reply, err := e.generateReply(ctx, system, history)
	if err != nil {
		e.log.Error("reply generation failed",
			slog.String("reason", string(errorsx.Reason(err))),
			slog.String("error", err.Error()))
		return TurnResult{Reply: e.policy.FallbackReply}
	}

	note := e.extractNote(ctx, history, reply, language)
	if note != "" && tc.UserIdentity != "" {
		e.persistNote(ctx, tc.UserIdentity, note)
	}
	return TurnResult{Reply: reply, Note: note}
}

func (e *Engine) resolveLanguage(tc TurnContext, lastUser string) lang.Language {
	if l, ok := lang.Parse(tc.LanguagePreference); ok {
		return l
	}
	return lang.Detect(lastUser)
}

func (e *Engine) loadMemory(ctx context.Context, identity string) string {
	if identity == "" || e.store == nil {
		return ""
	}
	recent, err := e.store.FetchRecent(ctx, identity, e.policy.MemoryLimit)
	if err != nil {
		// Read failure degrades to an empty memory block.
		e.log.Warn("memory fetch failed",
			slog.String("reason", string(errorsx.ReasonMemoryFetch)),
			slog.String("error", err.Error()))
		return ""
	}
	contents := make([]string, 0, len(recent))
	for _, n := range recent {
		contents = append(contents, n.Content)
	}
	return prompt.MemoryBlock(contents)
}

func (e *Engine) generateReply(ctx context.Context, system string, history []Message) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.policy.ReplyTimeout)
	defer cancel()

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})
	messages = append(messages, toLLMMessages(history)...)

	resp, err := e.adapter.Generate(callCtx, llm.Context{
		Messages:    messages,
		Temperature: e.policy.ReplyTemperature,
	})
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonLLMGenerate)
	}
	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		return "", errorsx.Wrap(errEmptyReply, errorsx.ReasonLLMGenerate)
	}
	return reply, nil
}

type emptyReplyError struct{}

func (emptyReplyError) Error() string { return "model returned empty reply" }

var errEmptyReply = emptyReplyError{}

// extractNote runs the second, dependent model call. A failed or rejected
// note never blocks the reply.
func (e *Engine) extractNote(ctx context.Context, history []Message, reply string, language lang.Language) string {
	callCtx, cancel := context.WithTimeout(ctx, e.policy.NoteTimeout)
	defer cancel()

	note, err := e.extractor.Extract(callCtx, toLLMMessages(history), reply, language)
	if err != nil {
		e.log.Info("note discarded",
			slog.String("reason", string(errorsx.Reason(err))))
		return ""
	}
	return note
}

func (e *Engine) persistNote(ctx context.Context, identity, note string) {
	if e.store == nil {
		return
	}
	if err := e.store.Append(ctx, identity, note); err != nil {
		// Write failure: the note still goes back to the client for this
		// turn's display, it just is not durable.
		e.log.Warn("memory append failed",
			slog.String("reason", string(errorsx.ReasonMemoryAppend)),
			slog.String("error", err.Error()))
	}
}

func lastUserText(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i].Text
		}
	}
	return ""
}

func toLLMMessages(history []Message) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Text})
	}
	return out
}
