// Package notes derives one short working note from a finished turn.
package notes

import (
	"context"
	"strings"

	"github.com/neuronaut/clarity/pkg/errorsx"
	"github.com/neuronaut/clarity/pkg/lang"
	"github.com/neuronaut/clarity/pkg/llm"
)

// tailMessages is how much history the extractor sees; the fresh reply is
// appended on top of it.
const tailMessages = 6

// unsafeFragments mark refusals, apologies, or questions dressed up as notes.
var unsafeFragments = []string{
	"i cannot",
	"i can't",
	"i am unable",
	"i'm unable",
	"sorry",
	"please provide",
	"ask me",
	"as an ai",
}

// unsafePrefixes reject instructional phrasing; a note states a fact, it does
// not hand out homework.
var unsafePrefixes = []string{
	"research ",
	"consider ",
}

// IsSafeNote reports whether a candidate note is a usable factual statement.
// Pure function, no I/O.
func IsSafeNote(note string) bool {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, frag := range unsafeFragments {
		if strings.Contains(lower, frag) {
			return false
		}
	}
	for _, prefix := range unsafePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	return true
}

type Extractor struct {
	adapter     llm.Adapter
	temperature float64
}

func NewExtractor(adapter llm.Adapter) *Extractor {
	return &Extractor{adapter: adapter, temperature: 0.2}
}

// Extract runs the note model call over the conversation tail plus the fresh
// reply and returns a cleaned note. Unsafe or empty candidates come back as
// an empty string with a reasoned error; the caller discards the note and
// never retries.
func (e *Extractor) Extract(ctx context.Context, history []llm.Message, reply string, language lang.Language) (string, error) {
	messages := tail(history, tailMessages)
	messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: reply})
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: instruction(language)})

	resp, err := e.adapter.Generate(ctx, llm.Context{
		Messages:    messages,
		Temperature: e.temperature,
	})
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonNoteExtract)
	}
	note := Clean(resp.Text)
	if !IsSafeNote(note) {
		return "", errorsx.Wrap(errRejected, errorsx.ReasonNoteRejected)
	}
	return note, nil
}

type rejectedError struct{}

func (rejectedError) Error() string { return "note rejected by safety filter" }

var errRejected = rejectedError{}

// Clean strips wrapping quotes and trailing punctuation from a candidate.
func Clean(note string) string {
	note = strings.TrimSpace(note)
	note = strings.Trim(note, `"'`)
	note = strings.TrimRight(note, ".!,;:")
	return strings.TrimSpace(note)
}

func instruction(language lang.Language) string {
	return `From the conversation so far, extract ONE short working note.
Rules:
- First person, as if the user wrote it
- 6-12 words
- Written in ` + language.Name() + `
- Neutral, factual
- No names
- No advice
- No emotion
- No punctuation at the end

Example:
"worried about job security in technology"`
}

func tail(messages []llm.Message, n int) []llm.Message {
	if len(messages) <= n {
		out := make([]llm.Message, len(messages))
		copy(out, messages)
		return out
	}
	out := make([]llm.Message, n)
	copy(out, messages[len(messages)-n:])
	return out
}
