// Package guard holds the content gate that sits in front of every model call.
package guard

import "strings"

// DefaultBlockedPhrases covers crisis, acute medical, legal, and harm topics.
// Matching is deliberately coarse: substring containment, no word boundaries.
var DefaultBlockedPhrases = []string{
	"suicidal", "suicide", "kill myself", "self harm",
	"eating disorder", "anorexia", "bulimia",
	"hallucination", "hearing voices", "delusion",
	"bipolar disorder", "schizophrenia",
	"cancer diagnosis", "tumor", "chest pain", "heart attack",
	"medical diagnosis", "prescription medication",
	"divorce lawyer", "custody battle", "sue someone",
	"lawsuit", "court case",
	"hurt someone", "kill someone", "attack someone",
	"sexual abuse", "physical abuse", "domestic violence",
	"rape", "assault victim",
}

// Filter blocks text containing any configured phrase.
type Filter struct {
	phrases []string
}

// NewFilter builds a filter over the given phrase list. Phrases are stored
// lowercased; an empty list falls back to DefaultBlockedPhrases.
func NewFilter(phrases []string) *Filter {
	if len(phrases) == 0 {
		phrases = DefaultBlockedPhrases
	}
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return &Filter{phrases: lowered}
}

// IsBlocked reports whether text contains any blocked phrase,
// case-insensitively. Empty text is never blocked.
func (f *Filter) IsBlocked(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range f.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
