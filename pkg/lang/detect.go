// Package lang guesses a reply language from the latest user message.
// It is a fallback only: an explicit preference always wins upstream.
package lang

import "strings"

// Language is one of the four supported reply languages.
type Language string

const (
	English    Language = "en"
	Portuguese Language = "pt"
	Spanish    Language = "es"
	French     Language = "fr"
)

// Name returns the language name used in prompt directives.
func (l Language) Name() string {
	switch l {
	case Portuguese:
		return "Portuguese"
	case Spanish:
		return "Spanish"
	case French:
		return "French"
	default:
		return "English"
	}
}

// Parse maps a raw preference string to a Language, defaulting to empty
// when the value is not one of the supported codes.
func Parse(code string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(code))) {
	case English:
		return English, true
	case Portuguese:
		return Portuguese, true
	case Spanish:
		return Spanish, true
	case French:
		return French, true
	}
	return "", false
}

// Marker sets checked in fixed priority order. Diacritics are substring
// matches, words are whole-token matches. First hit wins.
var (
	ptMarks = []string{"ã", "õ", "ç"}
	ptWords = []string{"não", "você", "voce", "trabalho", "estou", "muito", "obrigado", "obrigada", "já", "então", "emprego"}

	esMarks = []string{"¿", "¡", "ñ"}
	esWords = []string{"estoy", "trabajo", "preocupado", "preocupada", "dinero", "gracias", "hola", "tengo", "quiero", "pero", "futuro"}

	frMarks = []string{"è", "ê", "î", "û", "œ"}
	frWords = []string{"je", "suis", "travail", "bonjour", "merci", "inquiet", "très", "oui", "avenir"}
)

// Detect classifies text as one of the four languages. Deterministic and
// total: every input maps to exactly one language, unknown text is English.
func Detect(text string) Language {
	lower := strings.ToLower(text)
	tokens := tokenize(lower)
	switch {
	case matches(lower, tokens, ptMarks, ptWords):
		return Portuguese
	case matches(lower, tokens, esMarks, esWords):
		return Spanish
	case matches(lower, tokens, frMarks, frWords):
		return French
	}
	return English
}

func matches(lower string, tokens map[string]bool, marks, words []string) bool {
	for _, m := range marks {
		if strings.Contains(lower, m) {
			return true
		}
	}
	for _, w := range words {
		if tokens[w] {
			return true
		}
	}
	return false
}

func tokenize(lower string) map[string]bool {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', '.', ',', ';', ':', '!', '?', '"', '\'', '(', ')':
			return true
		}
		return false
	})
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		out[f] = true
	}
	return out
}
