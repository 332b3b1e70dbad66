// Package prompt assembles the system instruction for the reply model call.
package prompt

import "strings"

// DefaultPersona is the assistant persona and behavioral policy.
const DefaultPersona = `You are NEURONAUT — a career clarity assistant.

CONVERSATION STYLE:
- Short replies (1-3 sentences)
- One idea only
- Human, calm, conversational
- No explanations unless asked
- No lists or bullets

SCOPE:
- Career uncertainty
- Work transitions
- Skill direction`

// safetyBoundary is restated on every composed prompt, unconditionally.
const safetyBoundary = `SAFETY:
- Never give medical, mental health, legal, or financial advice.
- If the user raises a crisis, medical, legal, or harm topic, gently redirect
  to professional help and return to career topics.`

// Profile carries the optional personalization facts for one turn.
type Profile struct {
	DisplayName  string
	Pronoun      string
	Country      string
	IntakeReason string
}

var reasonPhrases = map[string]string{
	"work":    "uncertainty about their current work",
	"finance": "money and income concerns",
	"future":  "uncertainty about their longer-term direction",
	"other":   "something they have not categorized yet",
}

var pronounPhrases = map[string]string{
	"they":    "they/them",
	"he":      "he/him",
	"she":     "she/her",
	"neutral": "they/them",
}

// Compose builds the full system prompt. Order: persona, safety boundary,
// personalization (each fragment independently optional), language directive,
// memory block verbatim. Pure string assembly, no side effects.
func Compose(persona string, profile Profile, languageName, memoryBlock string) string {
	if strings.TrimSpace(persona) == "" {
		persona = DefaultPersona
	}
	var b strings.Builder
	b.WriteString(strings.TrimSpace(persona))
	b.WriteString("\n\n")
	b.WriteString(safetyBoundary)

	if who := personalization(profile); who != "" {
		b.WriteString("\n\nABOUT THE USER:\n")
		b.WriteString(who)
	}

	b.WriteString("\n\nRespond in ")
	b.WriteString(languageName)
	b.WriteString(".")

	if strings.TrimSpace(memoryBlock) != "" {
		b.WriteString("\n\nKNOWN CONTEXT FROM EARLIER SESSIONS:\n")
		b.WriteString(strings.TrimSpace(memoryBlock))
	}
	return b.String()
}

func personalization(p Profile) string {
	var lines []string
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		lines = append(lines, "- Their name is "+name+".")
	}
	if phrase, ok := pronounPhrases[strings.ToLower(strings.TrimSpace(p.Pronoun))]; ok {
		lines = append(lines, "- Refer to them with "+phrase+" pronouns.")
	}
	if country := strings.TrimSpace(p.Country); country != "" {
		lines = append(lines, "- They live in "+country+".")
	}
	if phrase, ok := reasonPhrases[strings.ToLower(strings.TrimSpace(p.IntakeReason))]; ok {
		lines = append(lines, "- They came here about "+phrase+".")
	}
	return strings.Join(lines, "\n")
}

// MemoryBlock renders recent note contents as a short bulleted block.
func MemoryBlock(contents []string) string {
	var lines []string
	for _, c := range contents {
		c = strings.TrimSpace(c)
		if c != "" {
			lines = append(lines, "- "+c)
		}
	}
	return strings.Join(lines, "\n")
}
