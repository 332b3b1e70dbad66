package guard

import "testing"

func TestFilterBlocksKnownPhrases(t *testing.T) {
	f := NewFilter(nil)
	cases := []string{
		"I want to kill myself",
		"my LAWSUIT is going badly",
		"I keep thinking about suicide",
		"she was an assault victim last year",
	}
	for _, text := range cases {
		if !f.IsBlocked(text) {
			t.Fatalf("expected blocked: %q", text)
		}
	}
}

func TestFilterMatchesInsideLongerWords(t *testing.T) {
	// Substring containment has no word boundaries; this is intended.
	f := NewFilter(nil)
	if !f.IsBlocked("reading about tumors in biology class") {
		t.Fatalf("expected substring hit on tumor")
	}
}

func TestFilterPassesBenignText(t *testing.T) {
	f := NewFilter(nil)
	cases := []string{
		"",
		"   ",
		"I think I might lose my job soon",
		"should I switch careers into data work",
	}
	for _, text := range cases {
		if f.IsBlocked(text) {
			t.Fatalf("expected not blocked: %q", text)
		}
	}
}

func TestFilterCustomPhrases(t *testing.T) {
	f := NewFilter([]string{"Crypto Scheme"})
	if !f.IsBlocked("this crypto scheme sounds off") {
		t.Fatalf("expected custom phrase hit")
	}
	if f.IsBlocked("I want to kill myself") {
		t.Fatalf("custom list should replace defaults")
	}
}
