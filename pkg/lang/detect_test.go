package lang

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		text string
		want Language
	}{
		{"I think I might lose my job soon", English},
		{"", English},
		{"Estoy preocupado por mi trabajo", Spanish},
		{"¿Qué hago con mi carrera?", Spanish},
		{"Estou com medo de perder o trabalho, não sei o que fazer", Portuguese},
		{"Não sei se devo mudar de emprego", Portuguese},
		{"Je suis inquiet pour mon travail", French},
		{"Peut-être une autre carrière", French},
	}
	for _, tc := range cases {
		if got := Detect(tc.text); got != tc.want {
			t.Fatalf("Detect(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestDetectPriorityPortugueseFirst(t *testing.T) {
	// Mixed signals resolve by priority: Portuguese diacritics beat Spanish
	// and French markers.
	got := Detect("não sé qué hacer")
	if got != Portuguese {
		t.Fatalf("expected Portuguese priority, got %s", got)
	}
	got = Detect("ação très difficile")
	if got != Portuguese {
		t.Fatalf("expected Portuguese over French, got %s", got)
	}
}

func TestParse(t *testing.T) {
	if l, ok := Parse(" ES "); !ok || l != Spanish {
		t.Fatalf("Parse(es) = %s, %v", l, ok)
	}
	if _, ok := Parse("de"); ok {
		t.Fatalf("unsupported code should not parse")
	}
	if _, ok := Parse(""); ok {
		t.Fatalf("empty code should not parse")
	}
}

func TestName(t *testing.T) {
	if English.Name() != "English" || Portuguese.Name() != "Portuguese" ||
		Spanish.Name() != "Spanish" || French.Name() != "French" {
		t.Fatalf("language names wrong")
	}
}
