package errorsx

import "testing"

func TestWrapAndReason(t *testing.T) {
	err := Wrap(assertErr{}, ReasonLLMGenerate)
	if Reason(err) != ReasonLLMGenerate {
		t.Fatalf("expected reason %s, got %s", ReasonLLMGenerate, Reason(err))
	}
	if !HasReason(err, ReasonLLMGenerate) {
		t.Fatalf("expected HasReason true")
	}
}

func TestWrapPreservesExistingReason(t *testing.T) {
	first := Wrap(assertErr{}, ReasonGuestLimitReached)
	second := Wrap(first, ReasonTTSSynthesize)
	if Reason(second) != ReasonGuestLimitReached {
		t.Fatalf("expected reason preserved, got %s", Reason(second))
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ReasonLLMGenerate) != nil {
		t.Fatalf("wrap of nil must stay nil")
	}
	if Reason(nil) != ReasonUnknown {
		t.Fatalf("nil error has unknown reason")
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
