package memory

import (
	"fmt"
	"testing"
)

func TestLocalStoreCapsAndOrders(t *testing.T) {
	s := NewLocalStore(6)
	for i := 0; i < 8; i++ {
		s.Add(fmt.Sprintf("note %d", i))
	}
	notes := s.List()
	if len(notes) != 6 {
		t.Fatalf("expected cap of 6, got %d", len(notes))
	}
	if notes[0].Content != "note 7" {
		t.Fatalf("expected newest first, got %q", notes[0].Content)
	}
	if notes[5].Content != "note 2" {
		t.Fatalf("expected oldest kept to be note 2, got %q", notes[5].Content)
	}
}

func TestLocalStoreIgnoresBlankText(t *testing.T) {
	s := NewLocalStore(6)
	s.Add("real note")
	got := s.Add("   ")
	if len(got) != 1 {
		t.Fatalf("blank add should not grow the list, got %d", len(got))
	}
}

func TestLocalStoreListIsStable(t *testing.T) {
	s := NewLocalStore(6)
	s.Add("one")
	s.Add("two")
	first := s.List()
	second := s.List()
	if len(first) != len(second) {
		t.Fatalf("list changed between reads")
	}
	for i := range first {
		if first[i].Content != second[i].Content {
			t.Fatalf("order changed between reads")
		}
	}
}
