package notes

import (
	"context"
	"testing"

	"github.com/neuronaut/clarity/pkg/errorsx"
	"github.com/neuronaut/clarity/pkg/lang"
	"github.com/neuronaut/clarity/pkg/llm"
	"github.com/neuronaut/clarity/pkg/providers/mock"
)

func TestIsSafeNoteRejections(t *testing.T) {
	rejected := []string{
		"",
		"   ",
		"I cannot summarize this conversation",
		"Sorry, I need more details",
		"Please provide more context",
		"You can ask me anything else",
		"Research local training programs",
		"Consider a career coach",
	}
	for _, note := range rejected {
		if IsSafeNote(note) {
			t.Fatalf("expected rejection: %q", note)
		}
	}
}

func TestIsSafeNoteAccepts(t *testing.T) {
	accepted := []string{
		"worried about job security in technology",
		"exploring a move from sales into product work",
		"unsure whether current skills transfer to data roles",
		// "consider" inside a sentence is fine; only the prefix is unsafe.
		"may consider part time study next year",
	}
	for _, note := range accepted {
		if !IsSafeNote(note) {
			t.Fatalf("expected acceptance: %q", note)
		}
	}
}

func TestClean(t *testing.T) {
	cases := map[string]string{
		`"worried about job security in technology."`: "worried about job security in technology",
		"exploring new roles!":                        "exploring new roles",
		"  plain note  ":                              "plain note",
	}
	for in, want := range cases {
		if got := Clean(in); got != want {
			t.Fatalf("Clean(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractReturnsCleanNote(t *testing.T) {
	adapter := mock.NewLLMAdapter(mock.LLMConfig{Responses: []string{`"worried about losing current job soon."`}})
	e := NewExtractor(adapter)
	note, err := e.Extract(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "I think I might lose my job soon"},
	}, "That sounds stressful. What feels most uncertain?", lang.English)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if note != "worried about losing current job soon" {
		t.Fatalf("unexpected note: %q", note)
	}

	calls := adapter.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one model call, got %d", len(calls))
	}
	got := calls[0]
	if got.Temperature != 0.2 {
		t.Fatalf("note extraction should run at low temperature, got %v", got.Temperature)
	}
	last := got.Messages[len(got.Messages)-1]
	if last.Role != llm.RoleSystem {
		t.Fatalf("note instruction must be the final message")
	}
}

func TestExtractRejectedNote(t *testing.T) {
	adapter := mock.NewLLMAdapter(mock.LLMConfig{Responses: []string{"Sorry, I cannot help with that"}})
	e := NewExtractor(adapter)
	note, err := e.Extract(context.Background(), nil, "reply", lang.English)
	if note != "" {
		t.Fatalf("rejected note must be empty, got %q", note)
	}
	if !errorsx.HasReason(err, errorsx.ReasonNoteRejected) {
		t.Fatalf("expected note_rejected reason, got %v", err)
	}
}

func TestExtractLimitsHistoryTail(t *testing.T) {
	adapter := mock.NewLLMAdapter(mock.LLMConfig{Responses: []string{"stable factual note"}})
	e := NewExtractor(adapter)
	var history []llm.Message
	for i := 0; i < 20; i++ {
		history = append(history, llm.Message{Role: llm.RoleUser, Content: "msg"})
	}
	if _, err := e.Extract(context.Background(), history, "reply", lang.English); err != nil {
		t.Fatalf("extract: %v", err)
	}
	calls := adapter.Calls()
	// 6 history + reply + instruction
	if len(calls[0].Messages) != 8 {
		t.Fatalf("expected 8 messages, got %d", len(calls[0].Messages))
	}
	historyPart := calls[0].Messages[:len(calls[0].Messages)-2]
	if len(historyPart) != 6 {
		t.Fatalf("expected 6 history messages, got %d", len(historyPart))
	}
	if reply := calls[0].Messages[len(calls[0].Messages)-2]; reply.Content != "reply" {
		t.Fatalf("reply must follow the history tail, got %q", reply.Content)
	}
}
