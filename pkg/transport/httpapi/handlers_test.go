package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/neuronaut/clarity/pkg/engine"
	"github.com/neuronaut/clarity/pkg/memory"
	"github.com/neuronaut/clarity/pkg/providers/mock"
	"github.com/neuronaut/clarity/pkg/voice"
)

type nullStore struct{}

func (nullStore) Append(ctx context.Context, owner, content string) error { return nil }
func (nullStore) FetchRecent(ctx context.Context, owner string, limit int) ([]memory.WorkingNote, error) {
	return nil, nil
}
func (nullStore) EraseOwner(ctx context.Context, owner string) error { return nil }

func newTestServer(t *testing.T, llmResponses []string) *Server {
	t.Helper()
	adapter := mock.NewLLMAdapter(mock.LLMConfig{Responses: llmResponses})
	eng := engine.New(engine.Policy{}, adapter, nullStore{}, nil)
	voiceSvc := voice.NewService(voice.Config{}, mock.NewTTS(mock.TTSConfig{Audio: []byte("mp3")}), voice.NewMemoryQuotaStore(), nil)
	return NewServer(Config{Port: 0}, eng, voiceSvc, nullStore{}, memory.NewLocalStore(6), nil)
}

func doJSON(s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestAgentMalformedBodyGetsClarifyingPrompt(t *testing.T) {
	s := newTestServer(t, nil)
	cases := []string{
		`{"messages": "not-an-array"}`,
		`{"messages": 42}`,
		`{"messages": null}`,
		`not json at all`,
		`{}`,
	}
	for _, body := range cases {
		rec := doJSON(s, http.MethodPost, "/api/agent", body, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("malformed body must still be 200, got %d for %q", rec.Code, body)
		}
		if !strings.Contains(rec.Body.String(), "Tell me what's on your mind about work.") {
			t.Fatalf("expected clarifying prompt, got %s", rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"note":null`) {
			t.Fatalf("note must be null, got %s", rec.Body.String())
		}
	}
}

func TestAgentTurnReturnsReplyAndNote(t *testing.T) {
	s := newTestServer(t, []string{
		"A calm reply.",
		"worried about job security in technology",
	})
	body := `{"messages": [{"role":"user","text":"I think I might lose my job soon"}], "context": {"languagePreference":"en"}}`
	rec := doJSON(s, http.MethodPost, "/api/agent", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := rec.Body.String()
	if !strings.Contains(out, `"reply":"A calm reply."`) {
		t.Fatalf("reply missing: %s", out)
	}
	if !strings.Contains(out, `"note":"worried about job security in technology"`) {
		t.Fatalf("note missing: %s", out)
	}
}

func TestAgentBlockedTurn(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"messages": [{"role":"user","text":"I want to kill myself"}]}`
	rec := doJSON(s, http.MethodPost, "/api/agent", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := rec.Body.String()
	if !strings.Contains(out, "can't help with medical") {
		t.Fatalf("expected redirect reply, got %s", out)
	}
	if !strings.Contains(out, `"note":null`) {
		t.Fatalf("blocked turn must carry null note: %s", out)
	}
}

func TestAgentMultipartPayload(t *testing.T) {
	s := newTestServer(t, []string{"Reply.", "weighing options for a career change soon"})
	form := strings.NewReader("--b\r\nContent-Disposition: form-data; name=\"payload\"\r\n\r\n" +
		`{"messages":[{"role":"user","text":"hello"}]}` + "\r\n--b--\r\n")
	req := httptest.NewRequest(http.MethodPost, "/api/agent", form)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"reply":"Reply."`) {
		t.Fatalf("multipart payload not handled: %s", rec.Body.String())
	}
}

func TestWorkingNotesFallbackPath(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(s, http.MethodGet, "/api/working-notes", "", nil)
	if !strings.Contains(rec.Body.String(), `"notes":[]`) {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}

	rec = doJSON(s, http.MethodPost, "/api/working-notes", `{"text":"exploring pet sitting as side income"}`, nil)
	if !strings.Contains(rec.Body.String(), "exploring pet sitting as side income") {
		t.Fatalf("note not returned: %s", rec.Body.String())
	}

	// Bad input still answers the current list with 200.
	rec = doJSON(s, http.MethodPost, "/api/working-notes", `{"text": 42}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestVoiceReturnsAudioThenGuestLimit(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(s, http.MethodPost, "/api/voice", `{"text":"hello"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Fatalf("expected audio/mpeg, got %s", ct)
	}

	rec = doJSON(s, http.MethodPost, "/api/voice", `{"text":"hello"}`, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec.Body.String() != "GUEST_LIMIT_REACHED" {
		t.Fatalf("expected GUEST_LIMIT_REACHED, got %q", rec.Body.String())
	}
}

func TestVoiceSignedLimit(t *testing.T) {
	s := newTestServer(t, nil)
	headers := map[string]string{"X-User-Id": "user-1"}

	for i := 0; i < 3; i++ {
		rec := doJSON(s, http.MethodPost, "/api/voice", `{"text":"hello"}`, headers)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec := doJSON(s, http.MethodPost, "/api/voice", `{"text":"hello"}`, headers)
	if rec.Code != http.StatusForbidden || rec.Body.String() != "SIGNED_LIMIT_REACHED" {
		t.Fatalf("expected SIGNED_LIMIT_REACHED 403, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestEraseRequiresIdentity(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(s, http.MethodPost, "/api/account/erase", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	rec = doJSON(s, http.MethodPost, "/api/account/erase", "", map[string]string{"X-User-Id": "user-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
