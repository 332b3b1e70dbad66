package mock

import (
	"context"
	"sync"

	"github.com/neuronaut/clarity/pkg/adapters/tts"
)

type TTSConfig struct {
	Audio []byte
	Err   error
}

// Synthesizer is a deterministic TTS double that records submitted text.
type Synthesizer struct {
	cfg   TTSConfig
	mu    sync.Mutex
	texts []string
}

func NewTTS(cfg TTSConfig) *Synthesizer {
	if len(cfg.Audio) == 0 && cfg.Err == nil {
		cfg.Audio = []byte("mock-audio")
	}
	return &Synthesizer{cfg: cfg}
}

func (s *Synthesizer) Name() string { return "mock_tts" }

func (s *Synthesizer) ContentType() string { return "audio/mpeg" }

func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.Err != nil {
		return nil, s.cfg.Err
	}
	s.texts = append(s.texts, text)
	return s.cfg.Audio, nil
}

// Texts returns every synthesized text in order.
func (s *Synthesizer) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.texts))
	copy(out, s.texts)
	return out
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
