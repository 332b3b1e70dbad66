package deepgram

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/speak/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/speak"

	"github.com/neuronaut/clarity/pkg/adapters/tts"
)

type Config struct {
	APIKey string
	Model  string
}

// Synthesizer speaks text through the Deepgram REST speak API.
type Synthesizer struct {
	cfg Config
}

func New(cfg Config) *Synthesizer {
	if cfg.Model == "" {
		cfg.Model = "aura-2-thalia-en"
	}
	return &Synthesizer{cfg: cfg}
}

func (s *Synthesizer) Name() string { return "deepgram_tts" }

func (s *Synthesizer) ContentType() string { return "audio/mpeg" }

func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return nil, errors.New("missing deepgram api key")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty text")
	}

	options := &interfaces.SpeakOptions{
		Model:    s.cfg.Model,
		Encoding: "mp3",
	}
	rest := client.NewREST(s.cfg.APIKey, &interfaces.ClientOptions{})
	speak := api.New(rest)

	var buf interfaces.RawResponse
	if _, err := speak.ToStream(ctx, text, options, &buf); err != nil {
		slog.Error("deepgram speak failed", slog.String("error", err.Error()))
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, errors.New("no audio received")
	}
	return buf.Bytes(), nil
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
