package elevenlabs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/neuronaut/clarity/pkg/adapters/tts"
	"github.com/neuronaut/clarity/pkg/resilience"
)

type Config struct {
	APIKey          string
	VoiceID         string
	ModelID         string
	OutputFormat    string
	Stability       float64
	SimilarityBoost float64
}

// Synthesizer collects ElevenLabs stream-input audio chunks into one
// MP3 payload.
type Synthesizer struct {
	cfg Config
}

func New(cfg Config) *Synthesizer {
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "mp3_44100_128"
	}
	if cfg.Stability == 0 {
		cfg.Stability = 0.55
	}
	if cfg.SimilarityBoost == 0 {
		cfg.SimilarityBoost = 0.85
	}
	return &Synthesizer{cfg: cfg}
}

func (s *Synthesizer) Name() string { return "elevenlabs_tts" }

func (s *Synthesizer) ContentType() string { return "audio/mpeg" }

func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.cfg.APIKey == "" || s.cfg.VoiceID == "" {
		return nil, errors.New("missing elevenlabs config")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty text")
	}

	dialer := websocket.Dialer{Proxy: http.ProxyFromEnvironment}
	conn, resp, err := dialer.DialContext(ctx, s.buildURL(), http.Header{
		"xi-api-key": []string{s.cfg.APIKey},
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			slog.Error("elevenlabs rate limit exceeded", slog.String("status", resp.Status))
			return nil, resilience.RateLimitError{Provider: "elevenlabs", Message: resp.Status}
		}
		return nil, err
	}
	defer conn.Close()

	deadline := time.Now().Add(30 * time.Second)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	_ = conn.SetReadDeadline(deadline)
	_ = conn.SetWriteDeadline(deadline)

	if err := s.send(conn, map[string]any{
		"text": " ",
		"voice_settings": map[string]any{
			"stability":        s.cfg.Stability,
			"similarity_boost": s.cfg.SimilarityBoost,
		},
	}); err != nil {
		return nil, err
	}
	if !strings.HasSuffix(text, " ") {
		text += " "
	}
	if err := s.send(conn, map[string]any{"text": text, "try_trigger_generation": true}); err != nil {
		return nil, err
	}
	// Empty text closes the input stream; the server answers with the
	// remaining audio and a final marker.
	if err := s.send(conn, map[string]any{"text": ""}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && buf.Len() > 0 {
				return buf.Bytes(), nil
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		final, err := s.collect(&buf, data)
		if err != nil {
			return nil, err
		}
		if final {
			break
		}
	}
	if buf.Len() == 0 {
		return nil, errors.New("no audio received")
	}
	return buf.Bytes(), nil
}

func (s *Synthesizer) collect(buf *bytes.Buffer, data []byte) (bool, error) {
	var msg struct {
		Audio   string `json:"audio"`
		IsFinal *bool  `json:"isFinal"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Warn("elevenlabs raw payload", "data", string(data))
		return false, nil
	}
	if msg.Error != "" {
		return false, errors.New(msg.Error + ": " + msg.Message)
	}
	if msg.Audio != "" {
		raw, err := base64.StdEncoding.DecodeString(msg.Audio)
		if err != nil {
			return false, err
		}
		buf.Write(raw)
	}
	return msg.IsFinal != nil && *msg.IsFinal, nil
}

func (s *Synthesizer) buildURL() string {
	base := "wss://api.elevenlabs.io/v1/text-to-speech/" + s.cfg.VoiceID + "/stream-input"
	q := url.Values{}
	q.Set("model_id", s.cfg.ModelID)
	q.Set("output_format", s.cfg.OutputFormat)
	return base + "?" + q.Encode()
}

func (s *Synthesizer) send(conn *websocket.Conn, payload map[string]any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, b)
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
