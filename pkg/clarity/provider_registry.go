package clarity

import (
	"fmt"
	"strings"

	"github.com/neuronaut/clarity/pkg/adapters/tts"
	"github.com/neuronaut/clarity/pkg/configutil"
	"github.com/neuronaut/clarity/pkg/llm"
	"github.com/neuronaut/clarity/pkg/providers/deepgram"
	"github.com/neuronaut/clarity/pkg/providers/elevenlabs"
	"github.com/neuronaut/clarity/pkg/providers/mock"
	"github.com/neuronaut/clarity/pkg/providers/openai"
)

type LLMFactory func(cfg VendorConfig) (llm.Adapter, error)
type TTSFactory func(cfg VendorConfig) (tts.Synthesizer, error)

type ProviderRegistry struct {
	llm map[string]LLMFactory
	tts map[string]TTSFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		llm: make(map[string]LLMFactory),
		tts: make(map[string]TTSFactory),
	}
}

// DefaultProviderRegistry returns a registry with every built-in provider
// registered.
func DefaultProviderRegistry() *ProviderRegistry {
	r := NewProviderRegistry()

	r.RegisterLLM("openai", func(cfg VendorConfig) (llm.Adapter, error) {
		if err := configutil.ValidateSettings(cfg.Settings, configutil.Schema{
			Required: []string{"api_key"},
			Optional: []string{"model", "base_url"},
		}); err != nil {
			return nil, fmt.Errorf("openai settings: %w", err)
		}
		var settings struct {
			APIKey  string `mapstructure:"api_key"`
			Model   string `mapstructure:"model"`
			BaseURL string `mapstructure:"base_url"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, fmt.Errorf("decode openai settings: %w", err)
		}
		if settings.Model == "" {
			settings.Model = "gpt-4o-mini"
		}
		adapter := openai.NewAdapter(settings.APIKey, settings.Model)
		if settings.BaseURL != "" {
			adapter.BaseURL = settings.BaseURL
		}
		return adapter, nil
	})

	r.RegisterLLM("mock", func(cfg VendorConfig) (llm.Adapter, error) {
		var settings struct {
			Responses []string `mapstructure:"responses"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, fmt.Errorf("decode mock llm settings: %w", err)
		}
		return mock.NewLLMAdapter(mock.LLMConfig{Responses: settings.Responses}), nil
	})

	r.RegisterTTS("elevenlabs", func(cfg VendorConfig) (tts.Synthesizer, error) {
		if err := configutil.ValidateSettings(cfg.Settings, configutil.Schema{
			Required: []string{"api_key", "voice_id"},
			Optional: []string{"model_id", "output_format", "stability", "similarity_boost"},
		}); err != nil {
			return nil, fmt.Errorf("elevenlabs settings: %w", err)
		}
		var settings struct {
			APIKey          string  `mapstructure:"api_key"`
			VoiceID         string  `mapstructure:"voice_id"`
			ModelID         string  `mapstructure:"model_id"`
			OutputFormat    string  `mapstructure:"output_format"`
			Stability       float64 `mapstructure:"stability"`
			SimilarityBoost float64 `mapstructure:"similarity_boost"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, fmt.Errorf("decode elevenlabs settings: %w", err)
		}
		return elevenlabs.New(elevenlabs.Config{
			APIKey:          settings.APIKey,
			VoiceID:         settings.VoiceID,
			ModelID:         settings.ModelID,
			OutputFormat:    settings.OutputFormat,
			Stability:       settings.Stability,
			SimilarityBoost: settings.SimilarityBoost,
		}), nil
	})

	r.RegisterTTS("deepgram", func(cfg VendorConfig) (tts.Synthesizer, error) {
		if err := configutil.ValidateSettings(cfg.Settings, configutil.Schema{
			Required: []string{"api_key"},
			Optional: []string{"model"},
		}); err != nil {
			return nil, fmt.Errorf("deepgram settings: %w", err)
		}
		var settings struct {
			APIKey string `mapstructure:"api_key"`
			Model  string `mapstructure:"model"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, fmt.Errorf("decode deepgram settings: %w", err)
		}
		return deepgram.New(deepgram.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		}), nil
	})

	r.RegisterTTS("mock", func(cfg VendorConfig) (tts.Synthesizer, error) {
		return mock.NewTTS(mock.TTSConfig{}), nil
	})

	return r
}

func (r *ProviderRegistry) RegisterLLM(name string, factory LLMFactory) {
	r.llm[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) RegisterTTS(name string, factory TTSFactory) {
	r.tts[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) BuildLLM(cfg VendorConfig) (llm.Adapter, error) {
	fn := r.llm[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if fn == nil {
		return nil, fmt.Errorf("llm provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildTTS(cfg VendorConfig) (tts.Synthesizer, error) {
	fn := r.tts[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if fn == nil {
		return nil, fmt.Errorf("tts provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}
