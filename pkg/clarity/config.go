// Package clarity wires configuration, providers, and the HTTP surface
// into one runnable application.
package clarity

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`

	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Vendors VendorsConfig `mapstructure:"vendors"`
	Policy  PolicyConfig  `mapstructure:"policy"`
	Voice   VoiceConfig   `mapstructure:"voice"`
	Privacy PrivacyConfig `mapstructure:"privacy"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type StorageConfig struct {
	DSN string `mapstructure:"dsn"`
}

type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	LLM VendorConfig `mapstructure:"llm"`
	TTS VendorConfig `mapstructure:"tts"`
}

// PolicyConfig overrides pieces of the engine policy. Empty fields keep the
// built-in defaults.
type PolicyConfig struct {
	Persona          string   `mapstructure:"persona"`
	BlockedPhrases   []string `mapstructure:"blocked_phrases"`
	RedirectReply    string   `mapstructure:"redirect_reply"`
	FallbackReply    string   `mapstructure:"fallback_reply"`
	ClarifyReply     string   `mapstructure:"clarify_reply"`
	ReplyTemperature float64  `mapstructure:"reply_temperature"`
	ReplyTimeoutMS   int      `mapstructure:"reply_timeout_ms"`
	NoteTimeoutMS    int      `mapstructure:"note_timeout_ms"`
	MemoryLimit      int      `mapstructure:"memory_limit"`
}

type VoiceConfig struct {
	SignedLimit int `mapstructure:"signed_limit"`
	GuestLimit  int `mapstructure:"guest_limit"`
	MaxChars    int `mapstructure:"max_chars"`
	TimeoutMS   int `mapstructure:"timeout_ms"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.dsn", "clarity.db")
	v.SetDefault("policy.reply_temperature", 0.6)
	v.SetDefault("policy.reply_timeout_ms", 30000)
	v.SetDefault("policy.note_timeout_ms", 15000)
	v.SetDefault("policy.memory_limit", 6)
	v.SetDefault("voice.signed_limit", 3)
	v.SetDefault("voice.guest_limit", 1)
	v.SetDefault("voice.max_chars", 800)
	v.SetDefault("voice.timeout_ms", 30000)
	v.SetDefault("privacy.redact_pii", true)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Vendors.LLM.Provider) == "" {
		return fmt.Errorf("vendors.llm.provider is required")
	}
	if strings.TrimSpace(c.Vendors.TTS.Provider) == "" {
		return fmt.Errorf("vendors.tts.provider is required")
	}
	return nil
}

func expandEnvStrings(cfg *Config) {
	expandValue(reflect.ValueOf(cfg))
	cfg.Vendors.LLM.Settings = expandSettings(cfg.Vendors.LLM.Settings)
	cfg.Vendors.TTS.Settings = expandSettings(cfg.Vendors.TTS.Settings)
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		for k, v := range val {
			val[k] = expandAny(v)
		}
		return val
	default:
		return v
	}
}

func expandValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		expandValue(v.Elem())
		return
	}
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			expandValue(v.Field(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.ExpandEnv(v.String()))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			expandValue(v.Index(i))
		}
	}
}
