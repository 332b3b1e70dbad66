package configutil

import (
	"strings"
	"testing"
)

func TestDecodeSettingsNormalizesKeys(t *testing.T) {
	var out struct {
		APIKey  string `mapstructure:"api_key"`
		VoiceID string `mapstructure:"voice_id"`
	}
	err := DecodeSettings(map[string]any{
		"API-Key":  "xi-key",
		"voice_id": "voice-1",
	}, &out)
	if err != nil {
		t.Fatalf("DecodeSettings: %v", err)
	}
	if out.APIKey != "xi-key" || out.VoiceID != "voice-1" {
		t.Fatalf("decoded %+v", out)
	}
}

func TestDecodeSettingsWeakTyping(t *testing.T) {
	var out struct {
		Stability float64 `mapstructure:"stability"`
	}
	if err := DecodeSettings(map[string]any{"stability": "0.55"}, &out); err != nil {
		t.Fatalf("DecodeSettings: %v", err)
	}
	if out.Stability != 0.55 {
		t.Fatalf("stability = %v", out.Stability)
	}
}

func TestValidateSettingsMissingRequired(t *testing.T) {
	err := ValidateSettings(map[string]any{"model": "aura"}, Schema{
		Required: []string{"api_key"},
		Optional: []string{"model"},
	})
	if err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("err = %v, want missing api_key", err)
	}
}

func TestValidateSettingsUnknownKey(t *testing.T) {
	err := ValidateSettings(map[string]any{
		"api_key": "k",
		"bogus":   true,
	}, Schema{Required: []string{"api_key"}})
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("err = %v, want unknown bogus", err)
	}
}

func TestValidateSettingsEmptyRequiredValue(t *testing.T) {
	err := ValidateSettings(map[string]any{"api_key": "  "}, Schema{
		Required: []string{"api_key"},
	})
	if err == nil {
		t.Fatal("blank required value should fail")
	}
}
