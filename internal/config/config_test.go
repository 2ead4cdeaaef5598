package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	clearKeyEnv(t)
	for _, envVar := range []string{"AICMT_PROVIDER", "AICMT_BASE_URL", "AICMT_MODEL", "AICMT_REQUESTS_PER_MINUTE", "AICMT_ANALYSIS_PROMPT"} {
		t.Setenv(envVar, "")
	}
}

func TestLoad_FileValues(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, `
provider: gemini
api:
  key: from-file
  model: gemini-1.5-pro
  requests_per_minute: 30
prompts:
  analysis_prompt: "Group by subsystem."
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Provider != "gemini" {
		t.Errorf("Expected provider gemini, got %s", cfg.Provider)
	}
	if cfg.API.Key != "from-file" {
		t.Errorf("Expected key from-file, got %s", cfg.API.Key)
	}
	if cfg.API.Model != "gemini-1.5-pro" {
		t.Errorf("Expected model gemini-1.5-pro, got %s", cfg.API.Model)
	}
	if cfg.API.RequestsPerMinute != 30 {
		t.Errorf("Expected 30 requests per minute, got %d", cfg.API.RequestsPerMinute)
	}
	if cfg.Prompts.AnalysisPrompt != "Group by subsystem." {
		t.Errorf("Unexpected analysis prompt: %q", cfg.Prompts.AnalysisPrompt)
	}
}

func TestLoad_DefaultsSurviveEmptyFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, "api:\n  key: something\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Expected default provider openai, got %s", cfg.Provider)
	}
	if cfg.API.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("Expected default base URL, got %s", cfg.API.BaseURL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, "api:\n  key: from-file\n  model: file-model\n")

	t.Setenv("AICMT_API_KEY", "from-env")
	t.Setenv("AICMT_MODEL", "env-model")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.Key != "from-env" {
		t.Errorf("Expected env var to win, got key %s", cfg.API.Key)
	}
	if cfg.API.Model != "env-model" {
		t.Errorf("Expected env var to win, got model %s", cfg.API.Model)
	}
}

func TestLoad_ProviderSpecificEnvVar(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, "provider: gemini\napi:\n  key: from-file\n")

	t.Setenv("GEMINI_API_KEY", "gemini-env-key")
	t.Setenv("OPENAI_API_KEY", "openai-env-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.Key != "gemini-env-key" {
		t.Errorf("Expected gemini env key for gemini provider, got %s", cfg.API.Key)
	}
}

func TestLoad_WrongProviderEnvVarIgnored(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, "api:\n  key: from-file\n")

	// A Gemini key must not apply to the default openai provider.
	t.Setenv("GEMINI_API_KEY", "gemini-env-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.Key != "from-file" {
		t.Errorf("Expected config file key, got %s", cfg.API.Key)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, "provider: [unterminated\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected error for malformed config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.API.Key = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}

	cfg.Provider = "claude"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown provider")
	}

	cfg = Default()
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearConfigEnv(t)

	cfg := Default()
	cfg.Provider = "gemini"
	cfg.API.Key = "round-trip-key"
	cfg.API.Model = "gemini-2.0-flash"
	cfg.API.RequestsPerMinute = 12
	cfg.Prompts.AnalysisPrompt = "Short and sweet."

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != cfg.Provider {
		t.Errorf("Provider mismatch: %s vs %s", loaded.Provider, cfg.Provider)
	}
	if loaded.API.Key != cfg.API.Key {
		t.Errorf("Key mismatch: %s vs %s", loaded.API.Key, cfg.API.Key)
	}
	if loaded.API.Model != cfg.API.Model {
		t.Errorf("Model mismatch: %s vs %s", loaded.API.Model, cfg.API.Model)
	}
	if loaded.API.RequestsPerMinute != cfg.API.RequestsPerMinute {
		t.Errorf("RequestsPerMinute mismatch: %d vs %d", loaded.API.RequestsPerMinute, cfg.API.RequestsPerMinute)
	}
	if loaded.Prompts.AnalysisPrompt != cfg.Prompts.AnalysisPrompt {
		t.Errorf("AnalysisPrompt mismatch: %q vs %q", loaded.Prompts.AnalysisPrompt, cfg.Prompts.AnalysisPrompt)
	}
}

func TestDetectMode_ExplicitOverride(t *testing.T) {
	t.Setenv("AICMT_MODE", "ci")
	if mode := DetectMode(); mode != ModeCI {
		t.Errorf("Expected ci mode, got %s", mode)
	}

	t.Setenv("AICMT_MODE", "dev")
	if mode := DetectMode(); mode != ModeDevelopment {
		t.Errorf("Expected development mode, got %s", mode)
	}

	t.Setenv("AICMT_MODE", "packaged")
	if mode := DetectMode(); mode != ModePackaged {
		t.Errorf("Expected packaged mode, got %s", mode)
	}
}

func TestDeploymentMode_AllowsInteractivePrompts(t *testing.T) {
	if ModeCI.AllowsInteractivePrompts() {
		t.Error("CI mode must never prompt")
	}
	if !ModePackaged.AllowsInteractivePrompts() {
		t.Error("Packaged mode should allow prompts")
	}
	if !ModeDevelopment.AllowsInteractivePrompts() {
		t.Error("Development mode should allow prompts")
	}
}
