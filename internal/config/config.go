package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration settings.
type Config struct {
	// Provider selects the model backend: "openai" or "gemini".
	Provider string `yaml:"provider" mapstructure:"provider"`

	// API configuration
	API APIConfig `yaml:"api" mapstructure:"api"`

	// Prompt overrides
	Prompts PromptsConfig `yaml:"prompts" mapstructure:"prompts"`
}

type APIConfig struct {
	Key               string `yaml:"key,omitempty" mapstructure:"key"`
	BaseURL           string `yaml:"base_url" mapstructure:"base_url"`
	Model             string `yaml:"model" mapstructure:"model"`
	UseKeychain       bool   `yaml:"use_keychain" mapstructure:"use_keychain"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

type PromptsConfig struct {
	// AnalysisPrompt replaces the built-in system prompt when set.
	AnalysisPrompt string `yaml:"analysis_prompt" mapstructure:"analysis_prompt"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Provider: "openai",
		API: APIConfig{
			BaseURL: "https://api.openai.com/v1",
		},
	}
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".aicmt", "config.yaml")
}

// Load loads configuration from file, environment, and keychain.
// Precedence for the API key: environment variable, then config file, then
// OS keychain.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("provider", cfg.Provider)
	v.SetDefault("api", cfg.API)
	v.SetDefault("prompts", cfg.Prompts)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath(".aicmt")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".aicmt"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Save writes the configuration to path. The caller decides whether the API
// key belongs in the file; clear API.Key first when it lives in the keychain.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("provider", c.Provider)
	v.Set("api", map[string]any{
		"key":                 c.API.Key,
		"base_url":            c.API.BaseURL,
		"model":               c.API.Model,
		"use_keychain":        c.API.UseKeychain,
		"requests_per_minute": c.API.RequestsPerMinute,
	})
	v.Set("prompts", map[string]any{
		"analysis_prompt": c.Prompts.AnalysisPrompt,
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	// The file may hold a plaintext API key.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict config permissions: %w", err)
	}

	return nil
}
