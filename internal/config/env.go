package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env files from the working directory and the user's
// aicmt directory. godotenv never overwrites variables that are already
// set, so earlier files and the process environment win.
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // local overrides (highest precedence)
		".env",       // main environment file
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".aicmt", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config.
// Key precedence: AICMT_API_KEY, then the provider's conventional variable,
// then whatever the config file held, then the OS keychain.
func applyEnvOverrides(cfg *Config) {
	if provider := os.Getenv("AICMT_PROVIDER"); provider != "" {
		cfg.Provider = provider
	}

	switch {
	case os.Getenv("AICMT_API_KEY") != "":
		cfg.API.Key = os.Getenv("AICMT_API_KEY")
	case cfg.Provider == "gemini" && os.Getenv("GEMINI_API_KEY") != "":
		cfg.API.Key = os.Getenv("GEMINI_API_KEY")
	case cfg.Provider != "gemini" && os.Getenv("OPENAI_API_KEY") != "":
		cfg.API.Key = os.Getenv("OPENAI_API_KEY")
	case cfg.API.Key == "":
		// Keychain fills in only when neither environment nor config file
		// provided a key.
		km := NewKeyringManager()
		if km.IsAvailable() {
			if keychainKey, err := km.GetAPIKey(); err == nil && keychainKey != "" {
				cfg.API.Key = keychainKey
			}
		}
	}

	if url := os.Getenv("AICMT_BASE_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if model := os.Getenv("AICMT_MODEL"); model != "" {
		cfg.API.Model = model
	}
	if rpm := os.Getenv("AICMT_REQUESTS_PER_MINUTE"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			cfg.API.RequestsPerMinute = n
		}
	}
	if prompt := os.Getenv("AICMT_ANALYSIS_PROMPT"); prompt != "" {
		cfg.Prompts.AnalysisPrompt = prompt
	}
}
