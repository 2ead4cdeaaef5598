package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// CredentialManager handles API key retrieval and storage.
// Retrieval priority: environment variables, then OS keychain, then the
// config file, then an interactive prompt where the mode allows one.
type CredentialManager struct {
	mode       DeploymentMode
	keyring    *KeyringManager
	configPath string
}

// NewCredentialManager creates a credential manager for the standard config
// location.
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{
		mode:       DetectMode(),
		keyring:    NewKeyringManager(),
		configPath: DefaultConfigPath(),
	}
}

// GetAPIKey retrieves the API key using the priority chain.
func (cm *CredentialManager) GetAPIKey() (string, error) {
	// 1. Environment variables (highest priority)
	for _, envVar := range []string{"AICMT_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
		if key := os.Getenv(envVar); key != "" {
			return key, nil
		}
	}

	// 2. OS keychain
	if cm.keyring.IsAvailable() {
		if key, err := cm.keyring.GetAPIKey(); err == nil && key != "" {
			return key, nil
		}
	}

	// 3. Config file
	if cfg, err := cm.loadConfigFile(); err == nil && cfg.API.Key != "" {
		return cfg.API.Key, nil
	}

	// 4. Interactive prompt (never in CI)
	if cm.mode.AllowsInteractivePrompts() && IsInteractive() {
		fmt.Println("\n⚠️  API key not found.")
		fmt.Println("   OpenAI keys: https://platform.openai.com/api-keys")
		fmt.Println("   Gemini keys: https://aistudio.google.com/apikey")
		fmt.Println()
		return cm.promptForAPIKey()
	}

	return "", fmt.Errorf("API key not found. Set it via:\n"+
		"  1. Environment variable: export AICMT_API_KEY=...\n"+
		"  2. Run: aicmt configure (to set up keychain)\n"+
		"  3. Config file: %s", cm.configPath)
}

// SaveAPIKey stores the key in the keychain when one is available, falling
// back to the config file.
func (cm *CredentialManager) SaveAPIKey(key string) (location string, err error) {
	if cm.keyring.IsAvailable() {
		if err := cm.keyring.SaveAPIKey(key); err != nil {
			return "", err
		}
		return "keychain", nil
	}

	cfg, err := cm.loadConfigFile()
	if err != nil {
		cfg = Default()
	}
	cfg.API.Key = key
	if err := cfg.Save(cm.configPath); err != nil {
		return "", err
	}
	return cm.configPath, nil
}

// HasAPIKey checks whether any source can produce a key without prompting.
func (cm *CredentialManager) HasAPIKey() bool {
	for _, envVar := range []string{"AICMT_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
		if os.Getenv(envVar) != "" {
			return true
		}
	}

	if cm.keyring.IsAvailable() {
		if key, err := cm.keyring.GetAPIKey(); err == nil && key != "" {
			return true
		}
	}

	if cfg, err := cm.loadConfigFile(); err == nil && cfg.API.Key != "" {
		return true
	}

	return false
}

// loadConfigFile reads the config file directly, without viper's search
// paths or env merging.
func (cm *CredentialManager) loadConfigFile() (*Config, error) {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// promptForAPIKey prompts for a key and stores it.
func (cm *CredentialManager) promptForAPIKey() (string, error) {
	fmt.Print("Enter API key: ")
	key, err := ReadSecurely()
	if err != nil {
		return "", err
	}

	if key == "" {
		return "", fmt.Errorf("an API key is required")
	}

	if location, err := cm.SaveAPIKey(key); err == nil {
		fmt.Printf("✓ Saved to %s\n", location)
	}

	return key, nil
}

// ReadSecurely reads a secret from stdin without echoing when stdin is a
// terminal, and line-wise otherwise (piped input).
func ReadSecurely() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // New line after password input
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}

	// A final line without a trailing newline still counts as an answer.
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if key := strings.TrimSpace(line); key != "" {
		return key, nil
	}
	if err != nil {
		return "", err
	}
	return "", nil
}

// IsInteractive returns true if stdin is a terminal (not piped).
func IsInteractive() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// Mode returns the detected deployment mode.
func (cm *CredentialManager) Mode() DeploymentMode {
	return cm.mode
}

// ConfigPath returns the path of the config file the manager reads and
// writes.
func (cm *CredentialManager) ConfigPath() string {
	return cm.configPath
}
