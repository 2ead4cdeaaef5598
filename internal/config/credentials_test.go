package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testCredentialManager builds a manager pointed at a throwaway config path
// in CI mode, so tests never prompt and never touch the real config file.
func testCredentialManager(t *testing.T) *CredentialManager {
	t.Helper()
	return &CredentialManager{
		mode:       ModeCI,
		keyring:    NewKeyringManager(),
		configPath: filepath.Join(t.TempDir(), "config.yaml"),
	}
}

// clearKeychain removes any aicmt key the test host may hold so the chain
// falls through to the sources under test.
func clearKeychain(t *testing.T, cm *CredentialManager) {
	t.Helper()
	if cm.keyring.IsAvailable() {
		cm.keyring.DeleteAPIKey()
	}
}

func TestNewCredentialManager_Defaults(t *testing.T) {
	cm := NewCredentialManager()

	if !strings.Contains(cm.ConfigPath(), ".aicmt") {
		t.Errorf("Expected config path under .aicmt, got %s", cm.ConfigPath())
	}
	switch cm.Mode() {
	case ModeDevelopment, ModePackaged, ModeCI:
	default:
		t.Errorf("Unexpected deployment mode %s", cm.Mode())
	}
}

func TestCredentialManager_EnvHasPriority(t *testing.T) {
	cm := testCredentialManager(t)
	clearKeyEnv(t)
	t.Setenv("AICMT_API_KEY", "sk-from-env")

	key, err := cm.GetAPIKey()
	if err != nil {
		t.Fatalf("GetAPIKey failed: %v", err)
	}
	if key != "sk-from-env" {
		t.Errorf("Expected env key, got %q", key)
	}
}

func TestCredentialManager_ConfigFileFallback(t *testing.T) {
	cm := testCredentialManager(t)
	clearKeyEnv(t)
	clearKeychain(t, cm)

	cfg := Default()
	cfg.API.Key = "sk-from-file"
	if err := cfg.Save(cm.configPath); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	key, err := cm.GetAPIKey()
	if err != nil {
		t.Fatalf("GetAPIKey failed: %v", err)
	}
	if key != "sk-from-file" {
		t.Errorf("Expected config file key, got %q", key)
	}
}

func TestCredentialManager_NotFoundInCI(t *testing.T) {
	cm := testCredentialManager(t)
	clearKeyEnv(t)
	clearKeychain(t, cm)

	_, err := cm.GetAPIKey()
	if err == nil {
		t.Fatal("Expected an error when no source has a key")
	}
	if !strings.Contains(err.Error(), "AICMT_API_KEY") {
		t.Errorf("Error should name the environment variable, got: %v", err)
	}
	if !strings.Contains(err.Error(), cm.configPath) {
		t.Errorf("Error should name the config path, got: %v", err)
	}
}

func TestCredentialManager_HasAPIKey(t *testing.T) {
	cm := testCredentialManager(t)
	clearKeyEnv(t)
	clearKeychain(t, cm)

	if cm.HasAPIKey() {
		t.Error("Expected no key with all sources empty")
	}

	t.Setenv("OPENAI_API_KEY", "sk-present")
	if !cm.HasAPIKey() {
		t.Error("Expected a key with the env var set")
	}
}

// TestCredentialManager_SaveAPIKey accepts either storage location: the
// keychain when the host has one, the config file otherwise.
func TestCredentialManager_SaveAPIKey(t *testing.T) {
	cm := testCredentialManager(t)
	clearKeyEnv(t)
	clearKeychain(t, cm)

	location, err := cm.SaveAPIKey("sk-save-test")
	if err != nil {
		t.Fatalf("SaveAPIKey failed: %v", err)
	}

	if location == "keychain" {
		defer cm.keyring.DeleteAPIKey()
		stored, err := cm.keyring.GetAPIKey()
		if err != nil || stored != "sk-save-test" {
			t.Errorf("Expected key in keychain, got %q (err %v)", stored, err)
		}
		return
	}

	if location != cm.configPath {
		t.Fatalf("Expected config path location, got %q", location)
	}
	cfg, err := cm.loadConfigFile()
	if err != nil {
		t.Fatalf("Failed to read back config file: %v", err)
	}
	if cfg.API.Key != "sk-save-test" {
		t.Errorf("Expected key in config file, got %q", cfg.API.Key)
	}
}

func TestReadSecurely_PipedInput(t *testing.T) {
	if IsInteractive() {
		t.Skip("stdin is a terminal, skipping piped-input test")
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	origStdin := os.Stdin
	os.Stdin = r
	defer func() {
		os.Stdin = origStdin
		r.Close()
	}()

	go func() {
		w.WriteString("  sk-piped-secret  \n")
		w.Close()
	}()

	key, err := ReadSecurely()
	if err != nil {
		t.Fatalf("ReadSecurely failed: %v", err)
	}
	if key != "sk-piped-secret" {
		t.Errorf("Expected trimmed key, got %q", key)
	}
}

func TestReadSecurely_NoTrailingNewline(t *testing.T) {
	if IsInteractive() {
		t.Skip("stdin is a terminal, skipping piped-input test")
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	origStdin := os.Stdin
	os.Stdin = r
	defer func() {
		os.Stdin = origStdin
		r.Close()
	}()

	go func() {
		w.WriteString("sk-no-newline")
		w.Close()
	}()

	key, err := ReadSecurely()
	if err != nil {
		t.Fatalf("ReadSecurely failed: %v", err)
	}
	if key != "sk-no-newline" {
		t.Errorf("Expected key despite missing newline, got %q", key)
	}
}
