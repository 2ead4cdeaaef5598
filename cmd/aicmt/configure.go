package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/aicmt/aicmt/internal/config"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive setup wizard for AICMT (with OS keychain support)",
	Long: `Walk through AICMT configuration step-by-step with secure credential storage.

Features:
- Store API keys securely in OS keychain (no plaintext)
- Works with OpenAI-compatible endpoints and Google Gemini
- Cross-platform support (macOS, Windows, Linux)

This will configure:
1. Model provider (openai or gemini)
2. API key (stored in OS keychain by default)
3. Model selection (gpt-4o-mini / gemini-2.0-flash recommended)`,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 AICMT Configuration Wizard")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	// Load existing config if it exists
	configPath := config.DefaultConfigPath()
	loadedCfg, err := config.Load(configPath)
	if err != nil {
		loadedCfg = config.Default()
	}

	// Initialize keyring manager
	km := config.NewKeyringManager()

	// Check if keychain is available
	keychainAvailable := km.IsAvailable()
	if !keychainAvailable {
		fmt.Println("⚠️  OS keychain not available (headless system or Linux without libsecret)")
		fmt.Println("   Will store API key in config file instead.")
		fmt.Println()
	}

	// Declare variables before the jumps below
	var apiKey string
	var response string
	persistKeyInFile := false

	// Step 1: Model Provider
	fmt.Println("Step 1/4: Model Provider")
	fmt.Println()
	fmt.Println("Available providers:")
	fmt.Println("  1. openai (any OpenAI-compatible endpoint)")
	fmt.Println("  2. gemini (Google AI Studio)")
	fmt.Printf("Current: %s\n", loadedCfg.Provider)
	fmt.Print("Select provider (1-2) or press Enter to keep current: ")

	response, _ = reader.ReadString('\n')
	response = strings.TrimSpace(response)

	switch response {
	case "1":
		loadedCfg.Provider = "openai"
		fmt.Println("✅ Using openai")
	case "2":
		loadedCfg.Provider = "gemini"
		fmt.Println("✅ Using gemini")
	case "":
		fmt.Printf("✅ Keeping %s\n", loadedCfg.Provider)
	}
	fmt.Println()

	// Step 2: API Key
	fmt.Println("Step 2/4: API Key")
	fmt.Println()

	// A key loaded from the environment or the keychain must not end up
	// in the config file on save.
	sourceInfo := km.GetAPIKeySource(loadedCfg)
	persistKeyInFile = sourceInfo.Source == "config"

	if sourceInfo.Source != "none" {
		fmt.Printf("Current: %s\n", config.MaskAPIKey(loadedCfg.API.Key))
		fmt.Printf("Source: %s\n", sourceInfo.Recommended)
		fmt.Print("Keep existing key? (Y/n): ")

		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(answer)

		if answer == "" || strings.ToLower(answer) == "y" {
			goto step3
		}
	} else if loadedCfg.Provider == "gemini" {
		fmt.Println("AICMT needs an API key to talk to the model provider.")
		fmt.Println("Get your key at: https://aistudio.google.com/apikey")
		fmt.Println()
	} else {
		fmt.Println("AICMT needs an API key to talk to the model provider.")
		fmt.Println("Get your key at: https://platform.openai.com/api-keys")
		fmt.Println()
	}

	fmt.Print("Enter your API key: ")
	apiKey, err = config.ReadSecurely()
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}

	if apiKey == "" {
		fmt.Println("⏭️  No key entered, skipping")
		goto step3
	}

	if loadedCfg.Provider == "openai" && !strings.HasPrefix(apiKey, "sk-") {
		fmt.Println("⚠️  OpenAI keys usually start with sk-; saving it anyway")
	}

	// Offer keychain storage
	if keychainAvailable {
		fmt.Println()
		fmt.Println("🔒 Secure Storage Options:")
		fmt.Println("  1. OS Keychain (recommended, encrypted, secure)")
		fmt.Println("  2. Config file (plaintext, not recommended)")
		fmt.Print("Choose storage method (1-2): ")

		response, _ = reader.ReadString('\n')
		response = strings.TrimSpace(response)

		if response == "1" || response == "" {
			// Save to keychain
			if err := km.SaveAPIKey(apiKey); err != nil {
				fmt.Printf("⚠️  Failed to save to keychain: %v\n", err)
				fmt.Println("Saving to config file instead...")
				loadedCfg.API.Key = apiKey
				loadedCfg.API.UseKeychain = false
				persistKeyInFile = true
			} else {
				fmt.Println("✅ API key saved to OS keychain (secure)")
				loadedCfg.API.Key = "" // lives in the keychain now
				loadedCfg.API.UseKeychain = true
				persistKeyInFile = false

				// Show where it's stored based on OS
				fmt.Printf("   📍 %s\n", getKeychainLocation())
			}
		} else {
			// Save to config file
			loadedCfg.API.Key = apiKey
			loadedCfg.API.UseKeychain = false
			persistKeyInFile = true
			fmt.Println("✅ API key saved to config file (plaintext)")
			fmt.Println("   ⚠️  Consider using keychain for better security")
		}
	} else {
		// No keychain available, save to config file
		loadedCfg.API.Key = apiKey
		loadedCfg.API.UseKeychain = false
		persistKeyInFile = true
		fmt.Println("✅ API key saved to config file")
	}

step3:
	fmt.Println()
	fmt.Println("Step 3/4: Model")
	fmt.Println()
	fmt.Println("Available models:")
	if loadedCfg.Provider == "gemini" {
		fmt.Println("  1. gemini-2.0-flash (recommended, fast)")
		fmt.Println("  2. gemini-2.5-pro (slower, higher quality)")
	} else {
		fmt.Println("  1. gpt-4o-mini (recommended, fast)")
		fmt.Println("  2. gpt-4o (slower, higher quality)")
	}
	fmt.Printf("Current: %s\n", displayModel(loadedCfg))
	fmt.Print("Select model (1-2), type a name, or press Enter to keep current: ")

	response, _ = reader.ReadString('\n')
	response = strings.TrimSpace(response)

	switch response {
	case "1":
		if loadedCfg.Provider == "gemini" {
			loadedCfg.API.Model = "gemini-2.0-flash"
		} else {
			loadedCfg.API.Model = "gpt-4o-mini"
		}
		fmt.Printf("✅ Using %s\n", loadedCfg.API.Model)
	case "2":
		if loadedCfg.Provider == "gemini" {
			loadedCfg.API.Model = "gemini-2.5-pro"
		} else {
			loadedCfg.API.Model = "gpt-4o"
		}
		fmt.Printf("✅ Using %s\n", loadedCfg.API.Model)
	case "":
		fmt.Printf("✅ Keeping %s\n", displayModel(loadedCfg))
	default:
		loadedCfg.API.Model = response
		fmt.Printf("✅ Using %s\n", response)
	}
	fmt.Println()

	// Step 4: Save Configuration
	fmt.Println("Step 4/4: Save Configuration")
	fmt.Println()
	fmt.Printf("Save to: %s\n", configPath)
	fmt.Print("Confirm? (Y/n): ")

	response, _ = reader.ReadString('\n')
	response = strings.TrimSpace(response)

	if response == "" || strings.ToLower(response) == "y" {
		if !persistKeyInFile {
			loadedCfg.API.Key = ""
		}
		if err := loadedCfg.Save(configPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Println("✅ Configuration saved!")
		fmt.Println()
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Println("🎯 Next Steps:")
		fmt.Println()
		fmt.Println("1. Make some changes:")
		fmt.Println("   cd /path/to/your/repo")
		fmt.Println()
		fmt.Println("2. Let AICMT group and commit them:")
		fmt.Println("   aicmt")
		fmt.Println()
		fmt.Println("3. Review each suggested commit before it is created.")
		fmt.Println()

		if loadedCfg.API.UseKeychain {
			fmt.Println("🔒 Security: API key stored securely in OS keychain")
		}
	} else {
		fmt.Println("⏭️  Configuration not saved")
	}

	return nil
}

// displayModel names the effective model, falling back to the provider
// default when none is configured.
func displayModel(cfg *config.Config) string {
	if cfg.API.Model != "" {
		return cfg.API.Model
	}
	if cfg.Provider == "gemini" {
		return "gemini-2.0-flash (default)"
	}
	return "gpt-4o-mini (default)"
}

func getKeychainLocation() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS Keychain Access.app → 'aicmt'"
	case "windows":
		return "Windows Credential Manager → 'aicmt'"
	case "linux":
		return "Linux Secret Service (libsecret)"
	default:
		return "OS Keychain"
	}
}
