package config

import (
	"os"
	"strings"
)

// DeploymentMode represents the deployment context.
type DeploymentMode string

const (
	// ModeDevelopment represents running from a source checkout.
	// Configuration may come from a .env file in the working tree.
	ModeDevelopment DeploymentMode = "development"

	// ModePackaged represents an installed binary (brew, releases).
	// Credentials come from env vars, the keychain, the config file, or an
	// interactive prompt.
	ModePackaged DeploymentMode = "packaged"

	// ModeCI represents CI/CD pipeline execution. Credentials come from
	// environment variables only; interactive prompts are never shown.
	ModeCI DeploymentMode = "ci"
)

// DetectMode determines the deployment context based on environment.
func DetectMode() DeploymentMode {
	// Explicit mode override (highest priority)
	if mode := os.Getenv("AICMT_MODE"); mode != "" {
		switch strings.ToLower(mode) {
		case "development", "dev":
			return ModeDevelopment
		case "packaged", "pkg", "production", "prod":
			return ModePackaged
		case "ci", "cicd":
			return ModeCI
		}
	}

	if isCI() {
		return ModeCI
	}

	// Source checkout indicators
	if _, err := os.Stat(".env"); err == nil {
		return ModeDevelopment
	}
	if _, err := os.Stat("go.mod"); err == nil {
		return ModeDevelopment
	}
	if _, err := os.Stat("Makefile"); err == nil {
		return ModeDevelopment
	}

	return ModePackaged
}

// isCI detects if running in a CI/CD environment.
func isCI() bool {
	ciEnvVars := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"JENKINS_URL",
		"BUILDKITE",
		"DRONE",
		"TF_BUILD",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}

	return false
}

// String returns the string representation of the mode.
func (m DeploymentMode) String() string {
	return string(m)
}

// AllowsInteractivePrompts returns true if prompting the user is acceptable.
func (m DeploymentMode) AllowsInteractivePrompts() bool {
	return m != ModeCI
}
