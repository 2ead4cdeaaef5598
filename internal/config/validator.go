package config

import (
	"fmt"
	"strings"
)

// ValidationResult collects configuration problems by severity. Errors make
// the configuration unusable for an analysis run; warnings are surfaced and
// the run continues.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result.
func (vr *ValidationResult) AddError(format string, args ...any) {
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result.
func (vr *ValidationResult) AddWarning(format string, args ...any) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors reports whether the configuration is unusable.
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// Error returns a formatted report of all errors, plus warnings when any
// accompanied them.
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  ❌ %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠️  %s\n", warn))
		}
	}

	return sb.String()
}

// ValidateAll checks every setting an analysis run depends on.
func (c *Config) ValidateAll() *ValidationResult {
	result := &ValidationResult{}
	c.validateProvider(result)
	c.validateAPI(result)
	c.validatePrompts(result)
	return result
}

// Validate reduces ValidateAll to a single error for callers that do not
// surface warnings separately.
func (c *Config) Validate() error {
	result := c.ValidateAll()
	if result.HasErrors() {
		return fmt.Errorf("%s", strings.TrimRight(result.Error(), "\n"))
	}
	return nil
}

func (c *Config) validateProvider(result *ValidationResult) {
	switch c.Provider {
	case "openai", "gemini":
	default:
		result.AddError("unknown provider %q (expected \"openai\" or \"gemini\")", c.Provider)
	}
}

func (c *Config) validateAPI(result *ValidationResult) {
	if c.API.Key == "" {
		result.AddError("API key not configured. To fix this:\n"+
			"     1. Run: aicmt configure\n"+
			"     2. Or set the AICMT_API_KEY environment variable\n"+
			"     3. Or add it to %s", DefaultConfigPath())
	} else if c.Provider == "openai" && !strings.HasPrefix(c.API.Key, "sk-") {
		result.AddWarning("OpenAI API keys usually start with sk-; double-check the configured key")
	}

	if c.API.BaseURL != "" &&
		!strings.HasPrefix(c.API.BaseURL, "http://") &&
		!strings.HasPrefix(c.API.BaseURL, "https://") {
		result.AddError("base URL must start with http:// or https://, got %q", c.API.BaseURL)
	}

	if c.API.RequestsPerMinute < 0 {
		result.AddError("requests_per_minute must not be negative, got %d", c.API.RequestsPerMinute)
	}
}

func (c *Config) validatePrompts(result *ValidationResult) {
	if p := c.Prompts.AnalysisPrompt; p != "" && len(strings.TrimSpace(p)) < 10 {
		result.AddWarning("Analysis prompt is too short, may affect analysis quality")
	}
}
