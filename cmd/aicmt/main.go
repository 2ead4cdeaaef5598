package main

import (
	"fmt"
	"os"

	"github.com/aicmt/aicmt/internal/config"
	"github.com/aicmt/aicmt/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	err := rootCmd.Execute()
	logging.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "aicmt",
	Short: "AICMT - AI-powered git commit assistant",
	Long: `AICMT analyzes your pending changes and groups them into meaningful
commits with AI-generated messages, which you review and approve one
by one before they are created.`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize loggers
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		logCfg := logging.DefaultConfig(verbose)
		logCfg.File = os.Getenv("AICMT_LOG_FILE")
		if err := logging.Initialize(logCfg); err != nil {
			logger.WithError(err).Warn("Failed to initialize logging")
		}
		if path := logging.FilePath(); path != "" {
			logger.WithField("path", path).Debug("Log file active")
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
	},
	RunE: runAssistant,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.aicmt/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "API key for this run (overrides config)")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL for this run (overrides config)")
	rootCmd.Flags().StringVar(&model, "model", "", "model for this run (overrides config)")
	rootCmd.Flags().StringVar(&provider, "provider", "", "model provider: openai or gemini (overrides config)")
	rootCmd.Flags().IntVarP(&numCommits, "num-commits", "n", 0, "group changes into exactly this many commits")
	rootCmd.Flags().BoolVar(&staged, "staged", false, "analyze staged changes instead of unstaged ones")

	// Set custom version template
	rootCmd.SetVersionTemplate(`AICMT {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(configureCmd)
}
