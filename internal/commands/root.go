// Package commands provides CLI commands for healthguru.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmelo/healthguru/internal/api"
	"github.com/dmelo/healthguru/internal/config"
	"github.com/dmelo/healthguru/internal/logger"
)

var (
	// Global flags
	baseURLFlag string
	outputFlag  string
	fileFlag    string
	verboseFlag bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "healthguru [question]",
	Short: "Terminal client for the Healthguru wellness chat",
	Long: `healthguru is a terminal client for the Healthguru wellness chat
service. It talks to the same endpoints as the web UI and shares its
session cookie.

Examples:
  healthguru chat                       Start interactive chat
  healthguru "How much sleep do I need?"
  healthguru -f question.md             Read question from file
  cat question.md | healthguru          Read question from stdin
  healthguru "Hi" -o answer.md          Save answer to file
  healthguru import-session chrome      Import the web login from Chrome
  healthguru history list               List saved conversations`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("healthguru %s (built %s)\n", Version, BuildTime)
			return nil
		}

		// Check for stdin input
		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if len(args) > 0 {
			return runQuery(args[0], !isStdoutTTY())
		}

		// No input - show help
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Healthguru service URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable diagnostic logging")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save answer to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read question from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, _ := config.LoadConfig()
		return logger.Init(verboseFlag || cfg.Verbose)
	}

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importSessionCmd)
}

// loadConfig loads the configuration with the base-url flag applied.
func loadConfig() config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}
	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}
	return cfg
}

// newClient builds an API client carrying the stored web session, if any.
func newClient(cfg config.Config) (*api.Client, error) {
	sess, err := config.LoadSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read session: %v\n", err)
	}

	var opts []api.ClientOption
	if sess != nil {
		opts = append(opts, api.WithSession(sess))
	}

	return api.NewClient(cfg.BaseURL, opts...)
}
