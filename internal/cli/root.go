// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradebook/internal/ai"
	"tradebook/internal/config"
	"tradebook/internal/ledger"
	"tradebook/internal/logging"
	"tradebook/internal/store"
)

// Version information
const (
	Version   = "0.3.0"
	BuildDate = "2026-08-01"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.Store
	Book    *ledger.Book
	Advisor ai.Advisor
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite store and load the journal
	st, err := store.NewSQLiteStore(cfg.DatabasePath())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open journal database, journal commands will be unavailable")
	} else {
		app.Store = st
		book, err := ledger.Open(context.Background(), st, logger, cfg.Journal.InitialCapital)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load journal state")
		} else {
			app.Book = book
			logger.Debug().Int("trades", book.Len()).Msg("journal loaded")
		}
	}

	// Initialize the advisor if an OpenAI API key is available
	if cfg.HasOpenAIKey() {
		app.Advisor = ai.NewOpenAIAdvisor(cfg.Credentials.OpenAI.APIKey, cfg.Advisor.Model, float32(cfg.Advisor.Temperature), cfg.Advisor.MaxTokens)
		logger.Debug().Str("model", cfg.Advisor.Model).Msg("OpenAI advisor initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "tradebook",
		Short: "Tradebook - a derivatives trade journal",
		Long: `Tradebook is a trade journal for the individual derivatives trader.

Record trades as fast one-liners, import broker CSV exports, and review
performance with metrics, streaks and an equity curve. An optional AI
advisor reviews single trades or whole stretches of the journal against
your written strategy.

Use 'tradebook help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradebook)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addImportCommands(rootCmd, app)
	addStatsCommands(rootCmd, app)
	addExportCommands(rootCmd, app)
	addBackupCommands(rootCmd, app)
	addStrategyCommands(rootCmd, app)
	addAdvisorCommands(rootCmd, app)
	addHelpCommands(rootCmd, app)

	return rootCmd
}

// requireBook reports whether the journal is usable, warning the user if not.
func requireBook(app *App, output *Output) bool {
	if app.Book == nil {
		output.Warning("Journal storage is not available. Check the database path with 'tradebook config show'.")
		return false
	}
	return true
}

// requireAdvisor reports whether the AI advisor is configured.
func requireAdvisor(app *App, output *Output) bool {
	if app.Advisor == nil {
		output.Warning("No OpenAI API key configured.")
		output.Dim("Add one to %s/credentials.toml or set OPENAI_API_KEY.", app.Config.Dir())
		return false
	}
	return true
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Tradebook v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": app.Config.Dir()})
			} else {
				output.Println(app.Config.Dir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Open configuration file in editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			configPath := app.Config.Dir() + "/config.toml"
			output.Info("Configuration file: %s", configPath)
			output.Println("Edit this file to change settings.")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Journal Configuration")
	output.Printf("  Initial Capital: %s\n", FormatMoney(cfg.Journal.InitialCapital))
	output.Printf("  Database:        %s\n", cfg.DatabasePath())
	output.Println()

	output.Bold("Advisor Configuration")
	output.Printf("  Model:           %s\n", cfg.Advisor.Model)
	output.Printf("  Temperature:     %.1f\n", cfg.Advisor.Temperature)
	output.Printf("  Max Tokens:      %d\n", cfg.Advisor.MaxTokens)
	output.Printf("  API Key:         %s\n", maskedKeyStatus(cfg))
	output.Println()

	output.Bold("UI Configuration")
	output.Printf("  Color:           %v\n", cfg.UI.ColorEnabled)
	output.Printf("  Date Format:     %s\n", cfg.UI.DateFormat)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Log.Level)
	output.Printf("  File:            %s\n", cfg.LogFilePath())

	return nil
}

func maskedKeyStatus(cfg *config.Config) string {
	if cfg.HasOpenAIKey() {
		return "configured"
	}
	return "not set"
}
