// Package cli provides the command-line interface for the DEGIRO client.
package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"degiro-trader/internal/api"
	"degiro-trader/internal/config"
	"degiro-trader/internal/webapi"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Trader *api.Degiro
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	webOpts := []webapi.Option{webapi.WithLogger(logger)}
	if cfg.API.BaseURL != "" {
		webOpts = append(webOpts, webapi.WithBaseURL(cfg.API.BaseURL))
	}

	app := &App{
		Config: cfg,
		Logger: logger,
		Trader: api.New(webapi.NewClient(webOpts...), api.WithLogger(logger)),
	}

	rootCmd := &cobra.Command{
		Use:   "degiro-trader",
		Short: "DEGIRO Trader - portfolio and order CLI",
		Long: `DEGIRO Trader is a command line client for the DEGIRO web API.

It logs in with your configured credentials (including TOTP-based two-factor
authentication), then reads your portfolio, orders and transactions.

Use 'degiro-trader help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/degiro-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addAuthCommands(rootCmd, app)
	addAccountCommands(rootCmd, app)
	addProductCommands(rootCmd, app)

	return rootCmd
}

// requestContext builds the context every command runs under, bounded by the
// configured request timeout.
func (app *App) requestContext() (context.Context, context.CancelFunc) {
	timeout := app.Config.API.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// connect authenticates and enriches the session if that has not happened yet.
func (app *App) connect(ctx context.Context, output *Output) error {
	if app.Trader.Session().Ready() {
		return nil
	}
	creds := webapi.Credentials{
		Username:   app.Config.Credentials.Username,
		Password:   app.Config.Credentials.Password,
		TOTPSecret: app.Config.Credentials.TOTPSecret,
	}
	if !output.IsJSON() {
		output.Info("Logging in as %s...", creds.Username)
	}
	if err := app.Trader.Connect(ctx, creds); err != nil {
		output.Error("Login failed: %v", err)
		return err
	}
	return nil
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
				output.Printf("DEGIRO Trader v%s\n", Version)
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
				// Credentials are excluded from serialization.
				return output.JSON(app.Config)
			}
			output.Bold("API Configuration")
			output.Printf("  Base URL:        %s\n", baseURLOrDefault(app.Config))
			output.Printf("  Request Timeout: %s\n", app.Config.API.RequestTimeout)
			output.Println()
			output.Bold("Logging")
			output.Printf("  Level:   %s\n", app.Config.Logging.Level)
			output.Printf("  Console: %v\n", app.Config.Logging.Console)
			output.Printf("  File:    %v\n", app.Config.Logging.File)
			output.Println()
			output.Bold("Credentials")
			output.Printf("  Configured: %v\n", app.Config.HasCredentials())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
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

	return cmd
}

func baseURLOrDefault(cfg *config.Config) string {
	if cfg.API.BaseURL != "" {
		return cfg.API.BaseURL
	}
	return webapi.DefaultBaseURL
}
