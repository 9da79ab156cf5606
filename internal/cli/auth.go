package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"degiro-trader/internal/webapi"
)

// addAuthCommands adds authentication commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLoginCmd(app))
	rootCmd.AddCommand(newAuthStatusCmd(app))
}

func newLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to DEGIRO",
		Long: `Login to DEGIRO with the credentials from credentials.toml.

If a TOTP secret is configured, the two-factor challenge is answered
automatically. Alternatively pass a one-time code with --otp.`,
		Example: `  degiro-trader login
  degiro-trader login --otp=123456`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.requestContext()
			defer cancel()

			if !app.Config.HasCredentials() {
				output.Error("No credentials configured. Please fill in credentials.toml")
				return fmt.Errorf("credentials not configured")
			}

			otp, _ := cmd.Flags().GetString("otp")
			creds := webapi.Credentials{
				Username:        app.Config.Credentials.Username,
				Password:        app.Config.Credentials.Password,
				TOTPSecret:      app.Config.Credentials.TOTPSecret,
				OneTimePassword: otp,
			}

			if err := app.Trader.Connect(ctx, creds); err != nil {
				output.Error("Login failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]bool{"authenticated": true})
			}
			output.Success("✓ Login successful!")
			return showAuthStatus(app, output)
		},
	}

	cmd.Flags().String("otp", "", "one-time password for the 2FA challenge")
	return cmd
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			sess := app.Trader.Session()
			if output.IsJSON() {
				return output.JSON(map[string]bool{
					"authenticated": sess.HasSessionID(),
					"ready":         sess.Ready(),
				})
			}
			return showAuthStatus(app, output)
		},
	}
}

func showAuthStatus(app *App, output *Output) error {
	sess := app.Trader.Session()
	if !sess.HasSessionID() {
		output.Warning("Not logged in. Run 'degiro-trader login' first.")
		return nil
	}

	output.Bold("Session")
	output.Printf("  Authenticated: %v\n", sess.HasSessionID())
	output.Printf("  Config loaded: %v\n", sess.HasConfig())
	output.Printf("  Client loaded: %v\n", sess.HasClient())
	if sess.Client != nil {
		output.Println()
		output.Bold("Account")
		output.Printf("  Username:    %s\n", sess.Client.Username)
		output.Printf("  Int Account: %d\n", sess.Client.IntAccount)
	}
	return nil
}
