package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize with the Megaplan account",
		Long: `Authorize with the configured login and password and store the issued access
pair next to the configuration file. Later commands sign their requests with
the stored pair and skip authorization.

Example:
  megaplan login
  megaplan login --password secret  # overrides the password from the config file`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().String("password", "", "Password for authentication")
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}
	if passwd, _ := cmd.Flags().GetString("password"); passwd != "" {
		c := *cfg
		c.Password = passwd
		config = &c
		defer func() { config = cfg }()
	}
	if GetConfig().Password == "" {
		return fmt.Errorf("no password provided. Use --password flag or set password in config file")
	}

	var host string
	err := run(func(ctx context.Context, c *apiClient) error {
		// always obtain a fresh pair
		c.Logout()
		c.restored = c.Access()
		host = c.Host()
		return c.Authorize(ctx)
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"status":  "success",
			"message": "Login successful",
			"host":    host,
		})
	}
	okLabel.Fprintln(cmd.OutOrStdout(), "✓ Login successful")
	fmt.Fprintf(cmd.OutOrStdout(), "Account: %s\n", host)
	return nil
}

// newLogoutCmd forgets the stored access pair
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ClearSession(sessionPath(configFile)); err != nil {
				return err
			}
			return printDone(cmd.OutOrStdout(), "Logged out")
		},
	}
}
