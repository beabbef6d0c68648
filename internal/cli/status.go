package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// statusView is the state shown by the status command
type statusView struct {
	Host          string `json:"host"`
	Login         string `json:"login"`
	ConfigFile    string `json:"config_file"`
	Authenticated bool   `json:"authenticated"`
	Reachable     *bool  `json:"reachable,omitempty"`
	Error         string `json:"error,omitempty"`
}

// newStatusCmd shows the configured account and whether a session is stored.
// With --check it also calls the service with the stored or a new pair.
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the configured account and session",
		Long: `Show the configured account and whether an access pair is stored.

Examples:
  megaplan status
  megaplan status --check  # verify the account answers signed requests`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			check, _ := cmd.Flags().GetBool("check")

			var view statusView
			err := run(func(ctx context.Context, c *apiClient) error {
				view = statusView{
					Host:          c.BaseURL(),
					Login:         c.cfg.Login,
					ConfigFile:    configFile,
					Authenticated: c.IsAuthenticated(),
				}
				if !check {
					return nil
				}
				_, err := c.Severities(ctx)
				ok := err == nil
				view.Reachable = &ok
				view.Authenticated = c.IsAuthenticated()
				return err
			})
			if err != nil {
				view.Error = err.Error()
			}
			if perr := printValue(cmd.OutOrStdout(), "status", view); perr != nil {
				return perr
			}
			if err != nil {
				return ErrAlreadyHandled
			}
			return nil
		},
	}
	cmd.Flags().Bool("check", false, "Call the service to verify the account")
	return cmd
}
