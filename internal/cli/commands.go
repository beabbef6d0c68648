package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tansive/megaplan/internal/common/logtrace"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
	logLevel   string
	logFile    string
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "megaplan [command] [flags]",
	Short: "Megaplan CLI - A command line interface for the Megaplan project-management service",
	Long: `Megaplan CLI is a command line interface for the Megaplan project-management service.
It lists and edits tasks, projects, employees and comments, manages favorites
and reads notifications of one Megaplan account.

Examples:
  # Configure the account
  megaplan config create --account acme --login ivanov --password '{{ .ENV.MEGAPLAN_PASSWORD }}'

  # List overdue tasks
  megaplan tasks --status overdue

  # Show a task
  megaplan task 1000042

  # Complete a task
  megaplan task action 1000042 act_done`,
	PersistentPreRunE: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Set up persistent flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFile, "log-file", "", "", "Write logs to this file instead of stderr")

	// Add commands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newStatusCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		printError(err)
		os.Exit(1)
	}
}

// preRunHandlePersistents sets up logging and loads the configuration before command execution
func preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	if err := logtrace.InitLogger(logtrace.LoggerOptions{
		Level:   logLevel,
		File:    logFile,
		Console: logFile == "",
	}); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	// if a config file is provided, load config from config file
	if configFile == "" {
		var err error
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if skipsConfig(cmd) {
		return nil
	}

	if err := LoadConfig(configFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.New("megaplan config file not found. Configure the account with \"megaplan config create\" first")
		}
		return err
	}
	return nil
}

// skipsConfig reports whether cmd runs without a loaded configuration.
func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" || c.Name() == "version" {
			return true
		}
	}
	return false
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of the megaplan CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get the config file path
			configPath := configFile
			if configPath == "" {
				configPath = "unknown"
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"version":        getCLIVersion(),
					"config_version": ConfigFormatVersion,
					"config_file":    configPath,
				})
			}
			cmd.Printf("megaplan CLI %s\n", getCLIVersion())
			cmd.Printf("Config file: %s\n", configPath)
			return nil
		},
	}
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.1.0"
}
