package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// Config holds the account the CLI works with. The file may be YAML or, with
// a .toml extension, TOML. Values may reference the environment with
// {{ .ENV.VAR }} placeholders.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version" toml:"version"`
	// Account is the Megaplan account name, the "acme" of acme.megaplan.ru
	Account string `yaml:"account,omitempty" toml:"account,omitempty"`
	// Host replaces {account}.megaplan.ru, e.g. https://pm.example.org
	Host string `yaml:"host,omitempty" toml:"host,omitempty"`
	// Login of the Megaplan user
	Login string `yaml:"login" toml:"login"`
	// Password of the Megaplan user
	Password string `yaml:"password,omitempty" toml:"password,omitempty"`
	// Debug switches to plain http after authorization
	Debug bool `yaml:"debug,omitempty" toml:"debug,omitempty"`
	// Timeout of each request, e.g. "30s"
	Timeout string `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	// InsecureSkipVerify disables TLS verification for self-signed installations
	InsecureSkipVerify bool `yaml:"insecure_skip_verify,omitempty" toml:"insecure_skip_verify,omitempty"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/megaplan on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "megaplan", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file
// If no file is specified, it uses the default config location
func LoadConfig(file string) error {
	c, err := ReadConfig(file)
	if err != nil {
		return err
	}
	config = c
	return nil
}

// ReadConfig parses and validates a config file without making it current.
func ReadConfig(file string) (*Config, error) {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	var c Config
	if err := decodeTemplated(file, &c); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := c.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the current configuration to the specified file
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), 0700)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	var out []byte
	if formatOf(file) == formatTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("unable to generate configuration: %w", err)
		}
		out = buf.Bytes()
	} else {
		out, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("unable to generate configuration: %w", err)
		}
	}

	if err := os.WriteFile(file, out, 0600); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}

// ValidateConfig checks for required fields and a supported format version
func (cfg *Config) ValidateConfig() error {
	if !IsConfigVersionCompatible(cfg.Version) {
		return fmt.Errorf("unsupported config format version %q, expected %s", cfg.Version, ConfigFormatVersion)
	}
	if cfg.Account == "" && cfg.Host == "" {
		return errors.New("account or host is required")
	}
	if cfg.Login == "" {
		return errors.New("login is required")
	}
	if cfg.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Timeout); err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
	}
	return nil
}

// TimeoutDuration returns the configured timeout, zero when unset.
func (cfg *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(cfg.Timeout)
	return d
}

// MorphServer ensures the host is a URL: adds https:// when no scheme is
// given and removes trailing slashes
func MorphServer(server string) string {
	if server == "" {
		return server
	}

	server = strings.TrimRight(server, "/")
	if !strings.Contains(server, "://") {
		server = "https://" + server
	}
	return server
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `Manage CLI configuration: the Megaplan account, the user credentials and the stored session.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the configuration file",
	Long: `Create the configuration file. The password may be a {{ .ENV.VAR }} placeholder
resolved from the environment or a .env file next to the configuration when the
file is loaded.

Examples:
  megaplan config create --account acme --login ivanov --password secret
  megaplan config create --host https://pm.example.org --login ivanov --password '{{ .ENV.MEGAPLAN_PASSWORD }}'
  megaplan --config ~/.config/megaplan/config.toml config create --account acme --login ivanov`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &Config{Version: ConfigFormatVersion}
		cfg.Account, _ = cmd.Flags().GetString("account")
		cfg.Host, _ = cmd.Flags().GetString("host")
		cfg.Login, _ = cmd.Flags().GetString("login")
		cfg.Password, _ = cmd.Flags().GetString("password")
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
		cfg.Timeout, _ = cmd.Flags().GetString("timeout")
		cfg.InsecureSkipVerify, _ = cmd.Flags().GetBool("insecure")
		cfg.Host = MorphServer(cfg.Host)

		if err := cfg.ValidateConfig(); err != nil {
			return err
		}
		if err := cfg.WriteConfig(configFile); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		// a new account invalidates the stored session
		if err := ClearSession(sessionPath(configFile)); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"account":     cfg.Account,
				"host":        cfg.Host,
				"config_file": configFile,
			})
		}
		okLabel.Fprintf(cmd.OutOrStdout(), "✓ Account configured: %s\n", cfg.displayHost())
		fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", configFile)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ReadConfig(configFile)
		if err != nil {
			return err
		}
		shown := *cfg
		if shown.Password != "" {
			shown.Password = "********"
		}
		s, _ := ReadSession(sessionPath(configFile))
		view := map[string]any{
			"config_file":   configFile,
			"configuration": shown,
			"authenticated": s != nil && !s.Access.IsZero(),
		}
		return printValue(cmd.OutOrStdout(), "Configuration", view)
	},
}

// configClearCmd represents the config clear command
var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored session",
	Long: `Forget the stored session. The next command authorizes again with the
configured login and password.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ClearSession(sessionPath(configFile)); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]int{"result": 1})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Session cleared. Run \"megaplan login\" to authorize again")
		return nil
	},
}

func (cfg *Config) displayHost() string {
	if cfg.Host != "" {
		return cfg.Host
	}
	return cfg.Account + ".megaplan.ru"
}

func init() {
	configCreateCmd.Flags().String("account", "", "Megaplan account name (acme for acme.megaplan.ru)")
	configCreateCmd.Flags().String("host", "", "Host of an on-premise installation, overrides --account")
	configCreateCmd.Flags().String("login", "", "Login of the Megaplan user")
	configCreateCmd.Flags().String("password", "", "Password, or a {{ .ENV.VAR }} placeholder")
	configCreateCmd.Flags().Bool("debug", false, "Switch to plain http after authorization")
	configCreateCmd.Flags().String("timeout", "", "Request timeout, e.g. 30s")
	configCreateCmd.Flags().Bool("insecure", false, "Skip TLS certificate verification")

	configCmd.AddCommand(configCreateCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configClearCmd)
	rootCmd.AddCommand(configCmd)
}
