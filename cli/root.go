// Package cli provides the command-line interface for graphmail.
// It wires configuration management, device-code authentication, and the
// Graph mailbox client into cobra commands for one-shot mailbox operations
// and the continuous polling server.
//
// Configuration Precedence (highest to lowest):
//  1. Command-line flags
//  2. Environment variables (GRAPHMAIL_ prefix)
//  3. Configuration file values
//  4. Default values
//
// Example Usage:
//
//	# List the newest inbox messages
//	graphmail read --tenant-id <guid> --client-id <guid>
//
//	# Move "daily stand up" mails into the "daily meetings" folder once
//	graphmail organize --term "daily stand up" --folder "daily meetings"
//
//	# Run the poller continuously with a status endpoint
//	graphmail serve --status-addr :8097
package cli

import (
	"fmt"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/spf13/cobra"

	"graphmail.evalgo.org/auth"
	"graphmail.evalgo.org/cloud"
	"graphmail.evalgo.org/common"
	"graphmail.evalgo.org/config"
)

// cfgFile holds the path to the configuration file specified via the
// --config flag. When empty, the config package searches its default
// locations ($HOME/.graphmail.yaml, ./.graphmail.yaml).
var cfgFile string

// RootCmd defines the main graphmail CLI command. Subcommands register
// themselves in their init functions.
var RootCmd = &cobra.Command{
	Use:   "graphmail",
	Short: "read and organize Exchange Online mail via Microsoft Graph",
	Long: `graphmail - Microsoft Graph mailbox reader and organizer

Authenticates against Microsoft Entra ID using the OAuth device-code flow
and operates on the signed-in user's Exchange Online mailbox:

- List and filter inbox messages
- Show a single message with a readable plain-text body
- Mark messages as read
- Create mail folders and move messages into them
- Continuously organize matching messages with the polling server

Access tokens are cached on disk between runs, so the device-code prompt
only appears when no valid cached token exists. All protocol work is
delegated to the Microsoft Graph SDK and the Azure identity library.

Configuration can be provided via command-line flags, environment variables
(GRAPHMAIL_ prefix), or a YAML configuration file.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.graphmail.yaml)")
	RootCmd.PersistentFlags().String("tenant-id", "", "Microsoft Entra ID tenant ID")
	RootCmd.PersistentFlags().String("client-id", "", "registered application client ID")
	RootCmd.PersistentFlags().String("token-cache", "", "token cache file path")
	RootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().String("log-format", "", "log format (text or json)")
}

// loadConfig loads configuration from file, environment, and defaults, then
// applies flag overrides, validates the result, and configures the global
// logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loader := config.NewLoader("GRAPHMAIL")
	loader.SetConfigDefaults()

	cfg := &config.Config{}
	if err := loader.Load(cfgFile, cfg); err != nil {
		return nil, err
	}

	// Flags take precedence over file and environment values
	if v, _ := cmd.Flags().GetString("tenant-id"); v != "" {
		cfg.Graph.TenantID = v
	}
	if v, _ := cmd.Flags().GetString("client-id"); v != "" {
		cfg.Graph.ClientID = v
	}
	if v, _ := cmd.Flags().GetString("token-cache"); v != "" {
		cfg.Token.CachePath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	loggerConfig := common.DefaultLoggerConfig()
	loggerConfig.Level = common.LogLevel(cfg.Logging.Level)
	loggerConfig.Format = cfg.Logging.Format
	common.ConfigureLogger(loggerConfig)

	return cfg, nil
}

// newMailbox builds the Graph mailbox client from configuration: token cache,
// device-code credential, and SDK client.
func newMailbox(cfg *config.Config) (*cloud.Mailbox, error) {
	cache := auth.NewTokenCache(cfg.Token.CachePath)

	cred, err := auth.NewDeviceCodeCredential(cfg.Graph.TenantID, cfg.Graph.ClientID, cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	return cloud.NewMailbox(cred, auth.Scopes)
}

// displayName extracts a user's display name, falling back to a placeholder.
func displayName(user models.Userable) string {
	if user == nil || user.GetDisplayName() == nil {
		return "Unknown User"
	}
	return *user.GetDisplayName()
}
