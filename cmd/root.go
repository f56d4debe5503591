package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/gdocs/internal/config"
	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/instrumentation"
	"github.com/teemow/gdocs/internal/logging"
)

// globalFlags holds the persistent flags shared by all commands
type globalFlags struct {
	configPath  string
	credentials string
	debug       bool
}

var flags globalFlags

// rootCmd represents the base command for the gdocs application
var rootCmd = &cobra.Command{
	Use:   "gdocs",
	Short: "Work with Google Drive files, documents and spreadsheets",
	Long: `gdocs manages Google Drive items, Google Docs documents and Google Sheets
spreadsheets with a service account.

It can run as:
  - A command-line tool (files, docs and sheets commands)
  - An MCP (Model Context Protocol) server for AI assistants (serve)

Credentials are taken from --credentials, the service_account_file key of
the config file, or the GOOGLE_DOCUMENT_SERVICE_JSON environment variable,
in that order.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gdocs version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/gdocs/config.toml). Can also use GDOCS_CONFIG env var.")
	rootCmd.PersistentFlags().StringVar(&flags.credentials, "credentials", "", "Service-account key file. Overrides the config file and GOOGLE_DOCUMENT_SERVICE_JSON.")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newFilesCmd())
	rootCmd.AddCommand(newDocsCmd())
	rootCmd.AddCommand(newSheetsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}

// settings is the resolved configuration of one command run
type settings struct {
	config *config.Resolved
	logger *slog.Logger
}

// loadSettings loads .env, the config file, the environment and the
// command line flags, in increasing precedence
func loadSettings(cli config.CLIOverrides) (*settings, error) {
	logger := logging.New(os.Stderr, flags.debug)

	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cli.ConfigPath = flags.configPath
	cli.Credentials = flags.credentials

	resolved, err := config.Resolve(config.ReadEnvOverrides(), cli)
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded",
		slog.String("config", resolved.ConfigPath),
		logging.Credentials(resolved.CredentialsOverride),
		slog.String("value_input_option", resolved.ValueInputOption),
	)

	return &settings{config: resolved, logger: logger}, nil
}

// binding returns a binding for the resolved credentials
func (s *settings) binding(metrics *instrumentation.Metrics) *documents.Binding {
	opts := []documents.Option{
		documents.WithCredentialSource(s.config.CredentialSource()),
		documents.WithLogger(s.logger),
	}
	if metrics != nil {
		opts = append(opts, documents.WithMetrics(metrics))
	}
	return documents.NewBinding(opts...)
}

// valueInputOption returns the configured default for sheet writes
func (s *settings) valueInputOption() (documents.ValueInputOption, error) {
	opt, err := documents.ParseValueInputOption(s.config.ValueInputOption)
	if err != nil {
		return "", fmt.Errorf("invalid configuration: %w", err)
	}
	return opt, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gdocs version %s\n", version)
		},
	}
}
