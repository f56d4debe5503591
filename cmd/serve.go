package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/gdocs/internal/config"
	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/instrumentation"
	"github.com/teemow/gdocs/internal/logging"
	"github.com/teemow/gdocs/internal/server"
)

// serveOptions holds the flags of the serve command
type serveOptions struct {
	transport        string
	httpAddr         string
	yolo             bool
	metricsEnabled   bool
	metricsAddr      string
	valueInputOption string
	exportMimeType   string
	credentialsDir   string
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server to provide Google Drive, Docs and Sheets tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP server

By default the server only registers read tools. Pass --yolo to also
register tools that create, modify or delete Drive items.

Every tool accepts an optional "credentials" argument naming a
service-account key file that is used for that call only. With
--credentials-dir the argument is a file name inside that directory.
Over streamable-http the argument is rejected unless --credentials-dir
is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.yolo, "yolo", false, "Enable write operations (default is read-only)")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics", false, "Serve Prometheus metrics and health endpoints (not available with stdio)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "Metrics server address")
	cmd.Flags().StringVar(&opts.valueInputOption, "value-input-option", "", "Default value input option for sheet writes: RAW or USER_ENTERED")
	cmd.Flags().StringVar(&opts.exportMimeType, "export-mime-type", "", "Default mime type for document exports")
	cmd.Flags().StringVar(&opts.credentialsDir, "credentials-dir", "", "Directory holding the key files tools may select with the credentials argument")

	return cmd
}

func runServe(cmd *cobra.Command, opts serveOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := loadSettings(config.CLIOverrides{
		ValueInputOption: opts.valueInputOption,
		ExportMimeType:   opts.exportMimeType,
	})
	if err != nil {
		return err
	}
	logger := st.logger

	// Flags win over the config file and environment
	metricsCfg := st.config.Metrics
	if cmd.Flags().Changed("metrics") {
		metricsCfg.Enabled = opts.metricsEnabled
	}
	if cmd.Flags().Changed("metrics-addr") {
		metricsCfg.Addr = opts.metricsAddr
	}

	instrConfig, err := instrumentation.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("invalid instrumentation environment: %w", err)
	}
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()
	metrics := provider.Metrics()

	valueInputOption, err := st.valueInputOption()
	if err != nil {
		return err
	}

	serverContext, err := server.NewServerContext(shutdownCtx, st.binding(metrics),
		serverOptions(opts, logger, valueInputOption, st.config.ExportMimeType)...,
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	serverContext.SetMetrics(metrics)
	serverContext.SetAuditLogger(provider.AuditLogger(logger))
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	if err := serverContext.CheckCredentials(); err != nil {
		logger.Warn("default credentials unavailable, tools need a credentials argument",
			logging.Err(err))
	}

	// The metrics port is only opened next to a network transport
	health := server.NewHealthChecker(serverContext)
	if opts.transport != "stdio" && metricsCfg.Enabled && provider.Enabled() {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:     metricsCfg.Addr,
			Provider: provider,
			Health:   health,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		ln, err := metricsServer.Listen()
		if err != nil {
			return err
		}

		metricsCtx, stopMetrics := context.WithCancel(shutdownCtx)
		metricsDone := make(chan struct{})
		go func() {
			defer close(metricsDone)
			if err := metricsServer.Serve(metricsCtx, ln); err != nil {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
		defer func() {
			stopMetrics()
			<-metricsDone
		}()
	}

	mcpSrv := mcpserver.NewMCPServer("gdocs", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	// readOnly is the inverse of yolo
	readOnly := !opts.yolo

	if opts.transport != "stdio" {
		if readOnly {
			logger.Info("starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			logger.Info("starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}
	health.SetReady(true)

	switch opts.transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		logger.Info("starting gdocs MCP server", slog.String("transport", opts.transport), slog.String("addr", opts.httpAddr))
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, opts.httpAddr, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s)", opts.transport, strings.Join(supportedTransports, ", "))
	}
}

var supportedTransports = []string{"stdio", "streamable-http"}

// serverOptions builds the server context options. Remote transports only
// accept per-call key files from the credentials directory.
func serverOptions(opts serveOptions, logger *slog.Logger, valueInputOption documents.ValueInputOption, exportMimeType string) []server.Option {
	options := []server.Option{
		server.WithLogger(logger),
		server.WithValueInputOption(valueInputOption),
		server.WithExportMimeType(exportMimeType),
	}
	if opts.credentialsDir != "" {
		options = append(options, server.WithCredentialsDir(opts.credentialsDir))
	}
	if opts.transport != "stdio" {
		options = append(options, server.WithoutCredentialsArg())
	}
	return options
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, addr string, logger *slog.Logger) error {
	httpServer := mcpserver.NewStreamableHTTPServer(mcpSrv)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		logger.Info("HTTP server stopped normally")
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
