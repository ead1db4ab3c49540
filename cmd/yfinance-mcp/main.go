package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/bobmcallan/yfinance-mcp/internal/app"
	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/server"
)

// flagOverrides holds command line values that win over config and env
type flagOverrides struct {
	configPath string
	transport  string
	host       string
	port       int
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags flagOverrides

	rootCmd := &cobra.Command{
		Use:           "yfinance-mcp",
		Short:         "yfinance-mcp - Yahoo Finance market data over MCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), flags)
		},
	}

	rootCmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to yfinance-mcp.toml (default: YFMCP_CONFIG or config/yfinance-mcp.toml)")
	rootCmd.Flags().StringVarP(&flags.transport, "transport", "t", "", "MCP transport: stdio, sse or streamable-http")
	rootCmd.Flags().StringVar(&flags.host, "host", "", "Listen host for HTTP transports")
	rootCmd.Flags().IntVarP(&flags.port, "port", "p", 0, "Listen port for HTTP transports")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn or error")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			common.LoadVersionFromFile()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", app.ServerName, common.GetFullVersion())
		},
	}
}

// applyFlagOverrides copies set flags onto the loaded config and revalidates it
func applyFlagOverrides(config *common.Config, flags flagOverrides) error {
	if flags.transport != "" {
		config.Server.Transport = flags.transport
	}
	if flags.host != "" {
		config.Server.Host = flags.host
	}
	if flags.port != 0 {
		config.Server.Port = flags.port
	}
	if flags.logLevel != "" {
		config.Logging.Level = flags.logLevel
	}
	return config.Validate()
}

func runServer(ctx context.Context, flags flagOverrides) error {
	// A missing .env is normal
	_ = godotenv.Load()

	// the logger is built inside NewApp
	if flags.logLevel != "" {
		os.Setenv("YFMCP_LOG_LEVEL", flags.logLevel)
	}

	a, err := app.NewApp(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.Close()

	if err := applyFlagOverrides(a.Config, flags); err != nil {
		return err
	}

	if !a.Config.IsHTTPTransport() {
		common.PrintBanner(a.Config, a.Logger)
		// ServeStdio handles SIGINT/SIGTERM itself
		if err := mcpserver.ServeStdio(a.MCPServer); err != nil {
			return fmt.Errorf("stdio transport: %w", err)
		}
		common.PrintShutdownBanner(a.Logger)
		return nil
	}

	return serveHTTP(ctx, a)
}

func serveHTTP(ctx context.Context, a *app.App) error {
	srv := server.NewServer(a)
	common.PrintBanner(a.Config, a.Logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			a.Logger.Error().Err(err).Msg("HTTP server failed")
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-sigCtx.Done():
		a.Logger.Info().Msg("Shutdown signal received")
	}

	common.PrintShutdownBanner(a.Logger)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
		return err
	}

	a.Logger.Info().Msg("Server stopped")
	return nil
}
