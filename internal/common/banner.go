package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the startup banner to stderr. stdout belongs to the
// stdio transport, so nothing here may write there.
func PrintBanner(config *Config, logger *Logger) {
	version := GetVersion()
	build := GetBuild()
	commit := GetGitCommit()
	endpoint := ListenURL(config)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 64
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` __  __ _____  _____  __  __  ____  ____`,
		` \ \/ /|  ___||  ___||  \/  |/ ___||  _ \`,
		`  \  / | |_   | |_   | |\/| | |    | |_) |`,
		`  /  \ |  _|  |  _|  | |  | | |___ |  __/`,
		` /_/\_\|_|    |_|    |_|  |_|\____||_|`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s  Yahoo Finance market data over MCP%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	kvPad := 16
	kvLines := [][2]string{
		{"Version", version},
		{"Build", build},
		{"Commit", commit},
		{"Environment", config.Environment},
		{"Transport", config.Server.Transport},
		{"Endpoint", endpoint},
		{"Upstream", config.Clients.Yahoo.BaseURL},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	logger.Info().
		Str("version", version).
		Str("build", build).
		Str("commit", commit).
		Str("environment", config.Environment).
		Str("transport", config.Server.Transport).
		Str("endpoint", endpoint).
		Msg("Server started")
}

// PrintShutdownBanner displays the shutdown banner to stderr.
func PrintShutdownBanner(logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 42) + banner.ColorReset

	fmt.Fprintf(os.Stderr, "\n%s\n", hr)
	fmt.Fprintf(os.Stderr, "%s  YFINANCE MCP: SHUTTING DOWN%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "%s\n\n", hr)

	logger.Info().Msg("Server shutting down")
}

// ListenURL returns the MCP endpoint clients should connect to
func ListenURL(config *Config) string {
	base := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)
	switch config.Server.Transport {
	case TransportSSE:
		return base + "/sse"
	case TransportStreamableHTTP:
		return base + "/mcp"
	default:
		return "stdio"
	}
}
