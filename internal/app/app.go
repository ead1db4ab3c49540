package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/yfinance-mcp/internal/clients/yahoo"
	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/interfaces"
	"github.com/bobmcallan/yfinance-mcp/internal/services/market"
)

// ServerName is the MCP implementation name reported during initialize
const ServerName = "yfinance-mcp"

// App holds the initialized provider, service and MCP server.
// It is the shared core used by every transport in cmd/yfinance-mcp.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Provider      interfaces.MarketDataProvider
	MarketService interfaces.MarketService
	MCPServer     *server.MCPServer
	Tools         []mcp.Tool // registration order
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: the explicit path, YFMCP_CONFIG,
// yfinance-mcp.toml beside the binary, then config/yfinance-mcp.toml.
// Missing files are skipped by LoadConfig, so the result may not exist.
func ResolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("YFMCP_CONFIG"); env != "" {
		return env
	}
	candidate := filepath.Join(getBinaryDir(), "yfinance-mcp.toml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return filepath.Join("config", "yfinance-mcp.toml")
}

// NewApp loads configuration and wires the Yahoo client, market service and
// MCP server. configPath may be empty, in which case ResolveConfigPath applies.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	provider := yahoo.NewClientFromConfig(config.Clients.Yahoo, logger)

	return NewAppWithProvider(config, logger, provider), nil
}

// NewAppWithProvider builds an App around an existing provider
func NewAppWithProvider(config *common.Config, logger *common.Logger, provider interfaces.MarketDataProvider) *App {
	startupStart := time.Now()

	marketService := market.NewService(provider, logger, market.Options{
		MaxQuoteTickers:  config.Tools.MaxQuoteTickers,
		QuoteConcurrency: config.Tools.QuoteConcurrency,
	})

	mcpServer := server.NewMCPServer(
		ServerName,
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	a := &App{
		Config:        config,
		Logger:        logger,
		Provider:      provider,
		MarketService: marketService,
		MCPServer:     mcpServer,
		StartupTime:   startupStart,
	}

	a.registerTools()

	logger.Info().
		Dur("startup", time.Since(startupStart)).
		Str("upstream", config.Clients.Yahoo.BaseURL).
		Msg("App initialized")

	return a
}

// Close releases resources held by the App
func (a *App) Close() {
	a.Logger.Debug().Dur("uptime", time.Since(a.StartupTime)).Msg("App closed")
}

func (a *App) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	a.MCPServer.AddTool(tool, handler)
	a.Tools = append(a.Tools, tool)
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	ms := a.MarketService
	out := outputOptions{
		defaultFormat:  a.Config.Response.DefaultFormat,
		characterLimit: a.Config.Response.CharacterLimit,
	}
	logger := a.Logger

	a.addTool(createGetVersionTool(), handleGetVersion(a.Config))
	a.addTool(createGetStockInfoTool(), handleGetStockInfo(ms, out, logger))
	a.addTool(createGetStockHistoryTool(), handleGetStockHistory(ms, out, logger))
	a.addTool(createGetStockFinancialsTool(), handleGetStockFinancials(ms, out, logger))
	a.addTool(createGetStockRecommendationsTool(), handleGetStockRecommendations(ms, out, logger))
	a.addTool(createGetStockNewsTool(), handleGetStockNews(ms, out, logger))
	a.addTool(createGetMultipleQuotesTool(), handleGetMultipleQuotes(ms, out, logger))
	a.addTool(createSearchStocksTool(), handleSearchStocks(ms, out, logger))
	a.addTool(createGetEarningsDatesTool(), handleGetEarningsDates(ms, out, logger))
	a.addTool(createGetOptionsChainTool(), handleGetOptionsChain(ms, out, logger))
}
