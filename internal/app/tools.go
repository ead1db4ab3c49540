package app

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/yfinance-mcp/internal/services/market"
)

// readOnly marks a tool as a read-only query against an external system
func readOnly() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

func withResponseFormat() mcp.ToolOption {
	return mcp.WithString("response_format",
		mcp.Enum("markdown", "json"),
		mcp.Description("Output format: 'markdown' for human-readable text or 'json' for structured data (default: server setting, normally markdown)"),
	)
}

func withTicker() mcp.ToolOption {
	return mcp.WithString("ticker",
		mcp.Required(),
		mcp.Description("Stock ticker symbol (e.g., 'AAPL', 'MSFT', 'BHP.AX')"),
	)
}

func tool(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts, readOnly()...)
	opts = append(opts, withResponseFormat())
	return mcp.NewTool(name, opts...)
}

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the yfinance MCP server version and status. Use this to verify connectivity."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

// createGetStockInfoTool returns the get_stock_info tool definition
func createGetStockInfoTool() mcp.Tool {
	return tool("get_stock_info",
		mcp.WithDescription("Get a company overview: name, price, market cap, valuation ratios, dividend yield, 52-week range, sector, industry and business description."),
		withTicker(),
		mcp.WithArray("fields",
			mcp.WithStringItems(),
			mcp.Description("Only return fields whose names contain one of these strings, case-insensitive (e.g., ['price', 'pe']). Default: all fields"),
		),
	)
}

// createGetStockHistoryTool returns the get_stock_history tool definition
func createGetStockHistoryTool() mcp.Tool {
	return tool("get_stock_history",
		mcp.WithDescription("Get historical OHLCV price bars, or summary statistics for the period with summary_only."),
		withTicker(),
		mcp.WithString("period",
			mcp.Enum(market.ValidPeriods...),
			mcp.DefaultString("1mo"),
			mcp.Description("Time range of the history (default: 1mo)"),
		),
		mcp.WithString("interval",
			mcp.Enum(market.ValidIntervals...),
			mcp.DefaultString("1d"),
			mcp.Description("Bar interval (default: 1d). Intraday intervals are only available for recent periods"),
		),
		mcp.WithNumber("limit",
			mcp.Min(1),
			mcp.Description("Return only the N most recent bars (default: all bars in the period)"),
		),
		mcp.WithBoolean("summary_only",
			mcp.DefaultBool(false),
			mcp.Description("Return high, low, average close and total volume instead of bars (default: false)"),
		),
	)
}

// createGetStockFinancialsTool returns the get_stock_financials tool definition
func createGetStockFinancialsTool() mcp.Tool {
	return tool("get_stock_financials",
		mcp.WithDescription("Get income statement, balance sheet or cash flow line items for recent annual or quarterly periods."),
		withTicker(),
		mcp.WithString("statement_type",
			mcp.Enum(market.ValidStatements...),
			mcp.DefaultString("income"),
			mcp.Description("Statement to return (default: income)"),
		),
		mcp.WithString("period",
			mcp.Enum(market.ValidPeriodType...),
			mcp.DefaultString("annual"),
			mcp.Description("Reporting frequency (default: annual)"),
		),
		mcp.WithNumber("limit",
			mcp.Min(1),
			mcp.DefaultNumber(4),
			mcp.Description("Number of most recent periods to return (default: 4)"),
		),
		mcp.WithArray("fields",
			mcp.WithStringItems(),
			mcp.Description("Only return line items whose names contain one of these strings, case-insensitive (e.g., ['revenue', 'net income'])"),
		),
	)
}

// createGetStockRecommendationsTool returns the get_stock_recommendations tool definition
func createGetStockRecommendationsTool() mcp.Tool {
	return tool("get_stock_recommendations",
		mcp.WithDescription("Get recent analyst upgrades, downgrades and rating changes, most recent first."),
		withTicker(),
		mcp.WithNumber("limit",
			mcp.Min(1),
			mcp.DefaultNumber(20),
			mcp.Description("Maximum rating changes to return (default: 20)"),
		),
	)
}

// createGetStockNewsTool returns the get_stock_news tool definition
func createGetStockNewsTool() mcp.Tool {
	return tool("get_stock_news",
		mcp.WithDescription("Get recent news headlines for a ticker with publisher, link and publish time."),
		withTicker(),
		mcp.WithNumber("max_items",
			mcp.Min(1),
			mcp.Max(market.MaxNewsItems),
			mcp.DefaultNumber(10),
			mcp.Description("Maximum headlines to return, 1-50 (default: 10)"),
		),
	)
}

// createGetMultipleQuotesTool returns the get_multiple_quotes tool definition
func createGetMultipleQuotesTool() mcp.Tool {
	return tool("get_multiple_quotes",
		mcp.WithDescription("Get current price, change and volume for several tickers at once. Tickers that fail are reported individually without failing the call."),
		mcp.WithArray("tickers",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("Ticker symbols (e.g., ['AAPL', 'MSFT', 'GOOGL']). Only the first 20 are fetched"),
		),
	)
}

// createSearchStocksTool returns the search_stocks tool definition
func createSearchStocksTool() mcp.Tool {
	return tool("search_stocks",
		mcp.WithDescription("Search for ticker symbols by company name or partial symbol."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Company name or symbol to search for (e.g., 'apple', 'tesla')"),
		),
		mcp.WithNumber("limit",
			mcp.Min(1),
			mcp.DefaultNumber(10),
			mcp.Description("Maximum results to return (default: 10)"),
		),
	)
}

// createGetEarningsDatesTool returns the get_earnings_dates tool definition
func createGetEarningsDatesTool() mcp.Tool {
	return tool("get_earnings_dates",
		mcp.WithDescription("Get past and scheduled earnings dates with EPS estimates, reported EPS and surprise percentage."),
		withTicker(),
		mcp.WithNumber("limit",
			mcp.Min(1),
			mcp.DefaultNumber(12),
			mcp.Description("Maximum earnings events to return (default: 12)"),
		),
		mcp.WithBoolean("future_only",
			mcp.DefaultBool(false),
			mcp.Description("Only return events dated today or later (default: false)"),
		),
	)
}

// createGetOptionsChainTool returns the get_options_chain tool definition
func createGetOptionsChainTool() mcp.Tool {
	return tool("get_options_chain",
		mcp.WithDescription("Get an options chain. Pick expirations with expiration_date (exact), dte (days to expiration) or target_date (closest to a date); "+
			"with none of these the nearest upcoming expiration is used. Contracts can be filtered by moneyness, liquidity and strike. "+
			"Use dates_only to list expirations without contracts."),
		withTicker(),
		mcp.WithString("expiration_date",
			mcp.Description("Exact expiration date, YYYY-MM-DD. Cannot be combined with dte or target_date"),
		),
		mcp.WithNumber("dte",
			mcp.Min(0),
			mcp.Description("Target days to expiration; the closest expirations are returned. Cannot be combined with target_date"),
		),
		mcp.WithString("target_date",
			mcp.Description("Approximate expiration date, YYYY-MM-DD; the closest expirations are returned. Cannot be combined with dte"),
		),
		mcp.WithNumber("max_dates",
			mcp.Min(1),
			mcp.DefaultNumber(1),
			mcp.Description("Number of expirations to return, closest first (default: 1)"),
		),
		mcp.WithString("option_type",
			mcp.Enum(market.ValidOptionType...),
			mcp.DefaultString("both"),
			mcp.Description("Contracts to include (default: both)"),
		),
		mcp.WithNumber("strikes_near_price",
			mcp.Min(0),
			mcp.DefaultNumber(defaultStrikesNearPrice),
			mcp.Description("Keep the N strikes below and N at or above the underlying price. 0 returns every strike. Ignored when strike_min or strike_max is set (default: 10)"),
		),
		mcp.WithBoolean("in_the_money",
			mcp.Description("true for in-the-money contracts only, false for out-of-the-money only (default: both)"),
		),
		mcp.WithNumber("min_volume",
			mcp.Min(0),
			mcp.Description("Minimum contract volume"),
		),
		mcp.WithNumber("min_open_interest",
			mcp.Min(0),
			mcp.Description("Minimum open interest"),
		),
		mcp.WithNumber("strike_min",
			mcp.Description("Lowest strike to include"),
		),
		mcp.WithNumber("strike_max",
			mcp.Description("Highest strike to include"),
		),
		mcp.WithBoolean("dates_only",
			mcp.DefaultBool(false),
			mcp.Description("Only list the selected and available expiration dates (default: false)"),
		),
	)
}
