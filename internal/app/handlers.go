package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/interfaces"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
	"github.com/bobmcallan/yfinance-mcp/internal/render"
	"github.com/bobmcallan/yfinance-mcp/internal/services/market"
	"github.com/bobmcallan/yfinance-mcp/internal/shaping"
)

const defaultStrikesNearPrice = 10

// outputOptions carries the response settings every tool shares
type outputOptions struct {
	defaultFormat  string
	characterLimit int
}

// toolCall tracks one invocation from argument parsing to the rendered result
type toolCall struct {
	tool   string
	id     string
	args   map[string]interface{}
	format render.Format
	out    outputOptions
	logger *common.Logger
	start  time.Time
	err    error // response_format parse failure, reported before any fetch
}

func newToolCall(tool string, request mcp.CallToolRequest, out outputOptions, logger *common.Logger) *toolCall {
	id := uuid.New().String()[:8]
	c := &toolCall{
		tool:   tool,
		id:     id,
		args:   request.GetArguments(),
		out:    out,
		logger: logger.WithFields("tool", tool, "call_id", id),
		start:  time.Now(),
	}
	if c.args == nil {
		c.args = map[string]interface{}{}
	}

	fallback, err := render.ParseFormat(out.defaultFormat)
	if err != nil {
		fallback = render.FormatMarkdown
	}
	c.format = fallback
	if requested, err := stringArg(c.args, "response_format", ""); err != nil {
		c.err = err
	} else if requested != "" {
		if c.format, c.err = render.ParseFormat(requested); c.err != nil {
			c.format = fallback
		}
	}

	c.logger.Debug().Msg("Tool call")
	return c
}

// finish renders a service result or error into the tool result
func (c *toolCall) finish(v *models.Record, err error) *mcp.CallToolResult {
	if err != nil {
		return c.fail(err)
	}
	text, err := render.Render(v, c.format)
	if err != nil {
		return c.fail(common.UpstreamFailure(err, "failed to render %s result", c.tool))
	}
	truncated := render.Truncate(text, c.out.characterLimit)

	c.logger.Info().
		Int("chars", len([]rune(truncated))).
		Bool("truncated", truncated != text).
		Dur("duration", time.Since(c.start)).
		Msg("Tool call completed")
	return textResult(truncated)
}

// fail logs err and returns it as an error result in the caller's format
func (c *toolCall) fail(err error) *mcp.CallToolResult {
	kind := common.KindOf(err)
	event := c.logger.Warn()
	if kind == common.KindUpstreamFailure {
		event = c.logger.Error()
	}
	event.Err(err).
		Str("kind", string(kind)).
		Interface("ticker", c.args["ticker"]).
		Dur("duration", time.Since(c.start)).
		Msg("Tool call failed")

	return errorResult(render.Truncate(render.Error(err, c.format), c.out.characterLimit))
}

// handleGetVersion implements the get_version tool
func handleGetVersion(config *common.Config) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		info := common.GetVersionInfo()
		result := fmt.Sprintf("yfinance MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nGo: %s\nTransport: %s\nStatus: OK",
			info.Version, info.Build, info.GitCommit, info.GoVersion, config.Server.Transport)
		return textResult(result), nil
	}
}

// handleGetStockInfo implements the get_stock_info tool
func handleGetStockInfo(ms interfaces.MarketService, out outputOptions, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := newToolCall("get_stock_info", request, out, logger)
		if c.err != nil {
			return c.fail(c.err), nil
		}
		ticker, err := stringArg(c.args, "ticker", "")
		if err != nil {
			return c.fail(err), nil
		}
		fields, err := stringList(c.args, "fields")
		if err != nil {
			return c.fail(err), nil
		}
		return c.finish(ms.GetStockInfo(ctx, ticker, fields)), nil
	}
}

// handleGetStockHistory implements the get_stock_history tool
func handleGetStockHistory(ms interfaces.MarketService, out outputOptions, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := newToolCall("get_stock_history", request, out, logger)
		if c.err != nil {
			return c.fail(c.err), nil
		}

		req := interfaces.HistoryRequest{}
		var err error
		if req.Ticker, err = stringArg(c.args, "ticker", ""); err != nil {
			return c.fail(err), nil
		}
		if req.Period, err = stringArg(c.args, "period", "1mo"); err != nil {
			return c.fail(err), nil
		}
		if req.Interval, err = stringArg(c.args, "interval", "1d"); err != nil {
			return c.fail(err), nil
		}
		limit, err := optionalInt(c.args, "limit")
		if err != nil {
			return c.fail(err), nil
		}
		if limit != nil {
			if *limit < 1 {
				return c.fail(common.InvalidArgument("Omit limit to return every bar.",
					"limit must be at least 1, got %d", *limit)), nil
			}
			req.Limit = *limit
		}
		if req.SummaryOnly, err = boolArg(c.args, "summary_only", false); err != nil {
			return c.fail(err), nil
		}

		return c.finish(ms.GetStockHistory(ctx, req)), nil
	}
}

// handleGetStockFinancials implements the get_stock_financials tool
func handleGetStockFinancials(ms interfaces.MarketService, out outputOptions, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := newToolCall("get_stock_financials", request, out, logger)
		if c.err != nil {
			return c.fail(c.err), nil
		}

		req := interfaces.FinancialsRequest{}
		var err error
		if req.Ticker, err = stringArg(c.args, "ticker", ""); err != nil {
			return c.fail(err), nil
		}
		statement, err := stringArg(c.args, "statement_type", "income")
		if err != nil {
			return c.fail(err), nil
		}
		if req.Statement, err = market.ParseStatementType(statement); err != nil {
			return c.fail(err), nil
		}
		period, err := stringArg(c.args, "period", "annual")
		if err != nil {
			return c.fail(err), nil
		}
		switch strings.ToLower(period) {
		case "annual", "yearly":
		case "quarterly":
			req.Quarterly = true
		default:
			return c.fail(common.InvalidArgument("Use one of: annual, quarterly.", "invalid period %q", period)), nil
		}
		if req.Limit, err = intArg(c.args, "limit", 4); err != nil {
			return c.fail(err), nil
		}
		if req.Fields, err = stringList(c.args, "fields"); err != nil {
			return c.fail(err), nil
		}

		return c.finish(ms.GetFinancials(ctx, req)), nil
	}
}

// handleGetStockRecommendations implements the get_stock_recommendations tool
func handleGetStockRecommendations(ms interfaces.MarketService, out outputOptions, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := newToolCall("get_stock_recommendations", request, out, logger)
		if c.err != nil {
			return c.fail(c.err), nil
		}
		ticker, err := stringArg(c.args, "ticker", "")
		if err != nil {
			return c.fail(err), nil
		}
		limit, err := intArg(c.args, "limit", 20)
		if err != nil {
			return c.fail(err), nil
		}
		return c.finish(ms.GetRecommendations(ctx, ticker, limit)), nil
	}
}

// handleGetStockNews implements the get_stock_news tool
func handleGetStockNews(ms interfaces.MarketService, out outputOptions, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := newToolCall("get_stock_news", request, out, logger)
		if c.err != nil {
			return c.fail(c.err), nil
		}
		ticker, err := stringArg(c.args, "ticker", "")
		if err != nil {
			return c.fail(err), nil
		}
		maxItems, err := intArg(c.args, "max_items", 10)
		if err != nil {
			return c.fail(err), nil
		}
		return c.finish(ms.GetNews(ctx, ticker, maxItems)), nil
	}
}

// handleGetMultipleQuotes implements the get_multiple_quotes tool
func handleGetMultipleQuotes(ms interfaces.MarketService, out outputOptions, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := newToolCall("get_multiple_quotes", request, out, logger)
		if c.err != nil {
			return c.fail(c.err), nil
		}
		tickers, err := stringList(c.args, "tickers")
		if err != nil {
			return c.fail(err), nil
		}
		return c.finish(ms.GetQuotes(ctx, tickers)), nil
	}
}

// handleSearchStocks implements the search_stocks tool
func handleSearchStocks(ms interfaces.MarketService, out outputOptions, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := newToolCall("search_stocks", request, out, logger)
		if c.err != nil {
			return c.fail(c.err), nil
		}
		query, err := stringArg(c.args, "query", "")
		if err != nil {
			return c.fail(err), nil
		}
		limit, err := intArg(c.args, "limit", 10)
		if err != nil {
			return c.fail(err), nil
		}
		return c.finish(ms.Search(ctx, query, limit)), nil
	}
}

// handleGetEarningsDates implements the get_earnings_dates tool
func handleGetEarningsDates(ms interfaces.MarketService, out outputOptions, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := newToolCall("get_earnings_dates", request, out, logger)
		if c.err != nil {
			return c.fail(c.err), nil
		}
		ticker, err := stringArg(c.args, "ticker", "")
		if err != nil {
			return c.fail(err), nil
		}
		limit, err := intArg(c.args, "limit", 12)
		if err != nil {
			return c.fail(err), nil
		}
		futureOnly, err := boolArg(c.args, "future_only", false)
		if err != nil {
			return c.fail(err), nil
		}
		return c.finish(ms.GetEarnings(ctx, ticker, limit, futureOnly)), nil
	}
}

// handleGetOptionsChain implements the get_options_chain tool
func handleGetOptionsChain(ms interfaces.MarketService, out outputOptions, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := newToolCall("get_options_chain", request, out, logger)
		if c.err != nil {
			return c.fail(c.err), nil
		}
		req, err := parseOptionsRequest(c.args)
		if err != nil {
			return c.fail(err), nil
		}
		return c.finish(ms.GetOptionsChain(ctx, req)), nil
	}
}

// parseOptionsRequest maps get_options_chain arguments. An absent
// strikes_near_price defaults to 10; an explicit null disables the window.
func parseOptionsRequest(args map[string]interface{}) (interfaces.OptionsRequest, error) {
	req := interfaces.OptionsRequest{}
	var err error

	if req.Ticker, err = stringArg(args, "ticker", ""); err != nil {
		return req, err
	}
	if req.ExpirationDate, err = stringArg(args, "expiration_date", ""); err != nil {
		return req, err
	}
	if req.OptionType, err = stringArg(args, "option_type", "both"); err != nil {
		return req, err
	}
	if req.DatesOnly, err = boolArg(args, "dates_only", false); err != nil {
		return req, err
	}

	q := shaping.ExpirationQuery{}
	if q.DTE, err = optionalInt(args, "dte"); err != nil {
		return req, err
	}
	if q.TargetDate, err = stringArg(args, "target_date", ""); err != nil {
		return req, err
	}
	if q.MaxDates, err = intArg(args, "max_dates", 1); err != nil {
		return req, err
	}
	req.Expirations = q

	f := shaping.OptionFilter{}
	if f.InTheMoney, err = optionalBool(args, "in_the_money"); err != nil {
		return req, err
	}
	if f.MinVolume, err = optionalInt64(args, "min_volume"); err != nil {
		return req, err
	}
	if f.MinOpenInterest, err = optionalInt64(args, "min_open_interest"); err != nil {
		return req, err
	}
	if f.StrikeMin, err = optionalNumber(args, "strike_min"); err != nil {
		return req, err
	}
	if f.StrikeMax, err = optionalNumber(args, "strike_max"); err != nil {
		return req, err
	}
	if _, present := args["strikes_near_price"]; present {
		if f.StrikesNearPrice, err = optionalInt(args, "strikes_near_price"); err != nil {
			return req, err
		}
	} else {
		n := defaultStrikesNearPrice
		f.StrikesNearPrice = &n
	}
	req.Filter = f

	return req, nil
}

// textResult creates a successful text result
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

// errorResult creates an error result
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
		IsError: true,
	}
}
