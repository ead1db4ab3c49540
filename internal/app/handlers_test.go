package app

import (
	"bytes"
	"context"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/interfaces"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

var testOutput = outputOptions{defaultFormat: "markdown", characterLimit: common.DefaultCharacterLimit}

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args

	result, err := h(context.Background(), request)
	require.NoError(t, err, "handlers report failures in the result, not as Go errors")
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	return result.Content[0].(mcp.TextContent).Text, result.IsError
}

func appleInfo() *models.Record {
	return models.NewRecord("Apple Inc. (AAPL)").
		Set("ticker", "AAPL").
		Set("current_price", models.Money(190.5)).
		Set("market_cap", models.Count(2950000000000)).
		Set("pe_ratio", nil)
}

func TestHandleGetStockInfo_Markdown(t *testing.T) {
	ms := &mockMarketService{stockInfoFn: func(_ context.Context, ticker string, fields []string) (*models.Record, error) {
		assert.Equal(t, "AAPL", ticker)
		assert.Equal(t, []string{"price", "cap"}, fields)
		return appleInfo(), nil
	}}

	text, isErr := callTool(t, handleGetStockInfo(ms, testOutput, common.NewSilentLogger()), map[string]interface{}{
		"ticker": "AAPL",
		"fields": []interface{}{"price", "cap"},
	})
	require.False(t, isErr, text)

	assert.True(t, strings.HasPrefix(text, "# Apple Inc. (AAPL)\n"))
	assert.Contains(t, text, "**Current Price:** 190.50")
	assert.Contains(t, text, "**Market Cap:** 2,950,000,000,000")
	assert.Contains(t, text, "**PE Ratio:** N/A")
}

func TestHandleGetStockInfo_JSON(t *testing.T) {
	ms := &mockMarketService{stockInfoFn: func(context.Context, string, []string) (*models.Record, error) {
		return appleInfo(), nil
	}}

	text, isErr := callTool(t, handleGetStockInfo(ms, testOutput, common.NewSilentLogger()), map[string]interface{}{
		"ticker":          "AAPL",
		"response_format": "JSON",
	})
	require.False(t, isErr, text)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, "AAPL", got["ticker"])
	assert.Equal(t, 190.5, got["current_price"])
	assert.Nil(t, got["pe_ratio"])
	assert.Less(t, strings.Index(text, `"ticker"`), strings.Index(text, `"current_price"`), "field order is kept")
}

func TestHandler_InvalidResponseFormat(t *testing.T) {
	called := false
	ms := &mockMarketService{stockInfoFn: func(context.Context, string, []string) (*models.Record, error) {
		called = true
		return appleInfo(), nil
	}}

	text, isErr := callTool(t, handleGetStockInfo(ms, testOutput, common.NewSilentLogger()), map[string]interface{}{
		"ticker":          "AAPL",
		"response_format": "xml",
	})
	assert.True(t, isErr)
	assert.False(t, called)
	assert.Contains(t, text, "**Error** (invalid_argument)")
}

func TestHandler_ErrorsCarryKindAndHint(t *testing.T) {
	ms := &mockMarketService{recommendationsFn: func(context.Context, string, int) (*models.Record, error) {
		return nil, common.NotFound("Check the ticker symbol.", "ticker ZZZZ not found")
	}}
	h := handleGetStockRecommendations(ms, testOutput, common.NewSilentLogger())

	text, isErr := callTool(t, h, map[string]interface{}{"ticker": "ZZZZ"})
	assert.True(t, isErr)
	assert.Equal(t, "**Error** (not_found): ticker ZZZZ not found\n\nNext step: Check the ticker symbol.", text)

	text, isErr = callTool(t, h, map[string]interface{}{"ticker": "ZZZZ", "response_format": "json"})
	assert.True(t, isErr)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, "not_found", got["kind"])
	assert.Equal(t, "Check the ticker symbol.", got["hint"])
}

func TestHandler_TruncatesLongOutput(t *testing.T) {
	ms := &mockMarketService{newsFn: func(context.Context, string, int) (*models.Record, error) {
		return models.NewRecord("AAPL News").Set("body", strings.Repeat("headline ", 500)), nil
	}}
	out := outputOptions{defaultFormat: "markdown", characterLimit: 300}

	text, isErr := callTool(t, handleGetStockNews(ms, out, common.NewSilentLogger()), map[string]interface{}{"ticker": "AAPL"})
	require.False(t, isErr)
	assert.Equal(t, 300, utf8.RuneCountInString(text))
	assert.True(t, strings.HasSuffix(text, "a smaller limit or a shorter period.]"))
}

func TestHandleGetStockHistory_Arguments(t *testing.T) {
	var got interfaces.HistoryRequest
	ms := &mockMarketService{historyFn: func(_ context.Context, req interfaces.HistoryRequest) (*models.Record, error) {
		got = req
		return models.NewRecord("AAPL Price History"), nil
	}}
	h := handleGetStockHistory(ms, testOutput, common.NewSilentLogger())

	_, isErr := callTool(t, h, map[string]interface{}{"ticker": "AAPL"})
	require.False(t, isErr)
	assert.Equal(t, interfaces.HistoryRequest{Ticker: "AAPL", Period: "1mo", Interval: "1d"}, got)

	_, isErr = callTool(t, h, map[string]interface{}{
		"ticker": "AAPL", "period": "1y", "interval": "1wk", "limit": "5", "summary_only": true,
	})
	require.False(t, isErr)
	assert.Equal(t, interfaces.HistoryRequest{Ticker: "AAPL", Period: "1y", Interval: "1wk", Limit: 5, SummaryOnly: true}, got)

	text, isErr := callTool(t, h, map[string]interface{}{"ticker": "AAPL", "limit": 0})
	assert.True(t, isErr)
	assert.Contains(t, text, "limit must be at least 1")
}

func TestHandleGetStockFinancials_Arguments(t *testing.T) {
	var got interfaces.FinancialsRequest
	ms := &mockMarketService{financialsFn: func(_ context.Context, req interfaces.FinancialsRequest) (*models.Record, error) {
		got = req
		return models.NewRecord("AAPL Balance Sheet (quarterly)"), nil
	}}
	h := handleGetStockFinancials(ms, testOutput, common.NewSilentLogger())

	_, isErr := callTool(t, h, map[string]interface{}{
		"ticker": "AAPL", "statement_type": "BALANCE", "period": "quarterly", "fields": "cash, debt",
	})
	require.False(t, isErr)
	assert.Equal(t, models.StatementBalance, got.Statement)
	assert.True(t, got.Quarterly)
	assert.Equal(t, 4, got.Limit)
	assert.Equal(t, []string{"cash", " debt"}, got.Fields)

	text, isErr := callTool(t, h, map[string]interface{}{"ticker": "AAPL", "period": "monthly"})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid_argument")

	_, isErr = callTool(t, h, map[string]interface{}{"ticker": "AAPL", "statement_type": "equity"})
	assert.True(t, isErr)
}

func TestHandleGetMultipleQuotes_AcceptsEncodedLists(t *testing.T) {
	var got []string
	ms := &mockMarketService{quotesFn: func(_ context.Context, tickers []string) (*models.Record, error) {
		got = tickers
		return models.NewRecord("Stock Quotes"), nil
	}}
	h := handleGetMultipleQuotes(ms, testOutput, common.NewSilentLogger())

	_, isErr := callTool(t, h, map[string]interface{}{"tickers": []interface{}{"AAPL", "MSFT"}})
	require.False(t, isErr)
	assert.Equal(t, []string{"AAPL", "MSFT"}, got)

	_, isErr = callTool(t, h, map[string]interface{}{"tickers": `["GOOG","TSLA"]`})
	require.False(t, isErr)
	assert.Equal(t, []string{"GOOG", "TSLA"}, got)

	text, isErr := callTool(t, h, map[string]interface{}{"tickers": []interface{}{"AAPL", 7}})
	assert.True(t, isErr)
	assert.Contains(t, text, "list of strings")
}

func TestHandleGetEarningsDates_Defaults(t *testing.T) {
	ms := &mockMarketService{earningsFn: func(_ context.Context, ticker string, limit int, futureOnly bool) (*models.Record, error) {
		assert.Equal(t, 12, limit)
		assert.True(t, futureOnly)
		return models.NewRecord(ticker + " Earnings"), nil
	}}
	text, isErr := callTool(t, handleGetEarningsDates(ms, testOutput, common.NewSilentLogger()), map[string]interface{}{
		"ticker": "MSFT", "future_only": "true",
	})
	require.False(t, isErr)
	assert.Contains(t, text, "# MSFT Earnings")
}

func TestHandleSearchStocks(t *testing.T) {
	ms := &mockMarketService{searchFn: func(_ context.Context, query string, limit int) (*models.Record, error) {
		assert.Equal(t, "apple", query)
		assert.Equal(t, 3, limit)
		return models.NewRecord("Search: apple").Set("found", true), nil
	}}
	text, isErr := callTool(t, handleSearchStocks(ms, testOutput, common.NewSilentLogger()), map[string]interface{}{
		"query": "apple", "limit": 3.0,
	})
	require.False(t, isErr)
	assert.Contains(t, text, "**Found:** Yes")
}

func TestParseOptionsRequest(t *testing.T) {
	req, err := parseOptionsRequest(map[string]interface{}{"ticker": "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, "both", req.OptionType)
	assert.Equal(t, 1, req.Expirations.MaxDates)
	assert.Nil(t, req.Expirations.DTE)
	require.NotNil(t, req.Filter.StrikesNearPrice)
	assert.Equal(t, 10, *req.Filter.StrikesNearPrice)

	req, err = parseOptionsRequest(map[string]interface{}{
		"ticker":             "AAPL",
		"dte":                30.0,
		"max_dates":          3.0,
		"option_type":        "puts",
		"strikes_near_price": nil,
		"in_the_money":       false,
		"min_volume":         100.0,
		"strike_min":         140.5,
		"dates_only":         true,
	})
	require.NoError(t, err)
	require.NotNil(t, req.Expirations.DTE)
	assert.Equal(t, 30, *req.Expirations.DTE)
	assert.Equal(t, 3, req.Expirations.MaxDates)
	assert.Nil(t, req.Filter.StrikesNearPrice, "explicit null disables the window")
	require.NotNil(t, req.Filter.InTheMoney)
	assert.False(t, *req.Filter.InTheMoney)
	assert.Equal(t, int64(100), *req.Filter.MinVolume)
	assert.Nil(t, req.Filter.MinOpenInterest)
	assert.Equal(t, 140.5, *req.Filter.StrikeMin)
	assert.True(t, req.DatesOnly)

	_, err = parseOptionsRequest(map[string]interface{}{"ticker": "AAPL", "dte": 2.5})
	assert.True(t, common.IsKind(err, common.KindInvalidArgument))
}

func TestHandleGetOptionsChain_ServiceErrorIsToolError(t *testing.T) {
	ms := &mockMarketService{optionsFn: func(_ context.Context, req interfaces.OptionsRequest) (*models.Record, error) {
		require.NotNil(t, req.Expirations.DTE)
		assert.Equal(t, "2024-12-15", req.Expirations.TargetDate)
		return nil, common.InvalidArgument("Pass either dte or target_date, not both.", "dte and target_date are mutually exclusive")
	}}
	text, isErr := callTool(t, handleGetOptionsChain(ms, testOutput, common.NewSilentLogger()), map[string]interface{}{
		"ticker": "AAPL", "dte": 30, "target_date": "2024-12-15",
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "mutually exclusive")
	assert.Contains(t, text, "Next step:")
}

func TestHandleGetVersion(t *testing.T) {
	cfg := common.NewDefaultConfig()
	text, isErr := callTool(t, handleGetVersion(cfg), map[string]interface{}{})
	assert.False(t, isErr)
	assert.Contains(t, text, "Version: "+common.GetVersion())
	assert.Contains(t, text, "Go: "+runtime.Version())
	assert.Contains(t, text, "Transport: stdio")
	assert.Contains(t, text, "Status: OK")
}

func TestToolCall_LogsCarryToolAndCallID(t *testing.T) {
	var buf bytes.Buffer
	logger := common.NewLoggerWithOutput("debug", &buf)
	ms := &mockMarketService{searchFn: func(ctx context.Context, query string, limit int) (*models.Record, error) {
		return nil, common.NotFound("Try a company name.", "no results for %q", query)
	}}

	_, isErr := callTool(t, handleSearchStocks(ms, testOutput, logger), map[string]interface{}{"query": "zzzz"})
	require.True(t, isErr)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, "one debug line on entry, one warning on failure")
	var callID string
	for _, line := range lines {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, "search_stocks", entry["tool"])
		id, _ := entry["call_id"].(string)
		assert.Len(t, id, 8)
		if callID == "" {
			callID = id
		}
		assert.Equal(t, callID, id)
	}
	assert.Contains(t, lines[1], `"kind":"not_found"`)
}
