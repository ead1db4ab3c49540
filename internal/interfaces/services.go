// Package interfaces defines service contracts for yfinance-mcp
package interfaces

import (
	"context"

	"github.com/bobmcallan/yfinance-mcp/internal/models"
	"github.com/bobmcallan/yfinance-mcp/internal/shaping"
)

// MarketService shapes provider data into renderable records, one method per tool
type MarketService interface {
	GetStockInfo(ctx context.Context, ticker string, fields []string) (*models.Record, error)
	GetStockHistory(ctx context.Context, req HistoryRequest) (*models.Record, error)
	GetFinancials(ctx context.Context, req FinancialsRequest) (*models.Record, error)
	GetRecommendations(ctx context.Context, ticker string, limit int) (*models.Record, error)
	GetNews(ctx context.Context, ticker string, maxItems int) (*models.Record, error)
	GetQuotes(ctx context.Context, tickers []string) (*models.Record, error)
	Search(ctx context.Context, query string, limit int) (*models.Record, error)
	GetEarnings(ctx context.Context, ticker string, limit int, futureOnly bool) (*models.Record, error)
	GetOptionsChain(ctx context.Context, req OptionsRequest) (*models.Record, error)
}

// HistoryRequest parameters for get_stock_history
type HistoryRequest struct {
	Ticker      string
	Period      string
	Interval    string
	Limit       int // 0 = all bars
	SummaryOnly bool
}

// FinancialsRequest parameters for get_stock_financials
type FinancialsRequest struct {
	Ticker    string
	Statement models.StatementType
	Quarterly bool
	Limit     int
	Fields    []string
}

// OptionsRequest parameters for get_options_chain.
// ExpirationDate is an exact date and excludes Expirations.DTE and Expirations.TargetDate.
type OptionsRequest struct {
	Ticker         string
	ExpirationDate string
	Expirations    shaping.ExpirationQuery
	OptionType     string // calls, puts or both
	Filter         shaping.OptionFilter
	DatesOnly      bool
}
