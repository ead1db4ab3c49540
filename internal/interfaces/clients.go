// Package interfaces defines service contracts for yfinance-mcp
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// MarketDataProvider supplies raw market data for a ticker. Implementations
// classify failures with common.Error kinds: unknown tickers and empty data
// are NotFound, everything else is UpstreamFailure.
type MarketDataProvider interface {
	// GetStockInfo retrieves the company overview and headline valuation figures
	GetStockInfo(ctx context.Context, ticker string) (*models.StockInfo, error)

	// GetHistory retrieves chronological OHLCV bars
	GetHistory(ctx context.Context, ticker, period, interval string) ([]models.HistoricalBar, error)

	// GetFinancials retrieves a statement, most recent period first
	GetFinancials(ctx context.Context, ticker string, statement models.StatementType, quarterly bool) (*models.FinancialStatement, error)

	// GetRecommendations retrieves analyst rating changes, most recent first
	GetRecommendations(ctx context.Context, ticker string) ([]models.RecommendationRecord, error)

	// GetEarnings retrieves earnings history and the next scheduled report
	GetEarnings(ctx context.Context, ticker string) (*models.Earnings, error)

	// GetNews retrieves up to count headlines
	GetNews(ctx context.Context, ticker string, count int) ([]models.NewsItem, error)

	// GetQuote retrieves a price snapshot
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)

	// Search looks up symbols by name or ticker
	Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error)

	// GetOptionExpirations lists a ticker's option expiration dates
	GetOptionExpirations(ctx context.Context, ticker string) (*models.OptionExpirations, error)

	// GetOptionChain retrieves calls and puts for one expiration
	GetOptionChain(ctx context.Context, ticker string, expiration time.Time) (*models.OptionChain, error)
}
