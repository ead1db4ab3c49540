package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// mockProvider implements interfaces.MarketDataProvider with function fields.
// Calls records every method invoked so tests can assert nothing was fetched.
type mockProvider struct {
	mu    sync.Mutex
	Calls []string

	StockInfoFn       func(ctx context.Context, ticker string) (*models.StockInfo, error)
	HistoryFn         func(ctx context.Context, ticker, period, interval string) ([]models.HistoricalBar, error)
	FinancialsFn      func(ctx context.Context, ticker string, st models.StatementType, quarterly bool) (*models.FinancialStatement, error)
	RecommendationsFn func(ctx context.Context, ticker string) ([]models.RecommendationRecord, error)
	EarningsFn        func(ctx context.Context, ticker string) (*models.Earnings, error)
	NewsFn            func(ctx context.Context, ticker string, count int) ([]models.NewsItem, error)
	QuoteFn           func(ctx context.Context, ticker string) (*models.Quote, error)
	SearchFn          func(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
	ExpirationsFn     func(ctx context.Context, ticker string) (*models.OptionExpirations, error)
	ChainFn           func(ctx context.Context, ticker string, expiration time.Time) (*models.OptionChain, error)
}

func (m *mockProvider) record(call string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

func notImplemented(name string) error {
	return common.UpstreamFailure(fmt.Errorf("not implemented"), "%s", name)
}

func (m *mockProvider) GetStockInfo(ctx context.Context, ticker string) (*models.StockInfo, error) {
	m.record("GetStockInfo")
	if m.StockInfoFn != nil {
		return m.StockInfoFn(ctx, ticker)
	}
	return nil, notImplemented("GetStockInfo")
}

func (m *mockProvider) GetHistory(ctx context.Context, ticker, period, interval string) ([]models.HistoricalBar, error) {
	m.record("GetHistory")
	if m.HistoryFn != nil {
		return m.HistoryFn(ctx, ticker, period, interval)
	}
	return nil, notImplemented("GetHistory")
}

func (m *mockProvider) GetFinancials(ctx context.Context, ticker string, st models.StatementType, quarterly bool) (*models.FinancialStatement, error) {
	m.record("GetFinancials")
	if m.FinancialsFn != nil {
		return m.FinancialsFn(ctx, ticker, st, quarterly)
	}
	return nil, notImplemented("GetFinancials")
}

func (m *mockProvider) GetRecommendations(ctx context.Context, ticker string) ([]models.RecommendationRecord, error) {
	m.record("GetRecommendations")
	if m.RecommendationsFn != nil {
		return m.RecommendationsFn(ctx, ticker)
	}
	return nil, notImplemented("GetRecommendations")
}

func (m *mockProvider) GetEarnings(ctx context.Context, ticker string) (*models.Earnings, error) {
	m.record("GetEarnings")
	if m.EarningsFn != nil {
		return m.EarningsFn(ctx, ticker)
	}
	return nil, notImplemented("GetEarnings")
}

func (m *mockProvider) GetNews(ctx context.Context, ticker string, count int) ([]models.NewsItem, error) {
	m.record("GetNews")
	if m.NewsFn != nil {
		return m.NewsFn(ctx, ticker, count)
	}
	return nil, notImplemented("GetNews")
}

func (m *mockProvider) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	m.record("GetQuote")
	if m.QuoteFn != nil {
		return m.QuoteFn(ctx, ticker)
	}
	return nil, notImplemented("GetQuote")
}

func (m *mockProvider) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	m.record("Search")
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, limit)
	}
	return nil, notImplemented("Search")
}

func (m *mockProvider) GetOptionExpirations(ctx context.Context, ticker string) (*models.OptionExpirations, error) {
	m.record("GetOptionExpirations")
	if m.ExpirationsFn != nil {
		return m.ExpirationsFn(ctx, ticker)
	}
	return nil, notImplemented("GetOptionExpirations")
}

func (m *mockProvider) GetOptionChain(ctx context.Context, ticker string, expiration time.Time) (*models.OptionChain, error) {
	m.record("GetOptionChain")
	if m.ChainFn != nil {
		return m.ChainFn(ctx, ticker, expiration)
	}
	return nil, notImplemented("GetOptionChain")
}
