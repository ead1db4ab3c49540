package app

import (
	"context"
	"fmt"

	"github.com/bobmcallan/yfinance-mcp/internal/interfaces"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// --- mockMarketService ---

type mockMarketService struct {
	stockInfoFn       func(ctx context.Context, ticker string, fields []string) (*models.Record, error)
	historyFn         func(ctx context.Context, req interfaces.HistoryRequest) (*models.Record, error)
	financialsFn      func(ctx context.Context, req interfaces.FinancialsRequest) (*models.Record, error)
	recommendationsFn func(ctx context.Context, ticker string, limit int) (*models.Record, error)
	newsFn            func(ctx context.Context, ticker string, maxItems int) (*models.Record, error)
	quotesFn          func(ctx context.Context, tickers []string) (*models.Record, error)
	searchFn          func(ctx context.Context, query string, limit int) (*models.Record, error)
	earningsFn        func(ctx context.Context, ticker string, limit int, futureOnly bool) (*models.Record, error)
	optionsFn         func(ctx context.Context, req interfaces.OptionsRequest) (*models.Record, error)
}

var _ interfaces.MarketService = (*mockMarketService)(nil)

func errNotImplemented(name string) error {
	return fmt.Errorf("%s not implemented", name)
}

func (m *mockMarketService) GetStockInfo(ctx context.Context, ticker string, fields []string) (*models.Record, error) {
	if m.stockInfoFn != nil {
		return m.stockInfoFn(ctx, ticker, fields)
	}
	return nil, errNotImplemented("GetStockInfo")
}

func (m *mockMarketService) GetStockHistory(ctx context.Context, req interfaces.HistoryRequest) (*models.Record, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, req)
	}
	return nil, errNotImplemented("GetStockHistory")
}

func (m *mockMarketService) GetFinancials(ctx context.Context, req interfaces.FinancialsRequest) (*models.Record, error) {
	if m.financialsFn != nil {
		return m.financialsFn(ctx, req)
	}
	return nil, errNotImplemented("GetFinancials")
}

func (m *mockMarketService) GetRecommendations(ctx context.Context, ticker string, limit int) (*models.Record, error) {
	if m.recommendationsFn != nil {
		return m.recommendationsFn(ctx, ticker, limit)
	}
	return nil, errNotImplemented("GetRecommendations")
}

func (m *mockMarketService) GetNews(ctx context.Context, ticker string, maxItems int) (*models.Record, error) {
	if m.newsFn != nil {
		return m.newsFn(ctx, ticker, maxItems)
	}
	return nil, errNotImplemented("GetNews")
}

func (m *mockMarketService) GetQuotes(ctx context.Context, tickers []string) (*models.Record, error) {
	if m.quotesFn != nil {
		return m.quotesFn(ctx, tickers)
	}
	return nil, errNotImplemented("GetQuotes")
}

func (m *mockMarketService) Search(ctx context.Context, query string, limit int) (*models.Record, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, errNotImplemented("Search")
}

func (m *mockMarketService) GetEarnings(ctx context.Context, ticker string, limit int, futureOnly bool) (*models.Record, error) {
	if m.earningsFn != nil {
		return m.earningsFn(ctx, ticker, limit, futureOnly)
	}
	return nil, errNotImplemented("GetEarnings")
}

func (m *mockMarketService) GetOptionsChain(ctx context.Context, req interfaces.OptionsRequest) (*models.Record, error) {
	if m.optionsFn != nil {
		return m.optionsFn(ctx, req)
	}
	return nil, errNotImplemented("GetOptionsChain")
}
