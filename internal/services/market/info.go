package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
	"github.com/bobmcallan/yfinance-mcp/internal/shaping"
)

// GetStockInfo returns the company overview, optionally projected to fields
func (s *Service) GetStockInfo(ctx context.Context, ticker string, fields []string) (*models.Record, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	info, err := s.provider.GetStockInfo(ctx, t)
	if err != nil {
		return nil, err
	}

	title := t
	if info.Name != "" {
		title = fmt.Sprintf("%s (%s)", info.Name, t)
	}

	r := models.NewRecord(title).
		Set("ticker", t).
		Set("name", models.OptString(info.Name)).
		Set("current_price", models.OptMoney(info.CurrentPrice)).
		Set("currency", models.OptString(info.Currency)).
		Set("market_cap", models.OptCount(info.MarketCap)).
		Set("pe_ratio", models.OptNumber(info.TrailingPE)).
		Set("forward_pe", models.OptNumber(info.ForwardPE)).
		Set("dividend_yield", models.OptFraction(info.DividendYield)).
		Set("beta", models.OptNumber(info.Beta)).
		Set("52_week_high", models.OptMoney(info.High52Week)).
		Set("52_week_low", models.OptMoney(info.Low52Week)).
		Set("avg_volume", models.OptCount(info.AverageVolume)).
		Set("exchange", models.OptString(info.Exchange)).
		Set("quote_type", models.OptString(info.QuoteType)).
		Set("sector", models.OptString(info.Sector)).
		Set("industry", models.OptString(info.Industry)).
		Set("website", models.OptString(info.Website)).
		Set("full_time_employees", models.OptCount(info.Employees)).
		Set("description", models.OptString(truncateRunes(info.Description, descriptionLength)))

	projected := shaping.ProjectFields(*r, fields)
	return &projected, nil
}

// Search looks up symbols matching a name or ticker
func (s *Service) Search(ctx context.Context, query string, limit int) (*models.Record, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, common.InvalidArgument("Pass a company name or ticker, for example \"apple\".", "query is required")
	}
	if err := positive("limit", limit); err != nil {
		return nil, err
	}

	results, err := s.provider.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	results = shaping.LimitRecords(results, limit, true)

	r := models.NewRecord(fmt.Sprintf("Search: %s", q)).
		Set("query", q).
		Set("found", len(results) > 0).
		Set("count", len(results))

	if len(results) == 0 {
		r.Set("message", fmt.Sprintf("No stock found for query: %s. Try using the exact ticker symbol.", q))
		return r, nil
	}

	rows := make([]models.Record, len(results))
	for i, res := range results {
		rows[i] = *models.NewRecord("").
			Set("symbol", res.Symbol).
			Set("name", models.OptString(res.Name)).
			Set("exchange", models.OptString(res.Exchange)).
			Set("type", models.OptString(res.Type))
	}
	r.Set("results", rows)
	return r, nil
}
