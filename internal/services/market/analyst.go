package market

import (
	"context"
	"fmt"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
	"github.com/bobmcallan/yfinance-mcp/internal/shaping"
)

// GetRecommendations returns the most recent analyst rating changes
func (s *Service) GetRecommendations(ctx context.Context, ticker string, limit int) (*models.Record, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if err := positive("limit", limit); err != nil {
		return nil, err
	}

	recs, err := s.provider.GetRecommendations(ctx, t)
	if err != nil {
		return nil, err
	}
	limited := shaping.LimitRecords(recs, limit, true)

	rows := make([]models.Record, len(limited))
	for i, rec := range limited {
		rows[i] = *models.NewRecord("").
			Set("date", models.OptDate(rec.Date)).
			Set("firm", models.OptString(rec.Firm)).
			Set("to_grade", models.OptString(rec.ToGrade)).
			Set("from_grade", models.OptString(rec.FromGrade)).
			Set("action", models.OptString(rec.Action))
	}

	return models.NewRecord(fmt.Sprintf("%s Analyst Recommendations", t)).
		Set("ticker", t).
		Set("total_available", len(recs)).
		Set("count", len(rows)).
		Set("recommendations", rows), nil
}

// GetNews returns up to maxItems recent headlines
func (s *Service) GetNews(ctx context.Context, ticker string, maxItems int) (*models.Record, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if maxItems < 1 || maxItems > MaxNewsItems {
		return nil, common.InvalidArgument(fmt.Sprintf("Use max_items between 1 and %d.", MaxNewsItems),
			"max_items must be between 1 and %d, got %d", MaxNewsItems, maxItems)
	}

	items, err := s.provider.GetNews(ctx, t, maxItems)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, common.NotFound("Check the symbol, or try again later.", "no news found for %s", t)
	}
	items = shaping.LimitRecords(items, maxItems, true)

	rows := make([]models.Record, len(items))
	for i, n := range items {
		rows[i] = *models.NewRecord("").
			Set("title", models.OptString(n.Title)).
			Set("publisher", models.OptString(n.Publisher)).
			Set("link", models.OptString(n.Link)).
			Set("published", models.OptTimestamp(n.PublishedAt)).
			Set("type", models.OptString(n.Type))
	}

	return models.NewRecord(fmt.Sprintf("%s News", t)).
		Set("ticker", t).
		Set("count", len(rows)).
		Set("news", rows), nil
}

// GetEarnings returns reported and scheduled earnings, most recent first.
// futureOnly is applied before the limit.
func (s *Service) GetEarnings(ctx context.Context, ticker string, limit int, futureOnly bool) (*models.Record, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if err := positive("limit", limit); err != nil {
		return nil, err
	}

	e, err := s.provider.GetEarnings(ctx, t)
	if err != nil {
		return nil, err
	}

	records := e.Records
	if futureOnly {
		records = shaping.FutureOnly(records, s.today())
	}
	records = shaping.LimitRecords(records, limit, true)

	rows := make([]models.Record, len(records))
	for i, rec := range records {
		rows[i] = *models.NewRecord("").
			Set("date", models.OptDate(rec.Date)).
			Set("eps_estimate", models.OptMoney(rec.EPSEstimate)).
			Set("eps_reported", models.OptMoney(rec.EPSReported)).
			Set("surprise_percent", models.OptPercent(rec.SurprisePercent))
	}

	return models.NewRecord(fmt.Sprintf("%s Earnings", t)).
		Set("ticker", t).
		Set("next_earnings_date", models.OptTimestamp(e.NextEarningsDate)).
		Set("future_only", futureOnly).
		Set("count", len(rows)).
		Set("earnings_history", rows), nil
}
