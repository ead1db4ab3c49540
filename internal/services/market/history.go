package market

import (
	"context"
	"fmt"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/interfaces"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
	"github.com/bobmcallan/yfinance-mcp/internal/shaping"
)

// GetStockHistory returns price bars, or range statistics when SummaryOnly is set.
// The summary always covers the whole period; Limit only trims listed bars.
func (s *Service) GetStockHistory(ctx context.Context, req interfaces.HistoryRequest) (*models.Record, error) {
	t, err := NormalizeTicker(req.Ticker)
	if err != nil {
		return nil, err
	}
	period, err := oneOf("period", req.Period, ValidPeriods)
	if err != nil {
		return nil, err
	}
	interval, err := oneOf("interval", req.Interval, ValidIntervals)
	if err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, common.InvalidArgument("Omit limit to return every bar.", "limit must not be negative, got %d", req.Limit)
	}

	bars, err := s.provider.GetHistory(ctx, t, period, interval)
	if err != nil {
		return nil, err
	}

	r := models.NewRecord(fmt.Sprintf("%s Price History", t)).
		Set("ticker", t).
		Set("period", period).
		Set("interval", interval).
		Set("count", len(bars))

	if req.SummaryOnly {
		sum, err := shaping.SummarizeBars(bars)
		if err != nil {
			return nil, err
		}
		r.Set("summary", *models.NewRecord("").
			Set("period_start", models.OptTimestamp(sum.PeriodStart)).
			Set("period_end", models.OptTimestamp(sum.PeriodEnd)).
			Set("high", models.Money(sum.High)).
			Set("low", models.Money(sum.Low)).
			Set("average_close", models.Money(sum.AverageClose)).
			Set("total_volume", models.Count(sum.TotalVolume)).
			Set("bar_count", sum.BarCount))
		return r, nil
	}

	limited := shaping.LimitRecords(bars, req.Limit, false)
	if len(limited) < len(bars) {
		r.Set("returned", len(limited))
	}

	rows := make([]models.Record, len(limited))
	for i, b := range limited {
		rows[i] = *models.NewRecord("").
			Set("date", models.OptTimestamp(b.Timestamp)).
			Set("open", models.Money(b.Open)).
			Set("high", models.Money(b.High)).
			Set("low", models.Money(b.Low)).
			Set("close", models.Money(b.Close)).
			Set("volume", models.Count(b.Volume))
	}
	r.Set("data", rows)
	return r, nil
}
