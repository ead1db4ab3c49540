package shaping

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// LimitRecords keeps the limit most recent records. mostRecentFirst input keeps
// its head; chronological input keeps its tail. limit <= 0 keeps everything.
func LimitRecords[T any](records []T, limit int, mostRecentFirst bool) []T {
	if limit <= 0 || limit >= len(records) {
		return records
	}
	if mostRecentFirst {
		return records[:limit]
	}
	return records[len(records)-limit:]
}

// SummarizeBars computes range statistics over the whole series
func SummarizeBars(bars []models.HistoricalBar) (models.HistorySummary, error) {
	if len(bars) == 0 {
		return models.HistorySummary{}, common.NotFound(
			"Try a longer period or a daily interval.",
			"no price bars to summarise")
	}

	highs := make(stats.Float64Data, len(bars))
	lows := make(stats.Float64Data, len(bars))
	closes := make(stats.Float64Data, len(bars))
	volumes := make(stats.Float64Data, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
		volumes[i] = float64(b.Volume)
	}

	high, err := stats.Max(highs)
	if err != nil {
		return models.HistorySummary{}, err
	}
	low, err := stats.Min(lows)
	if err != nil {
		return models.HistorySummary{}, err
	}
	avg, err := stats.Mean(closes)
	if err != nil {
		return models.HistorySummary{}, err
	}
	total, err := stats.Sum(volumes)
	if err != nil {
		return models.HistorySummary{}, err
	}

	return models.HistorySummary{
		PeriodStart:  bars[0].Timestamp,
		PeriodEnd:    bars[len(bars)-1].Timestamp,
		High:         high,
		Low:          low,
		AverageClose: avg,
		TotalVolume:  int64(total),
		BarCount:     len(bars),
	}, nil
}

// FutureOnly keeps earnings dated today or later, compared by calendar day
func FutureOnly(records []models.EarningsRecord, today time.Time) []models.EarningsRecord {
	today = DateOf(today)
	out := make([]models.EarningsRecord, 0, len(records))
	for _, r := range records {
		if !DateOf(r.Date).Before(today) {
			out = append(out, r)
		}
	}
	return out
}
