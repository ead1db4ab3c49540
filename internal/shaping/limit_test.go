package shaping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

func TestLimitRecords(t *testing.T) {
	chrono := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{4, 5}, LimitRecords(chrono, 2, false))
	assert.Equal(t, chrono, LimitRecords(chrono, 0, false))
	assert.Equal(t, chrono, LimitRecords(chrono, 10, false))

	recentFirst := []string{"q4", "q3", "q2", "q1"}
	assert.Equal(t, []string{"q4", "q3"}, LimitRecords(recentFirst, 2, true))
	assert.Equal(t, recentFirst, LimitRecords(recentFirst, -1, true))
}

func TestSummarizeBars_Example(t *testing.T) {
	start := day("2025-01-02")
	bars := []models.HistoricalBar{
		{Timestamp: start, High: 105, Low: 95, Close: 100, Volume: 10},
		{Timestamp: start.AddDate(0, 0, 1), High: 110, Low: 100, Close: 108, Volume: 20},
	}

	s, err := SummarizeBars(bars)
	require.NoError(t, err)
	assert.Equal(t, 110.0, s.High)
	assert.Equal(t, 95.0, s.Low)
	assert.Equal(t, 104.0, s.AverageClose)
	assert.Equal(t, int64(30), s.TotalVolume)
	assert.Equal(t, 2, s.BarCount)
	assert.Equal(t, start, s.PeriodStart)
	assert.Equal(t, start.AddDate(0, 0, 1), s.PeriodEnd)
}

func TestSummarizeBars_Empty(t *testing.T) {
	_, err := SummarizeBars(nil)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindNotFound))
}

func TestFutureOnly(t *testing.T) {
	today := time.Date(2025, 4, 15, 18, 0, 0, 0, time.UTC)
	records := []models.EarningsRecord{
		{Date: day("2025-07-30")},
		{Date: time.Date(2025, 4, 15, 20, 30, 0, 0, time.UTC)},
		{Date: day("2025-01-30")},
	}

	got := FutureOnly(records, today)
	require.Len(t, got, 2)
	assert.Equal(t, day("2025-07-30"), got[0].Date)
	assert.Equal(t, 15, got[1].Date.Day(), "same calendar day counts as upcoming")
}
