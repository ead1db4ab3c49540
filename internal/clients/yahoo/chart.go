package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// GetHistory retrieves OHLCV bars from the chart endpoint. Bars with a
// missing price are dropped, as are repeated timestamps.
func (c *Client) GetHistory(ctx context.Context, ticker, period, interval string) ([]models.HistoricalBar, error) {
	params := url.Values{}
	params.Set("range", period)
	params.Set("interval", interval)
	params.Set("includePrePost", "false")
	params.Set("events", "div,splits")

	subject := fmt.Sprintf("history for %s", ticker)
	root, err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), params, false, subject)
	if err != nil {
		return nil, err
	}
	res, err := envelope(root, "chart", subject)
	if err != nil {
		return nil, err
	}

	timestamps := res.Get("timestamp").Array()
	quote := res.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	bars := make([]models.HistoricalBar, 0, len(timestamps))
	for i, ts := range timestamps {
		o, h, l, cl := at(opens, i), at(highs, i), at(lows, i), at(closes, i)
		if o == nil || h == nil || l == nil || cl == nil {
			continue
		}
		t := epoch(ts)
		if t.IsZero() {
			continue
		}
		if n := len(bars); n > 0 && !bars[n-1].Timestamp.Before(t) {
			continue
		}
		bars = append(bars, models.HistoricalBar{
			Timestamp: t,
			Open:      *o,
			High:      *h,
			Low:       *l,
			Close:     *cl,
			Volume:    intOr(atResult(volumes, i), 0),
		})
	}

	if len(bars) == 0 {
		return nil, common.NotFound("Try a longer period or a daily interval.",
			"no price history for %s with period=%s, interval=%s", ticker, period, interval)
	}

	c.logger.Debug().Str("ticker", ticker).Int("bars", len(bars)).Msg("Fetched price history")
	return bars, nil
}

func at(arr []gjson.Result, i int) *float64 {
	if i >= len(arr) {
		return nil
	}
	return optFloat(arr[i])
}

func atResult(arr []gjson.Result, i int) gjson.Result {
	if i >= len(arr) {
		return gjson.Result{}
	}
	return arr[i]
}
