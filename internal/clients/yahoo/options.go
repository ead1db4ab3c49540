package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// GetOptionExpirations lists a ticker's option expirations
func (c *Client) GetOptionExpirations(ctx context.Context, ticker string) (*models.OptionExpirations, error) {
	res, err := c.optionChain(ctx, ticker, time.Time{})
	if err != nil {
		return nil, err
	}

	raw := res.Get("expirationDates").Array()
	dates := make([]time.Time, 0, len(raw))
	for _, r := range raw {
		if d := epochDate(r); !d.IsZero() {
			dates = append(dates, d)
		}
	}

	return &models.OptionExpirations{
		Ticker:          ticker,
		Dates:           dates,
		UnderlyingPrice: floatOr(res.Get("quote.regularMarketPrice"), 0),
	}, nil
}

// GetOptionChain retrieves the calls and puts for one expiration
func (c *Client) GetOptionChain(ctx context.Context, ticker string, expiration time.Time) (*models.OptionChain, error) {
	res, err := c.optionChain(ctx, ticker, expiration)
	if err != nil {
		return nil, err
	}

	opts := res.Get("options.0")
	if !opts.Exists() {
		return nil, common.NotFound("List the available dates with dates_only=true.",
			"no contracts for %s expiring %s", ticker, expiration.Format("2006-01-02"))
	}

	exp := epochDate(opts.Get("expirationDate"))
	if exp.IsZero() {
		exp = expiration
	}

	return &models.OptionChain{
		Ticker:          ticker,
		Expiration:      exp,
		UnderlyingPrice: floatOr(res.Get("quote.regularMarketPrice"), 0),
		Calls:           parseContracts(opts.Get("calls")),
		Puts:            parseContracts(opts.Get("puts")),
	}, nil
}

func (c *Client) optionChain(ctx context.Context, ticker string, expiration time.Time) (gjson.Result, error) {
	params := url.Values{}
	if !expiration.IsZero() {
		params.Set("date", strconv.FormatInt(expiration.Unix(), 10))
	}

	subject := fmt.Sprintf("options for %s", ticker)
	root, err := c.get(ctx, "/v7/finance/options/"+url.PathEscape(ticker), params, true, subject)
	if err != nil {
		return gjson.Result{}, err
	}
	return envelope(root, "optionChain", subject)
}

func parseContracts(arr gjson.Result) []models.OptionContract {
	items := arr.Array()
	out := make([]models.OptionContract, 0, len(items))
	for _, o := range items {
		out = append(out, models.OptionContract{
			ContractSymbol:    o.Get("contractSymbol").String(),
			Strike:            floatOr(o.Get("strike"), 0),
			LastPrice:         floatOr(o.Get("lastPrice"), 0),
			Bid:               floatOr(o.Get("bid"), 0),
			Ask:               floatOr(o.Get("ask"), 0),
			Change:            optFloat(o.Get("change")),
			PercentChange:     optFloat(o.Get("percentChange")),
			Volume:            intOr(o.Get("volume"), 0),
			OpenInterest:      intOr(o.Get("openInterest"), 0),
			ImpliedVolatility: optFloat(o.Get("impliedVolatility")),
			InTheMoney:        o.Get("inTheMoney").Bool(),
			LastTradeTime:     epoch(o.Get("lastTradeDate")),
			ContractSize:      defaultString(o.Get("contractSize").String(), "REGULAR"),
			Currency:          defaultString(o.Get("currency").String(), "USD"),
		})
	}
	return out
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
