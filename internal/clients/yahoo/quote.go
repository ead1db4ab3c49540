package yahoo

import (
	"context"
	"net/url"

	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// GetQuote retrieves a price snapshot for one symbol
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("symbols", ticker)

	subject := "quote for " + ticker
	root, err := c.get(ctx, "/v7/finance/quote", params, true, subject)
	if err != nil {
		return nil, err
	}
	res, err := envelope(root, "quoteResponse", subject)
	if err != nil {
		return nil, err
	}

	return &models.Quote{
		Symbol:        defaultString(res.Get("symbol").String(), ticker),
		Name:          firstString(res, "longName", "shortName"),
		Price:         optFloat(res.Get("regularMarketPrice")),
		Currency:      res.Get("currency").String(),
		Change:        optFloat(res.Get("regularMarketChange")),
		ChangePercent: optFloat(res.Get("regularMarketChangePercent")),
		Volume:        optInt(res.Get("regularMarketVolume")),
	}, nil
}
