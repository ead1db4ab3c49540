package yahoo

import (
	"context"
	"net/url"
	"strconv"

	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// Search looks up symbols matching a company name or ticker
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", strconv.Itoa(limit))
	params.Set("newsCount", "0")
	params.Set("enableFuzzyQuery", "false")

	root, err := c.get(ctx, "/v1/finance/search", params, false, "search for "+strconv.Quote(query))
	if err != nil {
		return nil, err
	}

	var out []models.SearchResult
	for _, q := range root.Get("quotes").Array() {
		sym := q.Get("symbol").String()
		if sym == "" {
			continue
		}
		out = append(out, models.SearchResult{
			Symbol:   sym,
			Name:     firstString(q, "longname", "shortname"),
			Exchange: firstString(q, "exchDisp", "exchange"),
			Type:     firstString(q, "quoteType", "typeDisp"),
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// GetNews retrieves recent headlines for a ticker
func (c *Client) GetNews(ctx context.Context, ticker string, count int) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("q", ticker)
	params.Set("quotesCount", "0")
	params.Set("newsCount", strconv.Itoa(count))

	root, err := c.get(ctx, "/v1/finance/search", params, false, "news for "+ticker)
	if err != nil {
		return nil, err
	}

	var out []models.NewsItem
	for _, n := range root.Get("news").Array() {
		out = append(out, models.NewsItem{
			Title:       n.Get("title").String(),
			Publisher:   n.Get("publisher").String(),
			Link:        n.Get("link").String(),
			PublishedAt: epoch(n.Get("providerPublishTime")),
			Type:        n.Get("type").String(),
		})
	}
	return out, nil
}
