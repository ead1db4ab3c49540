package market

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// GetQuotes fetches quotes concurrently. Output order matches input order and a
// failed ticker is reported in its own row without failing the call.
func (s *Service) GetQuotes(ctx context.Context, tickers []string) (*models.Record, error) {
	symbols := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			symbols = append(symbols, t)
		}
	}
	if len(symbols) == 0 {
		return nil, common.InvalidArgument("Pass at least one ticker, for example [\"AAPL\", \"MSFT\"].", "tickers is required")
	}

	var warning string
	if len(symbols) > s.opts.MaxQuoteTickers {
		warning = fmt.Sprintf("Only the first %d of %d tickers were fetched.", s.opts.MaxQuoteTickers, len(symbols))
		symbols = symbols[:s.opts.MaxQuoteTickers]
	}

	rows := make([]models.Record, len(symbols))
	failed := make([]bool, len(symbols))

	var g errgroup.Group
	g.SetLimit(s.opts.QuoteConcurrency)
	for i, sym := range symbols {
		g.Go(func() error {
			q, err := s.provider.GetQuote(ctx, sym)
			if err != nil {
				s.logger.Warn().Err(err).Str("ticker", sym).Msg("Quote fetch failed")
				failed[i] = true
				rows[i] = *models.NewRecord("").
					Set("symbol", sym).
					Set("status", string(common.KindOf(err))).
					Set("error", err.Error())
				return nil
			}
			rows[i] = *models.NewRecord("").
				Set("symbol", sym).
				Set("status", "ok").
				Set("name", models.OptString(q.Name)).
				Set("price", models.OptMoney(q.Price)).
				Set("currency", models.OptString(q.Currency)).
				Set("change", models.OptChange(q.Change)).
				Set("change_percent", models.OptPercent(q.ChangePercent)).
				Set("volume", models.OptCount(q.Volume))
			return nil
		})
	}
	_ = g.Wait()

	var errs []string
	for i, f := range failed {
		if f {
			v, _ := rows[i].Get("error")
			errs = append(errs, fmt.Sprintf("%s: %v", symbols[i], v))
		}
	}

	r := models.NewRecord("Stock Quotes").
		Set("requested", len(symbols)).
		Set("succeeded", len(symbols)-len(errs)).
		Set("failed", len(errs))
	if warning != "" {
		r.Set("warning", warning)
	}
	r.Set("quotes", rows)
	if len(errs) > 0 {
		r.Set("errors", errs)
	}
	return r, nil
}
