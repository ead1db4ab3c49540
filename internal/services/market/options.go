package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/interfaces"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
	"github.com/bobmcallan/yfinance-mcp/internal/shaping"
)

// GetOptionsChain resolves the requested expirations and returns the filtered
// chain for each. Every argument is validated before the provider is called.
func (s *Service) GetOptionsChain(ctx context.Context, req interfaces.OptionsRequest) (*models.Record, error) {
	t, err := NormalizeTicker(req.Ticker)
	if err != nil {
		return nil, err
	}

	exact := strings.TrimSpace(req.ExpirationDate)
	q := req.Expirations
	if exact != "" && (q.DTE != nil || strings.TrimSpace(q.TargetDate) != "") {
		return nil, common.InvalidArgument(
			"Pass expiration_date for an exact date, or dte/target_date to search; not both.",
			"expiration_date cannot be combined with dte or target_date")
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var exactDate time.Time
	if exact != "" {
		if exactDate, err = shaping.ParseDate(exact); err != nil {
			return nil, common.InvalidArgument("Use YYYY-MM-DD, for example 2024-12-20.",
				"expiration_date %q is not a recognised date", exact)
		}
	}
	optionType := "both"
	if strings.TrimSpace(req.OptionType) != "" {
		if optionType, err = oneOf("option_type", req.OptionType, ValidOptionType); err != nil {
			return nil, err
		}
	}
	if err := req.Filter.Validate(); err != nil {
		return nil, err
	}

	exps, err := s.provider.GetOptionExpirations(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(exps.Dates) == 0 {
		return nil, common.NotFound("Options may not be listed for this symbol.", "no options data available for %s", t)
	}

	today := s.today()
	var selected []time.Time
	if exact != "" {
		if !shaping.ContainsDate(exps.Dates, exactDate) {
			return nil, common.NotFound(
				"Choose one of the available expirations: "+joinDates(exps.Dates)+".",
				"expiration date %s not available for %s", exactDate.Format("2006-01-02"), t)
		}
		selected = []time.Time{exactDate}
	} else if selected, err = shaping.ResolveExpirations(exps.Dates, q, today); err != nil {
		return nil, err
	}

	noSelector := exact == "" && q.DTE == nil && strings.TrimSpace(q.TargetDate) == ""

	if req.DatesOnly {
		return s.expirationDates(t, exps, selected, today), nil
	}

	var chains []models.Record
	underlying := exps.UnderlyingPrice
	for _, d := range selected {
		chain, err := s.provider.GetOptionChain(ctx, t, d)
		if err != nil {
			return nil, err
		}
		if chain.UnderlyingPrice > 0 {
			underlying = chain.UnderlyingPrice
		}
		chains = append(chains, *s.shapeChain(chain, underlying, optionType, req.Filter, today))
	}
	filters := filtersApplied(optionType, req.Filter, underlying)

	if exact != "" || q.MaxDates <= 1 {
		out := models.NewRecord(fmt.Sprintf("%s Options Chain", t)).
			Set("ticker", t).
			Set("filters_applied", *filters)
		for _, f := range chains[0].Fields {
			out.Set(f.Key, f.Value)
		}
		if noSelector {
			out.Set("available_expirations", toDates(exps.Dates))
		}
		return out, nil
	}

	out := models.NewRecord(fmt.Sprintf("%s Options Chain", t)).
		Set("ticker", t).
		Set("underlying_price", money(underlying)).
		Set("filters_applied", *filters).
		Set("expiration_count", len(chains)).
		Set("expirations", chains)
	if noSelector {
		out.Set("available_expirations", toDates(exps.Dates))
	}
	return out, nil
}

// shapeChain filters one expiration's calls and puts
func (s *Service) shapeChain(chain *models.OptionChain, underlying float64, optionType string, f shaping.OptionFilter, today time.Time) *models.Record {
	r := models.NewRecord(common.FormatDate(chain.Expiration)).
		Set("expiration_date", models.OptDate(chain.Expiration)).
		Set("days_to_expiration", shaping.DaysBetween(today, chain.Expiration)).
		Set("underlying_price", money(underlying))

	total := 0
	if optionType == "calls" || optionType == "both" {
		calls := shaping.FilterContracts(chain.Calls, underlying, f)
		r.Set("calls_count", len(calls)).Set("calls", contractRows(calls))
		total += len(calls)
	}
	if optionType == "puts" || optionType == "both" {
		puts := shaping.FilterContracts(chain.Puts, underlying, f)
		r.Set("puts_count", len(puts)).Set("puts", contractRows(puts))
		total += len(puts)
	}
	r.Set("total_options", total)

	s.logger.Debug().Str("ticker", chain.Ticker).
		Str("expiration", chain.Expiration.Format("2006-01-02")).
		Int("contracts", total).
		Msg("Filtered option chain")
	return r
}

// expirationDates answers dates_only requests without fetching contracts
func (s *Service) expirationDates(t string, exps *models.OptionExpirations, selected []time.Time, today time.Time) *models.Record {
	rows := make([]models.Record, len(selected))
	for i, d := range selected {
		rows[i] = *models.NewRecord("").
			Set("expiration_date", models.OptDate(d)).
			Set("days_to_expiration", shaping.DaysBetween(today, d))
	}
	return models.NewRecord(fmt.Sprintf("%s Option Expirations", t)).
		Set("ticker", t).
		Set("underlying_price", money(exps.UnderlyingPrice)).
		Set("selected_count", len(rows)).
		Set("selected_expirations", rows).
		Set("available_count", len(exps.Dates)).
		Set("available_expirations", toDates(exps.Dates))
}

func filtersApplied(optionType string, f shaping.OptionFilter, underlying float64) *models.Record {
	r := models.NewRecord("").Set("option_type", optionType)

	if f.InTheMoney != nil {
		r.Set("in_the_money", *f.InTheMoney)
	} else {
		r.Set("in_the_money", nil)
	}
	r.Set("min_volume", models.OptCount(f.MinVolume))
	r.Set("min_open_interest", models.OptCount(f.MinOpenInterest))

	var strikeRange interface{}
	if f.HasStrikeRange() {
		lo, hi := "any", "any"
		if f.StrikeMin != nil {
			lo = common.FormatMoney(*f.StrikeMin)
		}
		if f.StrikeMax != nil {
			hi = common.FormatMoney(*f.StrikeMax)
		}
		strikeRange = lo + " to " + hi
	}
	r.Set("strike_range", strikeRange)

	switch {
	case f.WindowApplies(underlying):
		r.Set("strikes_near_price", *f.StrikesNearPrice)
	case f.Windowed():
		r.Set("strikes_near_price", nil)
		r.Set("note", "Underlying price unavailable, so strikes_near_price was not applied.")
	default:
		r.Set("strikes_near_price", nil)
	}
	return r
}

func contractRows(cs []models.OptionContract) []models.Record {
	rows := make([]models.Record, len(cs))
	for i, c := range cs {
		rows[i] = *models.NewRecord("").
			Set("contract_symbol", c.ContractSymbol).
			Set("strike", models.Money(c.Strike)).
			Set("last_price", models.Money(c.LastPrice)).
			Set("bid", models.Money(c.Bid)).
			Set("ask", models.Money(c.Ask)).
			Set("change", models.OptChange(c.Change)).
			Set("percent_change", models.OptPercent(c.PercentChange)).
			Set("volume", models.Count(c.Volume)).
			Set("open_interest", models.Count(c.OpenInterest)).
			Set("implied_volatility", models.OptFraction(c.ImpliedVolatility)).
			Set("in_the_money", c.InTheMoney).
			Set("last_trade_date", models.OptTimestamp(c.LastTradeTime)).
			Set("contract_size", c.ContractSize).
			Set("currency", c.Currency)
	}
	return rows
}

func money(v float64) interface{} {
	if v <= 0 {
		return nil
	}
	return models.Money(v)
}

func toDates(ts []time.Time) []models.Date {
	out := make([]models.Date, len(ts))
	for i, t := range ts {
		out[i] = models.Date(t)
	}
	return out
}

func joinDates(ts []time.Time) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.Format("2006-01-02")
	}
	return strings.Join(parts, ", ")
}
