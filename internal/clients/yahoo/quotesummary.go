package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// quoteSummary fetches the named modules for a ticker
func (c *Client) quoteSummary(ctx context.Context, ticker, subject string, modules ...string) (gjson.Result, error) {
	params := url.Values{}
	params.Set("modules", strings.Join(modules, ","))
	params.Set("formatted", "false")

	root, err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(ticker), params, true, subject)
	if err != nil {
		return gjson.Result{}, err
	}
	return envelope(root, "quoteSummary", subject)
}

// GetStockInfo retrieves the company overview
func (c *Client) GetStockInfo(ctx context.Context, ticker string) (*models.StockInfo, error) {
	res, err := c.quoteSummary(ctx, ticker, "stock info for "+ticker,
		"price", "summaryDetail", "assetProfile", "financialData", "defaultKeyStatistics")
	if err != nil {
		return nil, err
	}

	return &models.StockInfo{
		Symbol:        firstString(res, "price.symbol"),
		Name:          firstString(res, "price.longName", "price.shortName"),
		CurrentPrice:  firstFloat(res, "financialData.currentPrice", "price.regularMarketPrice"),
		Currency:      firstString(res, "price.currency", "summaryDetail.currency"),
		MarketCap:     firstInt(res, "price.marketCap", "summaryDetail.marketCap"),
		TrailingPE:    firstFloat(res, "summaryDetail.trailingPE"),
		ForwardPE:     firstFloat(res, "summaryDetail.forwardPE", "defaultKeyStatistics.forwardPE"),
		DividendYield: firstFloat(res, "summaryDetail.dividendYield"),
		Beta:          firstFloat(res, "summaryDetail.beta", "defaultKeyStatistics.beta"),
		High52Week:    firstFloat(res, "summaryDetail.fiftyTwoWeekHigh"),
		Low52Week:     firstFloat(res, "summaryDetail.fiftyTwoWeekLow"),
		AverageVolume: firstInt(res, "summaryDetail.averageVolume", "price.averageDailyVolume3Month"),
		Exchange:      firstString(res, "price.exchangeName", "price.exchange"),
		QuoteType:     firstString(res, "price.quoteType"),
		Sector:        firstString(res, "assetProfile.sector"),
		Industry:      firstString(res, "assetProfile.industry"),
		Website:       firstString(res, "assetProfile.website"),
		Employees:     firstInt(res, "assetProfile.fullTimeEmployees"),
		Description:   firstString(res, "assetProfile.longBusinessSummary"),
	}, nil
}

// statementModules maps a statement type to its quoteSummary module and array key
var statementModules = map[models.StatementType]struct {
	annual, quarterly, key string
}{
	models.StatementIncome:   {"incomeStatementHistory", "incomeStatementHistoryQuarterly", "incomeStatementHistory"},
	models.StatementBalance:  {"balanceSheetHistory", "balanceSheetHistoryQuarterly", "balanceSheetStatements"},
	models.StatementCashflow: {"cashflowStatementHistory", "cashflowStatementHistoryQuarterly", "cashflowStatements"},
}

// GetFinancials retrieves a financial statement, most recent period first.
// Line items keep the order Yahoo sends them in.
func (c *Client) GetFinancials(ctx context.Context, ticker string, statement models.StatementType, quarterly bool) (*models.FinancialStatement, error) {
	mod, ok := statementModules[statement]
	if !ok {
		return nil, common.InvalidArgument("Use statement_type income, balance or cashflow.",
			"unknown statement_type %q", string(statement))
	}
	module := mod.annual
	if quarterly {
		module = mod.quarterly
	}

	subject := fmt.Sprintf("%s for %s", strings.ToLower(statement.Title()), ticker)
	res, err := c.quoteSummary(ctx, ticker, subject, module)
	if err != nil {
		return nil, err
	}

	var periods []models.FinancialRecord
	res.Get(module + "." + mod.key).ForEach(func(_, stmt gjson.Result) bool {
		rec := models.FinancialRecord{PeriodEnd: epochDate(stmt.Get("endDate"))}
		stmt.ForEach(func(k, v gjson.Result) bool {
			key := k.String()
			if key == "maxAge" || key == "endDate" {
				return true
			}
			var value interface{}
			if f := optFloat(v); f != nil {
				value = *f
			}
			rec.Items.Set(lineItemName(key), value)
			return true
		})
		periods = append(periods, rec)
		return true
	})

	if len(periods) == 0 {
		return nil, common.NotFound("Try the other period (annual or quarterly) or another statement type.",
			"no %s data found for %s", strings.ToLower(statement.Title()), ticker)
	}

	sort.SliceStable(periods, func(i, j int) bool { return periods[i].PeriodEnd.After(periods[j].PeriodEnd) })

	return &models.FinancialStatement{
		Ticker:    ticker,
		Type:      statement,
		Quarterly: quarterly,
		Periods:   periods,
	}, nil
}

// GetRecommendations retrieves analyst upgrades and downgrades, most recent first
func (c *Client) GetRecommendations(ctx context.Context, ticker string) ([]models.RecommendationRecord, error) {
	subject := "recommendations for " + ticker
	res, err := c.quoteSummary(ctx, ticker, subject, "upgradeDowngradeHistory")
	if err != nil {
		return nil, err
	}

	var recs []models.RecommendationRecord
	for _, h := range res.Get("upgradeDowngradeHistory.history").Array() {
		recs = append(recs, models.RecommendationRecord{
			Date:      epoch(h.Get("epochGradeDate")),
			Firm:      h.Get("firm").String(),
			ToGrade:   h.Get("toGrade").String(),
			FromGrade: h.Get("fromGrade").String(),
			Action:    h.Get("action").String(),
		})
	}
	if len(recs) == 0 {
		return nil, common.NotFound("Analyst coverage may not exist for this symbol.",
			"no recommendations found for %s", ticker)
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Date.After(recs[j].Date) })
	return recs, nil
}

// GetEarnings combines reported quarters with scheduled report dates.
// Records are most recent first; scheduled dates carry only an estimate.
func (c *Client) GetEarnings(ctx context.Context, ticker string) (*models.Earnings, error) {
	subject := "earnings for " + ticker
	res, err := c.quoteSummary(ctx, ticker, subject, "earningsHistory", "calendarEvents")
	if err != nil {
		return nil, err
	}

	out := &models.Earnings{Ticker: ticker}
	estimate := optFloat(res.Get("calendarEvents.earnings.earningsAverage"))
	for _, d := range res.Get("calendarEvents.earnings.earningsDate").Array() {
		t := epoch(d)
		if t.IsZero() {
			continue
		}
		if out.NextEarningsDate.IsZero() || t.Before(out.NextEarningsDate) {
			out.NextEarningsDate = t
		}
		out.Records = append(out.Records, models.EarningsRecord{Date: t, EPSEstimate: estimate})
	}

	for _, h := range res.Get("earningsHistory.history").Array() {
		rec := models.EarningsRecord{
			Date:        epochDate(h.Get("quarter")),
			EPSEstimate: optFloat(h.Get("epsEstimate")),
			EPSReported: optFloat(h.Get("epsActual")),
		}
		// Yahoo reports the surprise as a fraction
		if s := optFloat(h.Get("surprisePercent")); s != nil {
			pct := *s * 100
			rec.SurprisePercent = &pct
		}
		if rec.Date.IsZero() {
			continue
		}
		out.Records = append(out.Records, rec)
	}

	if len(out.Records) == 0 {
		return nil, common.NotFound("Earnings data is only available for listed equities.",
			"no earnings dates found for %s", ticker)
	}

	sort.SliceStable(out.Records, func(i, j int) bool { return out.Records[i].Date.After(out.Records[j].Date) })
	return out, nil
}
