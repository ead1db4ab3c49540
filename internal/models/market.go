// Package models defines data structures for yfinance-mcp
package models

import (
	"time"
)

// OptionContract is a single call or put in one expiration's chain
type OptionContract struct {
	ContractSymbol    string    `json:"contract_symbol"`
	Strike            float64   `json:"strike"`
	LastPrice         float64   `json:"last_price"`
	Bid               float64   `json:"bid"`
	Ask               float64   `json:"ask"`
	Change            *float64  `json:"change"`
	PercentChange     *float64  `json:"percent_change"`
	Volume            int64     `json:"volume"`
	OpenInterest      int64     `json:"open_interest"`
	ImpliedVolatility *float64  `json:"implied_volatility"` // fraction, 0.25 = 25%
	InTheMoney        bool      `json:"in_the_money"`
	LastTradeTime     time.Time `json:"last_trade_time"`
	ContractSize      string    `json:"contract_size"`
	Currency          string    `json:"currency"`
}

// OptionExpirations lists a chain's expiration dates (UTC midnight, chronological)
type OptionExpirations struct {
	Ticker          string      `json:"ticker"`
	Dates           []time.Time `json:"dates"`
	UnderlyingPrice float64     `json:"underlying_price"`
}

// OptionChain holds the contracts for one expiration
type OptionChain struct {
	Ticker          string           `json:"ticker"`
	Expiration      time.Time        `json:"expiration"`
	UnderlyingPrice float64          `json:"underlying_price"`
	Calls           []OptionContract `json:"calls"`
	Puts            []OptionContract `json:"puts"`
}

// HistoricalBar is one OHLCV bar. Bars are chronological with unique timestamps.
type HistoricalBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// HistorySummary condenses a bar series
type HistorySummary struct {
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	High         float64   `json:"high"`
	Low          float64   `json:"low"`
	AverageClose float64   `json:"average_close"`
	TotalVolume  int64     `json:"total_volume"`
	BarCount     int       `json:"bar_count"`
}

// StatementType selects a financial statement
type StatementType string

const (
	StatementIncome   StatementType = "income"
	StatementBalance  StatementType = "balance"
	StatementCashflow StatementType = "cashflow"
)

// Title returns the human name of the statement
func (s StatementType) Title() string {
	switch s {
	case StatementIncome:
		return "Income Statement"
	case StatementBalance:
		return "Balance Sheet"
	case StatementCashflow:
		return "Cash Flow"
	}
	return string(s)
}

// FinancialRecord is one reporting period. Items keeps the provider's line item order.
type FinancialRecord struct {
	PeriodEnd time.Time `json:"period_end"`
	Items     Record    `json:"items"`
}

// FinancialStatement is a most-recent-first sequence of periods
type FinancialStatement struct {
	Ticker    string            `json:"ticker"`
	Type      StatementType     `json:"type"`
	Quarterly bool              `json:"quarterly"`
	Periods   []FinancialRecord `json:"periods"`
}

// EarningsRecord is one earnings event. Unreported events have nil actuals.
type EarningsRecord struct {
	Date            time.Time `json:"date"`
	EPSEstimate     *float64  `json:"eps_estimate"`
	EPSReported     *float64  `json:"eps_reported"`
	SurprisePercent *float64  `json:"surprise_percent"`
}

// Earnings bundles the history with the next scheduled report
type Earnings struct {
	Ticker           string           `json:"ticker"`
	NextEarningsDate time.Time        `json:"next_earnings_date"`
	Records          []EarningsRecord `json:"records"` // most recent first
}

// RecommendationRecord is an analyst rating change
type RecommendationRecord struct {
	Date      time.Time `json:"date"`
	Firm      string    `json:"firm"`
	ToGrade   string    `json:"to_grade"`
	FromGrade string    `json:"from_grade"`
	Action    string    `json:"action"`
}

// NewsItem is a headline associated with a ticker
type NewsItem struct {
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
	Type        string    `json:"type"`
}

// Quote is a price snapshot
type Quote struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Price         *float64 `json:"price"`
	Currency      string   `json:"currency"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"change_percent"`
	Volume        *int64   `json:"volume"`
}

// SearchResult is a symbol lookup hit
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

// StockInfo is the company overview. Nil fields were absent upstream.
type StockInfo struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	CurrentPrice  *float64 `json:"current_price"`
	Currency      string   `json:"currency"`
	MarketCap     *int64   `json:"market_cap"`
	TrailingPE    *float64 `json:"pe_ratio"`
	ForwardPE     *float64 `json:"forward_pe"`
	DividendYield *float64 `json:"dividend_yield"` // fraction
	Beta          *float64 `json:"beta"`
	High52Week    *float64 `json:"52_week_high"`
	Low52Week     *float64 `json:"52_week_low"`
	AverageVolume *int64   `json:"avg_volume"`
	Exchange      string   `json:"exchange"`
	QuoteType     string   `json:"quote_type"`
	Sector        string   `json:"sector"`
	Industry      string   `json:"industry"`
	Website       string   `json:"website"`
	Employees     *int64   `json:"full_time_employees"`
	Description   string   `json:"description"`
}
