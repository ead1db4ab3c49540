// Package market shapes Yahoo Finance data into tool results
package market

import (
	"strings"
	"time"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/interfaces"
	"github.com/bobmcallan/yfinance-mcp/internal/shaping"
)

// Accepted enum values, shared with the tool definitions
var (
	ValidPeriods    = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}
	ValidIntervals  = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}
	ValidOptionType = []string{"calls", "puts", "both"}
	ValidStatements = []string{"income", "balance", "cashflow"}
	ValidPeriodType = []string{"annual", "quarterly"}
)

const (
	MaxNewsItems      = 50
	descriptionLength = 500
)

// Options tunes the service. Zero values fall back to defaults.
type Options struct {
	MaxQuoteTickers  int
	QuoteConcurrency int
}

// Service implements MarketService
type Service struct {
	provider interfaces.MarketDataProvider
	logger   *common.Logger
	opts     Options
	now      func() time.Time // injectable clock for testing
}

var _ interfaces.MarketService = (*Service)(nil)

// NewService creates a new market service
func NewService(provider interfaces.MarketDataProvider, logger *common.Logger, opts Options) *Service {
	if opts.MaxQuoteTickers <= 0 {
		opts.MaxQuoteTickers = 20
	}
	if opts.QuoteConcurrency <= 0 {
		opts.QuoteConcurrency = 4
	}
	return &Service{
		provider: provider,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}

// today returns the current calendar date in UTC
func (s *Service) today() time.Time {
	return shaping.DateOf(s.now().UTC())
}

// NormalizeTicker trims and upper-cases a symbol
func NormalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", common.InvalidArgument("Pass a ticker symbol such as AAPL.", "ticker is required")
	}
	return t, nil
}

// oneOf validates an enum argument and returns its canonical lower-case form
func oneOf(name, value string, allowed []string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", common.InvalidArgument("Use one of: "+strings.Join(allowed, ", ")+".",
		"invalid %s %q", name, value)
}

func positive(name string, v int) error {
	if v < 1 {
		return common.InvalidArgument(name+" must be at least 1.", "%s must be at least 1, got %d", name, v)
	}
	return nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
