package shaping

import (
	"sort"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// OptionFilter narrows one expiration's contracts. Nil fields are not applied.
type OptionFilter struct {
	InTheMoney       *bool
	MinVolume        *int64
	MinOpenInterest  *int64
	StrikeMin        *float64
	StrikeMax        *float64
	StrikesNearPrice *int
}

// Validate rejects bounds that can never match
func (f OptionFilter) Validate() error {
	if f.MinVolume != nil && *f.MinVolume < 0 {
		return common.InvalidArgument("min_volume must be 0 or more.", "min_volume must not be negative, got %d", *f.MinVolume)
	}
	if f.MinOpenInterest != nil && *f.MinOpenInterest < 0 {
		return common.InvalidArgument("min_open_interest must be 0 or more.", "min_open_interest must not be negative, got %d", *f.MinOpenInterest)
	}
	if f.StrikeMin != nil && f.StrikeMax != nil && *f.StrikeMin > *f.StrikeMax {
		return common.InvalidArgument("Swap the bounds so strike_min <= strike_max.",
			"strike_min %.2f is greater than strike_max %.2f", *f.StrikeMin, *f.StrikeMax)
	}
	if f.StrikesNearPrice != nil && *f.StrikesNearPrice < 0 {
		return common.InvalidArgument("Use 0 to return every strike.",
			"strikes_near_price must not be negative, got %d", *f.StrikesNearPrice)
	}
	return nil
}

// HasStrikeRange reports whether an explicit strike bound is set. A bound
// disables the near-price window.
func (f OptionFilter) HasStrikeRange() bool {
	return f.StrikeMin != nil || f.StrikeMax != nil
}

// Windowed reports whether the near-price window applies
func (f OptionFilter) Windowed() bool {
	return !f.HasStrikeRange() && f.StrikesNearPrice != nil && *f.StrikesNearPrice > 0
}

// WindowApplies reports whether the window is used for a chain priced at
// underlying. An unknown price gives no anchor for the window.
func (f OptionFilter) WindowApplies(underlying float64) bool {
	return f.Windowed() && underlying > 0
}

// FilterContracts applies moneyness, liquidity and strike range filters, then
// keeps the N strikes either side of the underlying price. The result is
// sorted by strike; contracts with equal strikes keep their input order.
func FilterContracts(contracts []models.OptionContract, underlying float64, f OptionFilter) []models.OptionContract {
	out := make([]models.OptionContract, 0, len(contracts))
	for _, c := range contracts {
		if f.InTheMoney != nil && c.InTheMoney != *f.InTheMoney {
			continue
		}
		if f.MinVolume != nil && c.Volume < *f.MinVolume {
			continue
		}
		if f.MinOpenInterest != nil && c.OpenInterest < *f.MinOpenInterest {
			continue
		}
		if f.StrikeMin != nil && c.Strike < *f.StrikeMin {
			continue
		}
		if f.StrikeMax != nil && c.Strike > *f.StrikeMax {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Strike < out[j].Strike })

	if !f.WindowApplies(underlying) {
		return out
	}
	return windowStrikes(out, underlying, *f.StrikesNearPrice)
}

// windowStrikes keeps the n contracts below price and the n at or above it.
// sorted must be strike-ascending.
func windowStrikes(sorted []models.OptionContract, price float64, n int) []models.OptionContract {
	split := sort.Search(len(sorted), func(i int) bool { return sorted[i].Strike >= price })

	lo := split - n
	if lo < 0 {
		lo = 0
	}
	hi := split + n
	if hi > len(sorted) {
		hi = len(sorted)
	}
	return append([]models.OptionContract(nil), sorted[lo:hi]...)
}
