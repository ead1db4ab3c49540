// Package shaping narrows, projects and summarises provider results before rendering
package shaping

import (
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
)

// ExpirationQuery describes which expirations a caller wants.
// DTE and TargetDate are mutually exclusive; with neither set the nearest
// upcoming expirations are chosen.
type ExpirationQuery struct {
	DTE        *int
	TargetDate string
	MaxDates   int
}

// dateLayouts are tried in order when parsing a target date
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	time.RFC3339,
}

// ParseDate parses a calendar date in any of the accepted layouts and returns
// it at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return time.Time{}, common.InvalidArgument(
		"Use YYYY-MM-DD, for example 2024-12-20.",
		"target_date %q is not a recognised date", s)
}

// DateOf truncates t to midnight UTC of its calendar date
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate checks the query without needing the chain, so callers can reject
// bad input before fetching anything.
func (q ExpirationQuery) Validate() error {
	if q.DTE != nil && strings.TrimSpace(q.TargetDate) != "" {
		return common.InvalidArgument(
			"Pass either dte or target_date, not both.",
			"dte and target_date are mutually exclusive")
	}
	if q.DTE != nil && *q.DTE < 0 {
		return common.InvalidArgument("dte counts calendar days from today and must be 0 or more.",
			"dte must not be negative, got %d", *q.DTE)
	}
	if q.MaxDates < 1 {
		return common.InvalidArgument("max_dates must be at least 1.",
			"max_dates must be at least 1, got %d", q.MaxDates)
	}
	if strings.TrimSpace(q.TargetDate) != "" {
		if _, err := ParseDate(q.TargetDate); err != nil {
			return err
		}
	}
	return nil
}

// ResolveExpirations picks up to q.MaxDates expirations closest to the
// caller's target and returns them in chronological order. Distance is
// measured in whole days; ties go to the earlier date.
func ResolveExpirations(all []time.Time, q ExpirationQuery, today time.Time) ([]time.Time, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return []time.Time{}, nil
	}

	today = DateOf(today)
	target := today
	candidates := make([]time.Time, 0, len(all))

	switch {
	case q.DTE != nil:
		target = today.AddDate(0, 0, *q.DTE)
		for _, d := range all {
			candidates = append(candidates, DateOf(d))
		}
	case strings.TrimSpace(q.TargetDate) != "":
		target, _ = ParseDate(q.TargetDate)
		for _, d := range all {
			candidates = append(candidates, DateOf(d))
		}
	default:
		for _, d := range all {
			if d := DateOf(d); !d.Before(today) {
				candidates = append(candidates, d)
			}
		}
		// everything has expired; fall back to the whole chain
		if len(candidates) == 0 {
			for _, d := range all {
				candidates = append(candidates, DateOf(d))
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := dayDistance(candidates[i], target), dayDistance(candidates[j], target)
		if di != dj {
			return di < dj
		}
		return candidates[i].Before(candidates[j])
	})

	n := q.MaxDates
	if n > len(candidates) {
		n = len(candidates)
	}
	out := append([]time.Time(nil), candidates[:n]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

// DaysBetween returns the whole calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

func dayDistance(d, target time.Time) int {
	n := DaysBetween(target, d)
	if n < 0 {
		return -n
	}
	return n
}

// ContainsDate reports whether dates holds the calendar date of d
func ContainsDate(dates []time.Time, d time.Time) bool {
	d = DateOf(d)
	for _, x := range dates {
		if DateOf(x).Equal(d) {
			return true
		}
	}
	return false
}
