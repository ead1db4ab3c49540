package common

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders a currency amount with 2 decimals and thousands separators.
// Rounding is half away from zero on the decimal value, so 1.005 renders as 1.01.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	rounded := decimal.NewFromFloat(v).Round(2).InexactFloat64()
	return printer.Sprint(number.Decimal(rounded, number.Scale(2)))
}

// FormatSignedMoney is FormatMoney with an explicit + for positive values
func FormatSignedMoney(v float64) string {
	if v > 0 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatPercent renders a value already expressed in percent units
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatFraction renders a 0..1 ratio as a percentage
func FormatFraction(v float64) string {
	return FormatPercent(v * 100)
}

// FormatCount renders an integer with thousands separators
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatNumber renders a plain float: 2 decimals with grouping, 4 for small magnitudes
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	if v != 0 && math.Abs(v) < 1 {
		return fmt.Sprintf("%.4f", v)
	}
	return FormatMoney(v)
}

// FormatDate renders a calendar date for humans
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 2, 2006")
}

// FormatTimestamp renders a point in time for humans. Values that fall on
// UTC midnight are treated as dates.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
		return FormatDate(u)
	}
	return t.Format("Jan 2, 2006 15:04 MST")
}
