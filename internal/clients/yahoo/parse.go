package yahoo

import (
	"strings"
	"time"
	"unicode"

	"github.com/tidwall/gjson"
)

// Yahoo wraps many numbers as {"raw": 1.5, "fmt": "1.50"}; an empty object
// means the value is unknown.

func unwrap(r gjson.Result) gjson.Result {
	if r.IsObject() {
		return r.Get("raw")
	}
	return r
}

func optFloat(r gjson.Result) *float64 {
	r = unwrap(r)
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}

func optInt(r gjson.Result) *int64 {
	r = unwrap(r)
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Int()
	return &v
}

// firstFloat returns the first path of res holding a number
func firstFloat(res gjson.Result, paths ...string) *float64 {
	for _, p := range paths {
		if v := optFloat(res.Get(p)); v != nil {
			return v
		}
	}
	return nil
}

func firstInt(res gjson.Result, paths ...string) *int64 {
	for _, p := range paths {
		if v := optInt(res.Get(p)); v != nil {
			return v
		}
	}
	return nil
}

func firstString(res gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := strings.TrimSpace(res.Get(p).String()); s != "" {
			return s
		}
	}
	return ""
}

func floatOr(r gjson.Result, def float64) float64 {
	if v := optFloat(r); v != nil {
		return *v
	}
	return def
}

func intOr(r gjson.Result, def int64) int64 {
	if v := optInt(r); v != nil {
		return *v
	}
	return def
}

// epoch converts a unix-seconds value to UTC, zero when absent
func epoch(r gjson.Result) time.Time {
	r = unwrap(r)
	if r.Type != gjson.Number || r.Int() == 0 {
		return time.Time{}
	}
	return time.Unix(r.Int(), 0).UTC()
}

// epochDate is epoch truncated to the calendar date
func epochDate(r gjson.Result) time.Time {
	t := epoch(r)
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var lineItemAcronyms = map[string]string{
	"Ebit":   "EBIT",
	"Ebitda": "EBITDA",
}

// lineItemName turns "totalRevenue" into "Total Revenue"
func lineItemName(key string) string {
	var words []string
	var cur []rune
	runes := []rune(key)
	for i, r := range runes {
		boundary := i > 0 && unicode.IsUpper(r) &&
			(unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1])))
		if boundary && len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		words = append(words, string(cur))
	}

	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		w = string(rs)
		if a, ok := lineItemAcronyms[w]; ok {
			w = a
		}
		words[i] = w
	}
	return strings.Join(words, " ")
}
