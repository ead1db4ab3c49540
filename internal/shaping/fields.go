package shaping

import (
	"strings"

	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// MatchFields returns the keys that contain any requested string,
// case-insensitively. Keys appear once each, in source order. Blank requests
// are ignored.
func MatchFields(keys, requested []string) []string {
	needles := normaliseRequested(requested)
	matched := make([]string, 0, len(keys))
	if len(needles) == 0 {
		return matched
	}
	for _, k := range keys {
		lk := strings.ToLower(k)
		for _, n := range needles {
			if strings.Contains(lk, n) {
				matched = append(matched, k)
				break
			}
		}
	}
	return matched
}

// ProjectFields keeps the fields of r matched by requested. With nothing
// requested r is returned unchanged; unmatched requests are dropped silently.
func ProjectFields(r models.Record, requested []string) models.Record {
	if len(normaliseRequested(requested)) == 0 {
		return r
	}
	return r.Select(MatchFields(r.Keys(), requested))
}

func normaliseRequested(requested []string) []string {
	out := make([]string, 0, len(requested))
	for _, r := range requested {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			out = append(out, r)
		}
	}
	return out
}
