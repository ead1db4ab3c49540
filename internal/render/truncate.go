package render

import (
	"fmt"
	"unicode/utf8"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
)

// TruncationWarning is appended to output cut at limit characters
func TruncationWarning(limit int) string {
	return fmt.Sprintf("\n\n[Response truncated at %d characters. Narrow the request with filters, a smaller limit or a shorter period.]", limit)
}

// Truncate caps text at limit characters (runes). Oversized text keeps its
// head and ends with a warning; the result is exactly limit runes long so a
// second pass leaves it unchanged. limit <= 0 uses the default.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		limit = common.DefaultCharacterLimit
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	warning := []rune(TruncationWarning(limit))
	if len(warning) >= limit {
		return string(warning[:limit])
	}
	runes := []rune(text)
	return string(runes[:limit-len(warning)]) + string(warning)
}
