// Package render turns shaped records into the text payload returned by a tool
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// Format is a response encoding
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a response_format argument
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", common.InvalidArgument("Use response_format \"markdown\" or \"json\".",
		"unknown response_format %q", s)
}

// Render encodes v in the requested format. Markdown needs a models.Record;
// anything else is shown as a fenced JSON block.
func Render(v interface{}, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(v)
	case FormatMarkdown:
		switch r := v.(type) {
		case models.Record:
			return Markdown(r), nil
		case *models.Record:
			return Markdown(*r), nil
		}
		body, err := renderJSON(v)
		if err != nil {
			return "", err
		}
		return "```json\n" + body + "\n```", nil
	}
	return "", common.InvalidArgument("Use response_format \"markdown\" or \"json\".",
		"unknown response_format %q", string(format))
}

func renderJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode response: %w", err)
	}
	return string(b), nil
}

// Error renders a failure for the caller: what failed and the next step
func Error(err error, format Format) string {
	kind := common.KindOf(err)
	hint := common.HintOf(err)

	if format == FormatJSON {
		r := models.NewRecord("").
			Set("error", err.Error()).
			Set("kind", string(kind))
		if hint != "" {
			r.Set("hint", hint)
		}
		out, jerr := renderJSON(r)
		if jerr == nil {
			return out
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Error** (%s): %s", kind, err.Error())
	if hint != "" {
		fmt.Fprintf(&sb, "\n\nNext step: %s", hint)
	}
	return sb.String()
}
