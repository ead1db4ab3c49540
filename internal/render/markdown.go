package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
)

// acronyms keep their case when keys are title-cased
var acronyms = map[string]string{
	"pe":     "PE",
	"eps":    "EPS",
	"dte":    "DTE",
	"id":     "ID",
	"etf":    "ETF",
	"ytd":    "YTD",
	"url":    "URL",
	"ebit":   "EBIT",
	"ebitda": "EBITDA",
}

// Markdown renders a record as a Markdown document
func Markdown(r models.Record) string {
	var sb strings.Builder
	if r.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", r.Title)
	}
	writeBody(&sb, r, 2)
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// writeBody emits scalar lines, then a section per nested value. level is the
// heading depth used for sections.
func writeBody(sb *strings.Builder, r models.Record, level int) {
	heading := strings.Repeat("#", level)

	for _, f := range r.Fields {
		switch v := f.Value.(type) {
		case models.Record:
			fmt.Fprintf(sb, "\n%s %s\n\n", heading, TitleKey(f.Key))
			writeBullets(sb, v, 0)
		case *models.Record:
			fmt.Fprintf(sb, "\n%s %s\n\n", heading, TitleKey(f.Key))
			writeBullets(sb, *v, 0)
		case []models.Record:
			fmt.Fprintf(sb, "\n%s %s\n\n", heading, TitleKey(f.Key))
			writeCollection(sb, v, level+1)
		default:
			fmt.Fprintf(sb, "**%s:** %s  \n", TitleKey(f.Key), FormatValue(f.Value))
		}
	}
}

func writeBullets(sb *strings.Builder, r models.Record, depth int) {
	indent := strings.Repeat("  ", depth)
	if r.Len() == 0 {
		fmt.Fprintf(sb, "%s- None\n", indent)
		return
	}
	for _, f := range r.Fields {
		switch v := f.Value.(type) {
		case models.Record:
			fmt.Fprintf(sb, "%s- **%s:**\n", indent, TitleKey(f.Key))
			writeBullets(sb, v, depth+1)
		case *models.Record:
			fmt.Fprintf(sb, "%s- **%s:**\n", indent, TitleKey(f.Key))
			writeBullets(sb, *v, depth+1)
		case []models.Record:
			fmt.Fprintf(sb, "%s- **%s:** %d entries\n", indent, TitleKey(f.Key), len(v))
		default:
			fmt.Fprintf(sb, "%s- **%s:** %s\n", indent, TitleKey(f.Key), FormatValue(f.Value))
		}
	}
}

// writeCollection renders flat records as a table and nested ones as subsections
func writeCollection(sb *strings.Builder, rows []models.Record, level int) {
	if len(rows) == 0 {
		sb.WriteString("None\n")
		return
	}
	if allFlat(rows) {
		writeTable(sb, rows)
		return
	}
	heading := strings.Repeat("#", level)
	for i, row := range rows {
		fmt.Fprintf(sb, "\n%s %s\n\n", heading, rowLabel(row, i))
		writeBody(sb, row, level+1)
	}
}

// cellReplacer keeps a value on one table row
var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func writeTable(sb *strings.Builder, rows []models.Record) {
	// union of keys in first-seen order
	var header []string
	seen := map[string]bool{}
	for _, row := range rows {
		for _, k := range row.Keys() {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}

	titles := make([]string, len(header))
	for i, k := range header {
		titles[i] = TitleKey(k)
	}

	table := tablewriter.NewWriter(sb)
	table.SetHeader(titles)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range rows {
		cells := make([]string, len(header))
		for i, k := range header {
			v, _ := row.Get(k)
			cells[i] = cellReplacer.Replace(FormatValue(v))
		}
		table.Append(cells)
	}
	table.Render()
}

func allFlat(rows []models.Record) bool {
	for _, row := range rows {
		for _, f := range row.Fields {
			switch f.Value.(type) {
			case models.Record, *models.Record, []models.Record:
				return false
			}
		}
	}
	return true
}

func rowLabel(r models.Record, i int) string {
	if r.Title != "" {
		return r.Title
	}
	if r.Len() > 0 {
		return FormatValue(r.Fields[0].Value)
	}
	return fmt.Sprintf("#%d", i+1)
}

// TitleKey turns snake_case keys into "Title Case"; keys with spaces keep their words
func TitleKey(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		if a, ok := acronyms[strings.ToLower(w)]; ok {
			words[i] = a
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// FormatValue renders one value for humans
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "N/A"
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case string:
		if x == "" {
			return "N/A"
		}
		return x
	case models.Money:
		return common.FormatMoney(float64(x))
	case models.Change:
		return common.FormatSignedMoney(float64(x))
	case models.Percent:
		return common.FormatPercent(float64(x))
	case models.Fraction:
		return common.FormatFraction(float64(x))
	case models.Count:
		return common.FormatCount(int64(x))
	case models.Date:
		return common.FormatDate(time.Time(x))
	case models.Timestamp:
		return common.FormatTimestamp(time.Time(x))
	case time.Time:
		return common.FormatTimestamp(x)
	case int:
		return common.FormatCount(int64(x))
	case int64:
		return common.FormatCount(x)
	case float64:
		return common.FormatNumber(x)
	case []string:
		return joinValues(len(x), func(i int) string { return x[i] })
	case []models.Date:
		return joinValues(len(x), func(i int) string { return common.FormatDate(time.Time(x[i])) })
	case []interface{}:
		return joinValues(len(x), func(i int) string { return FormatValue(x[i]) })
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func joinValues(n int, at func(int) string) string {
	if n == 0 {
		return "None"
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = at(i)
	}
	return strings.Join(parts, ", ")
}
