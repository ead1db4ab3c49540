package market

import (
	"context"
	"fmt"

	"github.com/bobmcallan/yfinance-mcp/internal/interfaces"
	"github.com/bobmcallan/yfinance-mcp/internal/models"
	"github.com/bobmcallan/yfinance-mcp/internal/shaping"
)

// ParseStatementType validates a statement_type argument
func ParseStatementType(s string) (models.StatementType, error) {
	v, err := oneOf("statement_type", s, ValidStatements)
	if err != nil {
		return "", err
	}
	return models.StatementType(v), nil
}

// GetFinancials returns the most recent periods of a statement keyed by period
// end date, with line items optionally projected to fields.
func (s *Service) GetFinancials(ctx context.Context, req interfaces.FinancialsRequest) (*models.Record, error) {
	t, err := NormalizeTicker(req.Ticker)
	if err != nil {
		return nil, err
	}
	if _, err := ParseStatementType(string(req.Statement)); err != nil {
		return nil, err
	}
	if err := positive("limit", req.Limit); err != nil {
		return nil, err
	}

	st, err := s.provider.GetFinancials(ctx, t, req.Statement, req.Quarterly)
	if err != nil {
		return nil, err
	}

	periodType := "annual"
	if req.Quarterly {
		periodType = "quarterly"
	}
	periods := shaping.LimitRecords(st.Periods, req.Limit, true)

	data := models.NewRecord("")
	for _, p := range periods {
		items := shaping.ProjectFields(p.Items, req.Fields)
		values := models.NewRecord("")
		for _, f := range items.Fields {
			if v, ok := f.Value.(float64); ok {
				values.Set(f.Key, models.Money(v))
				continue
			}
			values.Set(f.Key, f.Value)
		}
		data.Set(p.PeriodEnd.Format("2006-01-02"), *values)
	}

	r := models.NewRecord(fmt.Sprintf("%s %s (%s)", t, req.Statement.Title(), periodType)).
		Set("ticker", t).
		Set("statement_type", req.Statement.Title()).
		Set("period", periodType).
		Set("periods", len(periods)).
		Set("data", *data)
	return r, nil
}
