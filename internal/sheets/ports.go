package sheets

import (
	"context"

	"formcount/internal/core"
)

// Ports for outbound adapters.
type (
	// ReportExporter publishes a projected yearly report.
	ReportExporter interface {
		// ExportReport replaces the report for (kind, year) and returns a
		// reference to where it was written.
		ExportReport(ctx context.Context, kind core.ReportKind, year string, rows []core.ReportRow) (ref string, err error)
	}
)

// ReportHeader is the first row of every exported report.
var ReportHeader = []string{
	"Constituency", "Month", "Month Label", "Day", "Form 6", "Form 8", "Total",
}

// ReportValues renders rows as sheet cells, header first. A missing total is
// exported as the sum of both counts.
func ReportValues(rows []core.ReportRow) [][]any {
	out := make([][]any, 0, len(rows)+1)
	header := make([]any, len(ReportHeader))
	for i, h := range ReportHeader {
		header[i] = h
	}
	out = append(out, header)
	for _, r := range rows {
		total := r.Form6Count + r.Form8Count
		if r.Total != nil {
			total = *r.Total
		}
		out = append(out, []any{r.ConstituencyNo, r.MonthRaw, r.MonthLabel, r.Day, r.Form6Count, r.Form8Count, total})
	}
	return out
}
