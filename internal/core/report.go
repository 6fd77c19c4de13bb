package core

import (
	"fmt"
	"strings"
)

// ReportKind selects the table a report is projected from.
type ReportKind string

const (
	ReportReceive      ReportKind = "Receive"
	ReportDistribution ReportKind = "Distribution"
)

// ParseReportKind matches a report type case-insensitively.
func ParseReportKind(s string) (ReportKind, error) {
	switch {
	case strings.EqualFold(s, string(ReportReceive)):
		return ReportReceive, nil
	case strings.EqualFold(s, string(ReportDistribution)):
		return ReportDistribution, nil
	}
	return "", ErrInvalidReport
}

// Flow maps the report kind onto the reconciliation flow writing its table.
func (k ReportKind) Flow() Flow {
	if k == ReportDistribution {
		return FlowDistribution
	}
	return FlowReceive
}

// ParseYear accepts exactly four ASCII digits.
func ParseYear(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return "", ErrInvalidYear
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", ErrInvalidYear
		}
	}
	return s, nil
}

// ReportRow is one projected row of a yearly report.
type ReportRow struct {
	ID             int64  `json:"id"`
	ConstituencyNo int64  `json:"constituency_no"`
	MonthRaw       string `json:"month_raw"`
	Month          int    `json:"month"`
	MonthLabel     string `json:"month_label"`
	Day            int    `json:"day"`
	Form6Count     int64  `json:"form6_count"`
	Form8Count     int64  `json:"form8_count"`
	Total          *int64 `json:"total"`
}

// MonthLabel derives the month index and "Month Year" label of a stored
// month. Values that are not "YYYY-MM" with a valid month yield index 0 and
// the raw value as label.
func MonthLabel(raw string) (int, string) {
	t := ParseMonth(raw)
	if t.Kind != MonthISO {
		return 0, raw
	}
	name, ok := MonthName(t.Month)
	if !ok {
		return 0, raw
	}
	return t.Month, fmt.Sprintf("%s %04d", name, t.Year)
}

// ReportYear returns the year prefix of a stored ISO month, if any.
func ReportYear(month string) (string, bool) {
	t := ParseMonth(month)
	if t.Kind != MonthISO {
		return "", false
	}
	return month[:4], true
}
