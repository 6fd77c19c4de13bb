package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"formcount/internal/cache"
	"formcount/internal/core"
	"formcount/internal/metrics"
	"formcount/internal/sheets"
)

// ExportResult describes a pushed report.
type ExportResult struct {
	ReportType core.ReportKind `json:"reportType"`
	Year       string          `json:"year"`
	Rows       int             `json:"rows"`
	Ref        string          `json:"ref"`
}

// ReportService projects yearly reports, caching each (kind, year).
type ReportService struct {
	store    ReportStore
	cache    cache.Cache[[]core.ReportRow]
	group    singleflight.Group
	gen      atomic.Uint64
	exporter sheets.ReportExporter
	metrics  *metrics.Metrics
}

// NewReportService wires the projector. c, exporter and m may be nil.
func NewReportService(store ReportStore, c cache.Cache[[]core.ReportRow], exporter sheets.ReportExporter, m *metrics.Metrics) *ReportService {
	return &ReportService{store: store, cache: c, exporter: exporter, metrics: m}
}

func reportKey(kind core.ReportKind, year string) string {
	return string(kind) + ":" + year
}

// Project validates the report type and year and returns the year's rows
// ordered by stored month, constituency and day.
func (s *ReportService) Project(ctx context.Context, reportType, year string) ([]core.ReportRow, error) {
	if reportType == "" || year == "" {
		return nil, core.ErrReportParams
	}
	kind, err := core.ParseReportKind(reportType)
	if err != nil {
		return nil, err
	}
	y, err := core.ParseYear(year)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, kind, y)
}

func (s *ReportService) project(ctx context.Context, kind core.ReportKind, year string) ([]core.ReportRow, error) {
	key := reportKey(kind, year)
	if s.cache != nil {
		if rows, ok := s.cache.Get(key); ok {
			s.metrics.ReportCache(true)
			return rows, nil
		}
		s.metrics.ReportCache(false)
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		gen := s.gen.Load()
		rows, err := s.store.ReportRows(ctx, kind, year)
		if err != nil {
			return nil, err
		}
		// A write during the query invalidated the key; do not cache stale rows.
		if s.cache != nil && s.gen.Load() == gen {
			s.cache.Set(key, rows)
		}
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("project %s report %s: %w", kind, year, err)
	}
	if shared {
		slog.DebugContext(ctx, "Report load shared", "report_type", kind, "year", year)
	}
	return v.([]core.ReportRow), nil
}

// InvalidateMonth drops the cached report of the year month belongs to. A
// month without a year prefix drops every cached report of kind.
func (s *ReportService) InvalidateMonth(kind core.ReportKind, month string) {
	s.gen.Add(1)
	if s.cache == nil {
		return
	}
	if len(month) >= 5 && month[4] == '-' {
		if year, err := core.ParseYear(month[:4]); err == nil {
			s.cache.Delete(reportKey(kind, year))
			return
		}
	}
	s.cache.DeletePrefix(string(kind) + ":")
}

// Export projects the report and pushes it to the configured exporter.
func (s *ReportService) Export(ctx context.Context, reportType, year string) (ExportResult, error) {
	rows, err := s.Project(ctx, reportType, year)
	if err != nil {
		return ExportResult{}, err
	}
	if s.exporter == nil {
		return ExportResult{}, fmt.Errorf("export report: no exporter configured")
	}
	kind, _ := core.ParseReportKind(reportType)
	y, _ := core.ParseYear(year)

	ref, err := s.exporter.ExportReport(ctx, kind, y, rows)
	if err != nil {
		return ExportResult{}, fmt.Errorf("export %s report %s: %w", kind, y, err)
	}
	return ExportResult{ReportType: kind, Year: y, Rows: len(rows), Ref: ref}, nil
}
