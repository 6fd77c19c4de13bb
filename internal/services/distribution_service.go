package services

import (
	"context"
	"log/slog"

	"formcount/internal/core"
)

// DistributionService records distribution rows entered directly by admins.
type DistributionService struct {
	store   DistributionStore
	reports ReportInvalidator
}

func NewDistributionService(store DistributionStore, reports ReportInvalidator) *DistributionService {
	return &DistributionService{store: store, reports: reports}
}

// Record stores one distribution row. A row for the same
// (constituency, month, day) yields core.ErrDuplicateSubmission.
func (s *DistributionService) Record(ctx context.Context, in core.DistributionInput) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.InsertDistribution(ctx, in)
	if err != nil {
		return 0, err
	}
	if s.reports != nil {
		s.reports.InvalidateMonth(core.ReportDistribution, in.Month)
	}
	slog.InfoContext(ctx, "Distribution entry saved",
		"id", id, "constituency", in.Constituency, "month", in.Month, "day", in.Day)
	return id, nil
}
