package services

import (
	"context"
	"fmt"
	"log/slog"

	"formcount/internal/core"
	"formcount/internal/metrics"
)

// Reconciler copies rows of one flow forward from its source table into its
// target table, skipping rows the target already holds.
type Reconciler struct {
	flow    core.Flow
	store   LedgerStore
	reports ReportInvalidator
	metrics *metrics.Metrics
}

// NewReconciler returns a reconciler for flow. reports and m may be nil.
func NewReconciler(flow core.Flow, store LedgerStore, reports ReportInvalidator, m *metrics.Metrics) *Reconciler {
	return &Reconciler{flow: flow, store: store, reports: reports, metrics: m}
}

// Flow returns the flow this reconciler serves.
func (r *Reconciler) Flow() core.Flow {
	return r.flow
}

// Pending lists source rows at day whose month matches any variant of month
// and that have no target row yet, by ascending constituency.
func (r *Reconciler) Pending(ctx context.Context, day int, month string) ([]core.LedgerRow, error) {
	if !core.ValidDay(day) {
		return nil, core.ErrInvalidDay
	}
	variants := core.MonthVariants(month)
	if len(variants) == 0 {
		return []core.LedgerRow{}, nil
	}
	rows, err := r.store.PendingRows(ctx, r.flow, day, variants)
	if err != nil {
		return nil, fmt.Errorf("list pending %s rows: %w", r.flow, err)
	}
	return rows, nil
}

// PendingAll lists every source row without a target row, newest month first.
func (r *Reconciler) PendingAll(ctx context.Context) ([]core.LedgerRow, error) {
	rows, err := r.store.PendingAll(ctx, r.flow)
	if err != nil {
		return nil, fmt.Errorf("list pending %s rows: %w", r.flow, err)
	}
	return rows, nil
}

// Reconcile copies every matching source row into the target table.
//
// Each row is an independent insert-if-absent keyed by the row's own stored
// (constituency, month, day). The pass is not atomic: a failing row aborts the
// remaining rows, keeps earlier inserts, and the returned result lists exactly
// what happened before the failure alongside the error.
func (r *Reconciler) Reconcile(ctx context.Context, day int, month string) (core.ReconcileResult, error) {
	if !core.ValidDay(day) {
		return core.ReconcileResult{}, core.ErrInvalidDay
	}
	variants := core.MonthVariants(month)
	if len(variants) == 0 {
		return core.ReconcileResult{}, core.ErrInvalidMonth
	}

	rows, err := r.store.SourceRows(ctx, r.flow, day, variants)
	if err != nil {
		return core.ReconcileResult{}, fmt.Errorf("fetch %s rows: %w", r.flow.SourceTable(), err)
	}
	if len(rows) == 0 {
		return core.ReconcileResult{}, core.ErrNotFound
	}

	result := core.ReconcileResult{
		Inserted: []core.ReconciledRow{},
		Skipped:  []core.ReconciledRow{},
	}
	defer r.finish(ctx, &result)

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			result.Message = fmt.Sprintf("%s sync aborted", r.flow)
			return result, fmt.Errorf("reconcile %s: %w", r.flow, err)
		}

		id, inserted, err := r.store.InsertIfAbsent(ctx, r.flow, row)
		if err != nil {
			if inserted {
				key := row.Key()
				key.ID = id
				result.Inserted = append(result.Inserted, key)
				result.InsertedCount++
			}
			result.Message = fmt.Sprintf("%s sync aborted", r.flow)
			r.metrics.ReconcileFailed(string(r.flow))
			return result, fmt.Errorf("reconcile %s row constituency=%d month=%s day=%d: %w",
				r.flow, row.Constituency, row.Month, row.Day, err)
		}

		key := row.Key()
		if inserted {
			key.ID = id
			result.Inserted = append(result.Inserted, key)
			result.InsertedCount++
		} else {
			result.Skipped = append(result.Skipped, key)
			result.SkippedCount++
		}
	}

	result.Message = r.flow.CompletionMessage()
	return result, nil
}

// finish records metrics and invalidates reports for every inserted month,
// including on an aborted pass.
func (r *Reconciler) finish(ctx context.Context, result *core.ReconcileResult) {
	r.metrics.ReconcileRows(string(r.flow), "inserted", result.InsertedCount)
	r.metrics.ReconcileRows(string(r.flow), "skipped", result.SkippedCount)

	if r.reports != nil {
		seen := map[string]bool{}
		for _, row := range result.Inserted {
			if seen[row.Month] {
				continue
			}
			seen[row.Month] = true
			r.reports.InvalidateMonth(r.flow.ReportKind(), row.Month)
		}
	}

	slog.InfoContext(ctx, "Reconciliation pass finished",
		"flow", r.flow,
		"inserted", result.InsertedCount,
		"skipped", result.SkippedCount)
}
