package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"formcount/internal/amqp"
	"formcount/internal/core"
	"formcount/internal/services"
)

// ReconcileWorker runs reconciliation passes requested over AMQP.
type ReconcileWorker struct {
	reconcilers map[core.Flow]*services.Reconciler
}

func NewReconcileWorker(reconcilers ...*services.Reconciler) *ReconcileWorker {
	w := &ReconcileWorker{reconcilers: make(map[core.Flow]*services.Reconciler, len(reconcilers))}
	for _, r := range reconcilers {
		w.reconcilers[r.Flow()] = r
	}
	return w
}

// HandleReconcileRequest processes a single reconcile request from AMQP.
// Requests that can never succeed (bad input, nothing to reconcile) are
// logged and reported as handled so the message is acknowledged.
func (w *ReconcileWorker) HandleReconcileRequest(ctx context.Context, msg *amqp.ReconcileRequest) error {
	slog.InfoContext(ctx, "Processing reconcile request",
		"job_id", msg.JobID,
		"flow", msg.Flow,
		"month", msg.Month,
		"day", msg.Day,
		"requested_by", msg.RequestedBy)

	r, ok := w.reconcilers[msg.Flow]
	if !ok {
		slog.WarnContext(ctx, "No reconciler for flow, dropping request", "job_id", msg.JobID, "flow", msg.Flow)
		return nil
	}

	res, err := r.Reconcile(ctx, msg.Day, msg.Month)
	switch {
	case errors.Is(err, core.ErrValidation):
		slog.WarnContext(ctx, "Invalid reconcile request", "job_id", msg.JobID, "error", err)
		return nil
	case errors.Is(err, core.ErrNotFound):
		slog.InfoContext(ctx, "Nothing to reconcile", "job_id", msg.JobID, "month", msg.Month, "day", msg.Day)
		return nil
	case err != nil:
		return fmt.Errorf("reconcile %s %s/%d: %w", msg.Flow, msg.Month, msg.Day, err)
	}

	slog.InfoContext(ctx, "Reconcile request completed",
		"job_id", msg.JobID,
		"flow", msg.Flow,
		"inserted", res.InsertedCount,
		"skipped", res.SkippedCount)
	return nil
}

// StartupPendingCheck logs how many rows are still waiting per flow. It is
// the worker's recovery hint after downtime; it does not reconcile anything.
func (w *ReconcileWorker) StartupPendingCheck(ctx context.Context) error {
	for flow, r := range w.reconcilers {
		rows, err := r.PendingAll(ctx)
		if err != nil {
			return fmt.Errorf("list pending %s rows: %w", flow, err)
		}
		if len(rows) == 0 {
			slog.InfoContext(ctx, "No pending rows found on startup", "flow", flow)
			continue
		}
		slog.InfoContext(ctx, "Found pending rows on startup", "flow", flow, "count", len(rows))
	}
	return nil
}
