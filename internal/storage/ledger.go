package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"formcount/internal/core"
)

// sourceTotal is the total column expression of a flow's source table.
func sourceTotal(flow core.Flow) string {
	if flow.SourceTable() == "entries" {
		return "NULL"
	}
	return "s.total"
}

func scanLedgerRows(rows *sql.Rows) ([]core.LedgerRow, error) {
	defer rows.Close()
	out := []core.LedgerRow{}
	for rows.Next() {
		var (
			lr    core.LedgerRow
			total sql.NullInt64
		)
		if err := rows.Scan(&lr.ID, &lr.Constituency, &lr.Month, &lr.Day,
			&lr.Form6Count, &lr.Form8Count, &total); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		if total.Valid {
			v := total.Int64
			lr.Total = &v
		}
		out = append(out, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return out, nil
}

func monthArgs(day int, months []string) []any {
	args := make([]any, 0, len(months)+1)
	args = append(args, day)
	for _, m := range months {
		args = append(args, m)
	}
	return args
}

// SourceRows returns the flow's source rows at day whose stored month is one
// of months, ordered by constituency.
func (r *SQLiteRepository) SourceRows(ctx context.Context, flow core.Flow, day int, months []string) ([]core.LedgerRow, error) {
	if len(months) == 0 {
		return []core.LedgerRow{}, nil
	}
	query := fmt.Sprintf(
		`SELECT s.id, s.constituency, s.month, s.day, s.form6_count, s.form8_count, %s
		   FROM %s s
		  WHERE s.day = ? AND s.month IN (%s)
		  ORDER BY s.constituency ASC, s.id ASC`,
		sourceTotal(flow), flow.SourceTable(), placeholders(len(months)))
	rows, err := r.db.QueryContext(ctx, query, monthArgs(day, months)...)
	if err != nil {
		return nil, fmt.Errorf("select %s rows: %w", flow.SourceTable(), err)
	}
	return scanLedgerRows(rows)
}

// PendingRows is SourceRows minus rows whose exact (constituency, month, day)
// already exists in the flow's target table.
func (r *SQLiteRepository) PendingRows(ctx context.Context, flow core.Flow, day int, months []string) ([]core.LedgerRow, error) {
	if len(months) == 0 {
		return []core.LedgerRow{}, nil
	}
	query := fmt.Sprintf(
		`SELECT s.id, s.constituency, s.month, s.day, s.form6_count, s.form8_count, %s
		   FROM %s s
		   LEFT JOIN %s t
		     ON t.constituency = s.constituency AND t.month = s.month AND t.day = s.day
		  WHERE s.day = ? AND s.month IN (%s) AND t.id IS NULL
		  ORDER BY s.constituency ASC, s.id ASC`,
		sourceTotal(flow), flow.SourceTable(), flow.TargetTable(), placeholders(len(months)))
	rows, err := r.db.QueryContext(ctx, query, monthArgs(day, months)...)
	if err != nil {
		return nil, fmt.Errorf("select pending %s rows: %w", flow.SourceTable(), err)
	}
	return scanLedgerRows(rows)
}

// PendingAll lists every source row without a target row, newest month first.
func (r *SQLiteRepository) PendingAll(ctx context.Context, flow core.Flow) ([]core.LedgerRow, error) {
	query := fmt.Sprintf(
		`SELECT s.id, s.constituency, s.month, s.day, s.form6_count, s.form8_count, %s
		   FROM %s s
		   LEFT JOIN %s t
		     ON t.constituency = s.constituency AND t.month = s.month AND t.day = s.day
		  WHERE t.id IS NULL
		  ORDER BY s.month DESC, s.constituency ASC, s.day ASC`,
		sourceTotal(flow), flow.SourceTable(), flow.TargetTable())
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select pending %s rows: %w", flow.SourceTable(), err)
	}
	return scanLedgerRows(rows)
}

// InsertIfAbsent copies row into the flow's target table unless a row with the
// same (constituency, month, day) exists. It reports the new id and whether a
// row was written; the id comes from the insert statement itself.
func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, flow core.Flow, row core.LedgerRow) (int64, bool, error) {
	var total any
	if flow == core.FlowDistribution {
		total = row.Form6Count + row.Form8Count
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (constituency, month, day, form6_count, form8_count, total)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (constituency, month, day) DO NOTHING
		 RETURNING id`, flow.TargetTable())
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		row.Constituency, row.Month, row.Day, row.Form6Count, row.Form8Count, total).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("insert %s row: %w", flow.TargetTable(), err)
	}
	return id, true, nil
}

// InsertDistribution records one distribution row directly. A row for the
// same (constituency, month, day) yields core.ErrDuplicateSubmission.
func (r *SQLiteRepository) InsertDistribution(ctx context.Context, in core.DistributionInput) (int64, error) {
	total := in.Form6Count + in.Form8Count
	if in.Total != nil {
		total = *in.Total
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO distribution_entries (constituency, month, day, form6_count, form8_count, total)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (constituency, month, day) DO NOTHING`,
		in.Constituency, in.Month, in.Day, in.Form6Count, in.Form8Count, total)
	if err != nil {
		return 0, fmt.Errorf("insert distribution entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert distribution rows affected: %w", err)
	}
	if n == 0 {
		return 0, core.ErrDuplicateSubmission
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert distribution id: %w", err)
	}
	return id, nil
}
