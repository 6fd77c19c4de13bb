package storage

import (
	"context"
	"database/sql"
	"fmt"

	"formcount/internal/core"
)

// ReportRows projects the kind's table for one year. year must already be
// validated as four digits.
func (r *SQLiteRepository) ReportRows(ctx context.Context, kind core.ReportKind, year string) ([]core.ReportRow, error) {
	table := kind.Flow().TargetTable()
	query := fmt.Sprintf(
		`SELECT id, constituency, month, day, form6_count, form8_count, total
		   FROM %s
		  WHERE month LIKE ?
		  ORDER BY month, constituency, day`, table)
	rows, err := r.db.QueryContext(ctx, query, year+"-%")
	if err != nil {
		return nil, fmt.Errorf("select %s report: %w", table, err)
	}
	defer rows.Close()

	out := []core.ReportRow{}
	for rows.Next() {
		var (
			row   core.ReportRow
			total sql.NullInt64
		)
		if err := rows.Scan(&row.ID, &row.ConstituencyNo, &row.MonthRaw, &row.Day,
			&row.Form6Count, &row.Form8Count, &total); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		if total.Valid {
			v := total.Int64
			row.Total = &v
		}
		row.Month, row.MonthLabel = core.MonthLabel(row.MonthRaw)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}
	return out, nil
}
