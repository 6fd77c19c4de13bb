package storage

import (
	"context"
	"fmt"

	"formcount/internal/core"
)

const periodLayout = "2006-01-02"

// EntryExists reports whether the user already submitted for (month, day).
func (r *SQLiteRepository) EntryExists(ctx context.Context, userID int64, month string, day int) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM entries WHERE user_id = ? AND month = ? AND day = ?`,
		userID, month, day).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check entry exists: %w", err)
	}
	return n > 0, nil
}

// InsertEntry stores a validated submission. A row for the same
// (user, month, day) yields core.ErrDuplicateSubmission.
func (r *SQLiteRepository) InsertEntry(ctx context.Context, userID, constituency int64, e core.ValidEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (user_id, constituency, month, day, form6_count, form8_count, period_start, period_end, remarks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, month, day) DO NOTHING`,
		userID, constituency, e.Month, e.Day, e.Form6Count, e.Form8Count,
		e.PeriodFrom.Format(periodLayout), e.PeriodTo.Format(periodLayout), e.Remarks)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert entry rows affected: %w", err)
	}
	if n == 0 {
		return 0, core.ErrDuplicateSubmission
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert entry id: %w", err)
	}
	return id, nil
}

// ListEntriesByUser returns the user's entries, newest first.
func (r *SQLiteRepository) ListEntriesByUser(ctx context.Context, userID int64) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, constituency, month, day, form6_count, form8_count,
		        period_start, period_end, remarks, created_at
		   FROM entries WHERE user_id = ?
		  ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []core.Entry{}
	for rows.Next() {
		var (
			e         core.Entry
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Constituency, &e.Month, &e.Day,
			&e.Form6Count, &e.Form8Count, &e.PeriodStart, &e.PeriodEnd, &e.Remarks, &createdAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// ListSubmittedByUser returns the (month, day) slots the user already used.
func (r *SQLiteRepository) ListSubmittedByUser(ctx context.Context, userID int64) ([]core.SubmittedEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, month, day, created_at FROM entries WHERE user_id = ?
		  ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list submitted entries: %w", err)
	}
	defer rows.Close()

	out := []core.SubmittedEntry{}
	for rows.Next() {
		var (
			s         core.SubmittedEntry
			createdAt string
		)
		if err := rows.Scan(&s.ID, &s.Month, &s.Day, &createdAt); err != nil {
			return nil, fmt.Errorf("scan submitted entry: %w", err)
		}
		s.CreatedAt = parseTimestamp(createdAt)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submitted entries: %w", err)
	}
	return out, nil
}
