package services

import (
	"context"

	"formcount/internal/core"
)

// Storage ports used by the services; *storage.SQLiteRepository implements
// all of them.
type (
	EntryStore interface {
		EntryExists(ctx context.Context, userID int64, month string, day int) (bool, error)
		InsertEntry(ctx context.Context, userID, constituency int64, e core.ValidEntry) (int64, error)
		ListEntriesByUser(ctx context.Context, userID int64) ([]core.Entry, error)
		ListSubmittedByUser(ctx context.Context, userID int64) ([]core.SubmittedEntry, error)
	}

	LedgerStore interface {
		SourceRows(ctx context.Context, flow core.Flow, day int, months []string) ([]core.LedgerRow, error)
		PendingRows(ctx context.Context, flow core.Flow, day int, months []string) ([]core.LedgerRow, error)
		PendingAll(ctx context.Context, flow core.Flow) ([]core.LedgerRow, error)
		// InsertIfAbsent may report inserted alongside an error when the row
		// was written but its id could not be read back.
		InsertIfAbsent(ctx context.Context, flow core.Flow, row core.LedgerRow) (int64, bool, error)
	}

	DistributionStore interface {
		InsertDistribution(ctx context.Context, in core.DistributionInput) (int64, error)
	}

	ReportStore interface {
		ReportRows(ctx context.Context, kind core.ReportKind, year string) ([]core.ReportRow, error)
	}

	UserStore interface {
		GetUserByUsername(ctx context.Context, username string) (core.User, error)
		UpsertUser(ctx context.Context, u core.User) (int64, error)
	}

	// ReportInvalidator drops cached reports affected by a write to month.
	ReportInvalidator interface {
		InvalidateMonth(kind core.ReportKind, month string)
	}
)
