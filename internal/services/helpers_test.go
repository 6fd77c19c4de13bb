package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"formcount/internal/core"
	"formcount/internal/storage"
)

func newRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "services.db"), 4)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func addUser(t *testing.T, repo *storage.SQLiteRepository, name string, constituency int64) core.Identity {
	t.Helper()
	id, err := repo.UpsertUser(context.Background(), core.User{
		Identity:     core.Identity{Username: name, Role: core.RoleUser, Constituency: constituency},
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return core.Identity{ID: id, Username: name, Role: core.RoleUser, Constituency: constituency}
}

func addEntry(t *testing.T, repo *storage.SQLiteRepository, user core.Identity, month string, day int, f6, f8 int64) {
	t.Helper()
	_, err := repo.InsertEntry(context.Background(), user.ID, user.Constituency, core.ValidEntry{
		Month:      month,
		Day:        day,
		Form6Count: f6,
		Form8Count: f8,
		PeriodFrom: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
}

type invalidations struct {
	calls []string
}

func (i *invalidations) InvalidateMonth(kind core.ReportKind, month string) {
	i.calls = append(i.calls, string(kind)+" "+month)
}
