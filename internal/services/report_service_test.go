package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formcount/internal/cache"
	"formcount/internal/core"
	"formcount/internal/sheets/memory"
	"formcount/internal/storage"
)

type countingReports struct {
	ReportStore
	calls atomic.Int32
	delay time.Duration
}

func (c *countingReports) ReportRows(ctx context.Context, kind core.ReportKind, year string) ([]core.ReportRow, error) {
	c.calls.Add(1)
	time.Sleep(c.delay)
	return c.ReportStore.ReportRows(ctx, kind, year)
}

func seedReceived(t *testing.T, repo *storage.SQLiteRepository, rows ...core.LedgerRow) {
	t.Helper()
	for _, row := range rows {
		_, _, err := repo.InsertIfAbsent(context.Background(), core.FlowReceive, row)
		require.NoError(t, err)
	}
}

func TestProjectValidation(t *testing.T) {
	svc := NewReportService(newRepo(t), nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Project(ctx, "", "2025")
	assert.ErrorIs(t, err, core.ErrReportParams)
	_, err = svc.Project(ctx, "Bogus", "2025")
	assert.ErrorIs(t, err, core.ErrInvalidReport)
	_, err = svc.Project(ctx, "Receive", "25")
	assert.ErrorIs(t, err, core.ErrInvalidYear)
	for _, err := range []error{core.ErrReportParams, core.ErrInvalidReport, core.ErrInvalidYear} {
		assert.ErrorIs(t, err, core.ErrValidation)
	}
}

func TestProjectCachesAndInvalidates(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	store := &countingReports{ReportStore: repo}
	svc := NewReportService(store, cache.NewLRUCache[[]core.ReportRow](8, time.Minute), nil, nil)
	recv := NewReconciler(core.FlowReceive, repo, svc, nil)

	seedReceived(t, repo,
		core.LedgerRow{Constituency: 2, Month: "2025-06", Day: 15},
		core.LedgerRow{Constituency: 1, Month: "2025-06", Day: 30},
		core.LedgerRow{Constituency: 1, Month: "2024-06", Day: 30},
		core.LedgerRow{Constituency: 1, Month: "June", Day: 30},
	)

	rows, err := svc.Project(ctx, "receive", "2025")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].ConstituencyNo)
	assert.Equal(t, 30, rows[0].Day)
	assert.Equal(t, "June 2025", rows[0].MonthLabel)

	_, err = svc.Project(ctx, "Receive", "2025")
	require.NoError(t, err)
	assert.Equal(t, int32(1), store.calls.Load())

	user := addUser(t, repo, "u", 3)
	addEntry(t, repo, user, "2025-06", 15, 1, 1)
	_, err = recv.Reconcile(ctx, 15, "2025-06")
	require.NoError(t, err)

	rows, err = svc.Project(ctx, "Receive", "2025")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, int32(2), store.calls.Load())
}

func TestProjectCollapsesConcurrentLoads(t *testing.T) {
	repo := newRepo(t)
	store := &countingReports{ReportStore: repo, delay: 100 * time.Millisecond}
	svc := NewReportService(store, cache.NewLRUCache[[]core.ReportRow](8, time.Minute), nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Project(context.Background(), "Distribution", "2025")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, store.calls.Load(), int32(2))
}

func TestInvalidateMonthWithoutYear(t *testing.T) {
	c := cache.NewLRUCache[[]core.ReportRow](8, time.Minute)
	svc := NewReportService(newRepo(t), c, nil, nil)
	c.Set("Receive:2025", nil)
	c.Set("Receive:2024", nil)
	c.Set("Distribution:2025", nil)

	svc.InvalidateMonth(core.ReportReceive, "June")
	assert.Equal(t, 1, c.Size())

	svc.InvalidateMonth(core.ReportDistribution, "2025-01")
	assert.Zero(t, c.Size())
}

func TestExport(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	exporter := memory.New()
	svc := NewReportService(repo, nil, exporter, nil)

	_, err := NewDistributionService(repo, svc).Record(ctx, core.DistributionInput{
		Constituency: 1, Month: "2025-03", Day: 30, Form6Count: 1, Form8Count: 2,
	})
	require.NoError(t, err)

	res, err := svc.Export(ctx, "distribution", "2025")
	require.NoError(t, err)
	assert.Equal(t, core.ReportDistribution, res.ReportType)
	assert.Equal(t, 1, res.Rows)
	assert.NotEmpty(t, res.Ref)

	rows, ok := exporter.Report(core.ReportDistribution, "2025")
	require.True(t, ok)
	assert.Equal(t, "March 2025", rows[0].MonthLabel)

	_, err = NewReportService(repo, nil, nil, nil).Export(ctx, "Receive", "2025")
	assert.Error(t, err)
}
