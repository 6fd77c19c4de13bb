package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formcount/internal/core"
)

func junePayload() core.EntryPayload {
	return core.EntryPayload{
		Month:       core.String("June"),
		DateOfMonth: core.Number(15),
		Form6Count:  core.Number(10),
		Form8Count:  core.Number(5),
		PeriodFrom:  core.String("2025-06-01"),
		PeriodTo:    core.String("2025-06-15"),
	}
}

func TestSubmitThenDuplicate(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	user := addUser(t, repo, "u", 9)
	svc := NewEntryService(repo)

	res, err := svc.Submit(ctx, user, junePayload())
	require.NoError(t, err)
	assert.Equal(t, "Entry saved", res.Message)
	assert.Positive(t, res.EntryID)
	assert.Equal(t, "June", res.Month)
	assert.Equal(t, 15, res.Day)

	_, err = svc.Submit(ctx, user, junePayload())
	assert.ErrorIs(t, err, core.ErrDuplicateSubmission)
	assert.NotErrorIs(t, err, core.ErrValidation)

	entries, err := svc.ListMine(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(9), entries[0].Constituency)

	submitted, err := svc.ListSubmitted(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, submitted, 1)
	assert.Equal(t, "June", submitted[0].Month)
}

func TestSubmitRejectsInvalidPayload(t *testing.T) {
	repo := newRepo(t)
	user := addUser(t, repo, "u", 1)
	svc := NewEntryService(repo)

	p := junePayload()
	p.DateOfMonth = core.Number(31)
	_, err := svc.Submit(context.Background(), user, p)
	assert.ErrorIs(t, err, core.ErrInvalidDay)

	entries, err := svc.ListMine(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// racingStore hides existing rows so the insert hits the unique constraint.
type racingStore struct{ EntryStore }

func (racingStore) EntryExists(context.Context, int64, string, int) (bool, error) {
	return false, nil
}

func TestSubmitDuplicateCaughtByConstraint(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	user := addUser(t, repo, "u", 1)

	_, err := NewEntryService(repo).Submit(ctx, user, junePayload())
	require.NoError(t, err)

	_, err = NewEntryService(racingStore{repo}).Submit(ctx, user, junePayload())
	assert.ErrorIs(t, err, core.ErrDuplicateSubmission)
}

func TestDistributionRecord(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	inv := &invalidations{}
	svc := NewDistributionService(repo, inv)

	in := core.DistributionInput{Constituency: 4, Month: "2025-06", Day: 15, Form6Count: 2, Form8Count: 3}
	id, err := svc.Record(ctx, in)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, []string{"Distribution 2025-06"}, inv.calls)

	_, err = svc.Record(ctx, in)
	assert.ErrorIs(t, err, core.ErrDuplicateSubmission)

	in.Day = 16
	_, err = svc.Record(ctx, in)
	assert.ErrorIs(t, err, core.ErrInvalidDay)

	in.Day = 30
	in.Form6Count = -1
	_, err = svc.Record(ctx, in)
	assert.ErrorIs(t, err, core.ErrInvalidCounts)
}
